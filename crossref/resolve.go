package crossref

import (
	"context"

	"github.com/miku/dblpslice/schema/dblp"
	"golang.org/x/sync/errgroup"
)

// Stats about a resolution run. A miss is a crossref pointing to a key that
// is not in the index, e.g. because the proceedings were filtered out.
type Stats struct {
	Papers   int // papers with a crossref
	Resolved int
	Missed   int
	Filled   int // fields filled in total
}

// Add merges two stats.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Papers:   s.Papers + o.Papers,
		Resolved: s.Resolved + o.Resolved,
		Missed:   s.Missed + o.Missed,
		Filled:   s.Filled + o.Filled,
	}
}

// Resolve fills absent inheritable fields of papers from the proceedings
// record their crossref points to. Fields that hold a value are never
// changed; proceedings records in papers are skipped.
func Resolve(papers []*dblp.Record, ix *Index) Stats {
	var (
		stats  Stats
		fields = dblp.InheritedFields()
	)
	for _, p := range papers {
		if !p.IsPaper() || p.Crossref == nil {
			continue
		}
		stats.Papers++
		proc, ok := ix.Get(*p.Crossref)
		if !ok {
			stats.Missed++
			continue
		}
		stats.Resolved++
		for _, f := range fields {
			if f.Fill(p, f.Get(proc)) {
				stats.Filled++
			}
		}
	}
	return stats
}

// ResolveParallel runs Resolve over shards of papers concurrently. The index
// is only read, and shards are disjoint, so no locking is required.
func ResolveParallel(ctx context.Context, papers []*dblp.Record, ix *Index, workers int) (Stats, error) {
	if workers < 2 || len(papers) < 2*workers {
		return Resolve(papers, ix), nil
	}
	var (
		size   = (len(papers) + workers - 1) / workers
		shards = make([]Stats, workers)
	)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		lo, hi := i*size, (i+1)*size
		if lo >= len(papers) {
			break
		}
		if hi > len(papers) {
			hi = len(papers)
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			shards[i] = Resolve(papers[lo:hi], ix)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	var total Stats
	for _, s := range shards {
		total = total.Add(s)
	}
	return total, nil
}
