package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/miku/dblpslice/crossref"
	"github.com/miku/dblpslice/fileutil"
	"github.com/miku/dblpslice/schema/dblp"
	"github.com/miku/dblpslice/venue"
	"github.com/miku/dblpslice/xmlstream"
	log "github.com/sirupsen/logrus"
)

// Options for an extraction run.
type Options struct {
	Allow         venue.AllowList
	Schema        *dblp.Schema      // default: dblp.Default
	Inline        []string          // default: DefaultInline
	Entities      map[string]string // extra general entities
	DTD           string            // optional DTD file to read entities from
	Verbose       bool
	ProgressEvery int
	Workers       int // crossref resolution shards
}

// Result of an extraction run.
type Result struct {
	Papers   []*dblp.Record
	Index    *crossref.Index
	Stats    Stats
	Crossref crossref.Stats
}

// Proceedings returns the indexed proceedings, optionally only those some
// extracted paper refers to.
func (r *Result) Proceedings(referencedOnly bool) []*dblp.Record {
	if referencedOnly {
		return r.Index.Referenced(r.Papers)
	}
	return r.Index.Records()
}

// Run consumes the whole document and returns the collected records, without
// crossref resolution. Any parse error aborts the run.
func Run(r io.Reader, opts Options) (*Result, error) {
	if len(opts.Allow) == 0 {
		return nil, venue.ErrEmptyAllowList
	}
	var (
		scanner = xmlstream.NewScanner(r, xmlstream.WithEntities(opts.Entities))
		b       = NewBuilder(opts)
	)
	for scanner.Scan() {
		b.Handle(scanner.Event())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &Result{
		Papers: b.Papers(),
		Index:  b.Index(),
		Stats:  b.Stats(),
	}, nil
}

// File extracts records from a dump file, which may be gzip or zstd
// compressed, and resolves crossrefs.
func File(ctx context.Context, filename string, opts Options) (*Result, error) {
	if opts.DTD != "" {
		entities, err := loadDTD(opts.DTD)
		if err != nil {
			return nil, err
		}
		for k, v := range opts.Entities {
			entities[k] = v
		}
		opts.Entities = entities
	}
	f, err := fileutil.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	started := time.Now()
	result, err := Run(f, opts)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", filename, err)
	}
	log.WithFields(log.Fields{
		"elements":    result.Stats.Elements,
		"papers":      result.Stats.Papers,
		"proceedings": result.Index.Len(),
		"skipped":     result.Stats.Skipped,
		"missing_key": result.Stats.MissingKey,
		"elapsed":     time.Since(started),
	}).Info("extraction done")
	stats, err := crossref.ResolveParallel(ctx, result.Papers, result.Index, opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("crossref: %w", err)
	}
	result.Crossref = stats
	log.WithFields(log.Fields{
		"with_crossref": stats.Papers,
		"resolved":      stats.Resolved,
		"missed":        stats.Missed,
		"filled":        stats.Filled,
	}).Info("crossref resolution done")
	return result, nil
}

func loadDTD(filename string) (map[string]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("dtd: %w", err)
	}
	defer f.Close()
	entities, err := xmlstream.LoadEntities(f)
	if err != nil {
		return nil, fmt.Errorf("dtd: %w", err)
	}
	if entities == nil {
		entities = make(map[string]string)
	}
	return entities, nil
}
