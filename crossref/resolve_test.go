package crossref

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/miku/dblpslice/schema/dblp"
)

func strptr(s string) *string { return &s }

func proceedings(key, booktitle, publisher string) *dblp.Record {
	r := dblp.NewRecord(key, dblp.Proceedings)
	r.SetScalar("booktitle", booktitle)
	r.SetScalar("publisher", publisher)
	r.SetScalar("year", "2021")
	r.SetScalar("title", "Advances in Cryptology - CRYPTO 2021")
	return r
}

func paper(key, crossref string) *dblp.Record {
	r := dblp.NewRecord(key, dblp.InProceedings)
	r.SetScalar("title", "Foo")
	if crossref != "" {
		r.SetScalar("crossref", crossref)
	}
	return r
}

func TestResolveFillsAbsentFields(t *testing.T) {
	ix := NewIndex()
	ix.Add(proceedings("conf/crypto/Proc21", "Proc. Crypto 2021", "Springer"))
	p := paper("conf/crypto/Foo21", "conf/crypto/Proc21")
	stats := Resolve([]*dblp.Record{p}, ix)
	if got := p.Booktitle; got == nil || *got != "Proc. Crypto 2021" {
		t.Errorf("booktitle: got %v, want Proc. Crypto 2021", got)
	}
	if got := p.Publisher; got == nil || *got != "Springer" {
		t.Errorf("publisher: got %v", got)
	}
	if got := *p.Title; got != "Foo" {
		t.Errorf("title must not be overwritten, got %q", got)
	}
	if p.Journal != nil {
		t.Errorf("journal absent on both sides must stay absent")
	}
	if p.Key != "conf/crypto/Foo21" || p.Type != dblp.InProceedings || len(p.Authors) != 0 {
		t.Errorf("identity fields changed: %+v", p)
	}
	want := Stats{Papers: 1, Resolved: 1, Filled: 3} // booktitle, publisher, year
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveMonotonic(t *testing.T) {
	ix := NewIndex()
	ix.Add(proceedings("conf/crypto/Proc21", "Proc. Crypto 2021", "Springer"))
	p := paper("conf/crypto/Foo21", "conf/crypto/Proc21")
	p.SetScalar("booktitle", "CRYPTO (1)")
	p.SetScalar("year", "2020")
	Resolve([]*dblp.Record{p}, ix)
	if *p.Booktitle != "CRYPTO (1)" || *p.Year != "2020" {
		t.Errorf("present fields changed: booktitle=%q year=%q", *p.Booktitle, *p.Year)
	}
	// Running twice changes nothing.
	before := *p
	stats := Resolve([]*dblp.Record{p}, ix)
	if stats.Filled != 0 {
		t.Errorf("second pass filled %d fields", stats.Filled)
	}
	if diff := cmp.Diff(before, *p); diff != "" {
		t.Errorf("second pass changed record (-want +got):\n%s", diff)
	}
}

func TestResolveMissIsNotAnError(t *testing.T) {
	ix := NewIndex()
	p := paper("conf/crypto/Foo21", "conf/crypto/Missing")
	q := paper("conf/crypto/Bar21", "")
	stats := Resolve([]*dblp.Record{p, q}, ix)
	if stats.Missed != 1 || stats.Papers != 1 || stats.Resolved != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if p.Booktitle != nil {
		t.Errorf("unexpected booktitle")
	}
}

func TestResolveDoesNotInheritDOI(t *testing.T) {
	ix := NewIndex()
	proc := proceedings("conf/crypto/Proc21", "B", "P")
	proc.DOI = strptr("https://doi.org/10.1007/978-3-030-84242-0")
	proc.URL = strptr("db/conf/crypto/crypto2021-1.html")
	ix.Add(proc)
	p := paper("conf/crypto/Foo21", "conf/crypto/Proc21")
	Resolve([]*dblp.Record{p}, ix)
	if p.DOI != nil || p.URL != nil {
		t.Errorf("doi and url must not be inherited: %v %v", p.DOI, p.URL)
	}
	if *p.Crossref != "conf/crypto/Proc21" {
		t.Errorf("crossref changed")
	}
}

func TestIndexOrderAndLastWins(t *testing.T) {
	ix := NewIndex()
	ix.Add(proceedings("conf/a/1", "A1", "P"))
	ix.Add(proceedings("conf/b/1", "B1", "P"))
	ix.Add(proceedings("conf/a/1", "A1-again", "P"))
	if ix.Len() != 2 {
		t.Fatalf("got %d, want 2", ix.Len())
	}
	var got []string
	for _, r := range ix.Records() {
		got = append(got, *r.Booktitle)
	}
	if diff := cmp.Diff([]string{"A1-again", "B1"}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	papers := []*dblp.Record{paper("conf/b/x", "conf/b/1"), paper("conf/b/y", "conf/zzz/1")}
	ref := ix.Referenced(papers)
	if len(ref) != 1 || ref[0].Key != "conf/b/1" {
		t.Errorf("unexpected referenced set: %v", ref)
	}
}

func TestResolveParallelMatchesSerial(t *testing.T) {
	build := func() ([]*dblp.Record, *Index) {
		ix := NewIndex()
		var papers []*dblp.Record
		for i := 0; i < 10; i++ {
			ix.Add(proceedings(fmt.Sprintf("conf/x/P%d", i), fmt.Sprintf("Book %d", i), "Pub"))
		}
		for i := 0; i < 103; i++ {
			papers = append(papers, paper(fmt.Sprintf("conf/x/p%d", i), fmt.Sprintf("conf/x/P%d", i%13)))
		}
		return papers, ix
	}
	serialPapers, serialIndex := build()
	want := Resolve(serialPapers, serialIndex)
	parallelPapers, parallelIndex := build()
	got, err := ResolveParallel(context.Background(), parallelPapers, parallelIndex, 4)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(serialPapers, parallelPapers); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveParallelCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var papers []*dblp.Record
	for i := 0; i < 100; i++ {
		papers = append(papers, paper(fmt.Sprintf("conf/x/p%d", i), "conf/x/P"))
	}
	if _, err := ResolveParallel(ctx, papers, NewIndex(), 4); err == nil {
		t.Errorf("expected context error")
	}
}
