// Package crossref resolves references from papers to the proceedings volume
// they appeared in, filling in shared metadata like booktitle, publisher or
// year that dblp only records on the proceedings.
package crossref

import "github.com/miku/dblpslice/schema/dblp"

// Index maps proceedings keys to records. Iteration follows first insertion
// order; adding a key again replaces the record but keeps its position.
type Index struct {
	m    map[string]*dblp.Record
	keys []string
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{m: make(map[string]*dblp.Record)}
}

// Add inserts or replaces a record.
func (ix *Index) Add(r *dblp.Record) {
	if _, ok := ix.m[r.Key]; !ok {
		ix.keys = append(ix.keys, r.Key)
	}
	ix.m[r.Key] = r
}

// Get looks up a record by key.
func (ix *Index) Get(key string) (*dblp.Record, bool) {
	r, ok := ix.m[key]
	return r, ok
}

// Len returns the number of records.
func (ix *Index) Len() int {
	return len(ix.m)
}

// Records returns all records, in insertion order.
func (ix *Index) Records() []*dblp.Record {
	result := make([]*dblp.Record, 0, len(ix.keys))
	for _, k := range ix.keys {
		result = append(result, ix.m[k])
	}
	return result
}

// Referenced returns the records some paper points to via crossref, in
// insertion order.
func (ix *Index) Referenced(papers []*dblp.Record) []*dblp.Record {
	seen := make(map[string]bool)
	for _, p := range papers {
		if p.Crossref != nil {
			seen[*p.Crossref] = true
		}
	}
	var result []*dblp.Record
	for _, k := range ix.keys {
		if seen[k] {
			result = append(result, ix.m[k])
		}
	}
	return result
}
