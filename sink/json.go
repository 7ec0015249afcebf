// Package sink writes extracted records to JSON files and SQLite.
package sink

import (
	"errors"
	"fmt"

	"github.com/miku/dblpslice/fileutil"
	"github.com/miku/dblpslice/schema/dblp"
	"github.com/segmentio/encoding/json"
)

// ErrNoRecords is returned when an input file holds no records at all.
var ErrNoRecords = errors.New("sink: no records")

// WriteJSON writes records as an indented JSON array. The file only appears
// at path once completely written; a .gz or .zst suffix compresses. A nil
// slice is written as an empty array.
func WriteJSON(path string, records []*dblp.Record) error {
	if records == nil {
		records = []*dblp.Record{}
	}
	w, err := fileutil.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		_ = w.Abort()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return w.Close()
}

// ReadJSON reads back a file written by WriteJSON.
func ReadJSON(path string) ([]*dblp.Record, error) {
	f, err := fileutil.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var records []*dblp.Record
	if err := json.NewDecoder(f).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}
