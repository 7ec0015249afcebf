// Package dblp contains the record type extracted from the dblp XML dump,
// cf. https://dblp.org/xml/dblp.dtd, and the table of fields that are
// picked up from it.
package dblp

import (
	"fmt"

	"github.com/segmentio/encoding/json"
)

// Kind is the type of a publication-like element.
type Kind int

const (
	Article Kind = iota + 1
	InProceedings
	Proceedings
)

// ParseKind maps an element name to a Kind; only article, inproceedings and
// proceedings are publication-like.
func ParseKind(tag string) (Kind, bool) {
	switch tag {
	case "article":
		return Article, true
	case "inproceedings":
		return InProceedings, true
	case "proceedings":
		return Proceedings, true
	default:
		return 0, false
	}
}

// String returns the element name.
func (k Kind) String() string {
	switch k {
	case Article:
		return "article"
	case InProceedings:
		return "inproceedings"
	case Proceedings:
		return "proceedings"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, ok := ParseKind(s)
	if !ok {
		return fmt.Errorf("unknown record type: %q", s)
	}
	*k = v
	return nil
}

// Author is a person mention as found in the dump, e.g. "Jane A. Doe 0001".
// Raw is the trimmed element text and serves as the dedup key downstream.
type Author struct {
	Raw      string
	ORCID    *string
	Lastname *string // only set by schemas that store surnames
}

// MarshalJSON renders an author as a tuple: [raw, orcid] or [raw, orcid,
// lastname].
func (a Author) MarshalJSON() ([]byte, error) {
	if a.Lastname != nil {
		return json.Marshal([]*string{&a.Raw, a.ORCID, a.Lastname})
	}
	return json.Marshal([]*string{&a.Raw, a.ORCID})
}

func (a *Author) UnmarshalJSON(b []byte) error {
	var vs []*string
	if err := json.Unmarshal(b, &vs); err != nil {
		return err
	}
	if len(vs) < 2 || len(vs) > 3 || vs[0] == nil {
		return fmt.Errorf("invalid author tuple: %s", string(b))
	}
	a.Raw, a.ORCID = *vs[0], vs[1]
	if len(vs) == 3 {
		a.Lastname = vs[2]
	}
	return nil
}

// Record is a single publication. Optional scalar fields are nil when absent
// and are never the empty string when present.
type Record struct {
	Key       string   `json:"key"`
	MDate     *string  `json:"mdate"`
	Type      Kind     `json:"type"`
	Authors   []Author `json:"authors"`
	Title     *string  `json:"title"`
	Year      *string  `json:"year"`
	Pages     *string  `json:"pages"`
	Volume    *string  `json:"volume"`
	Number    *string  `json:"number"`
	Publisher *string  `json:"publisher"`
	ISBN      *string  `json:"isbn"`
	Series    *string  `json:"series"`
	Booktitle *string  `json:"booktitle"`
	Journal   *string  `json:"journal"`
	Month     *string  `json:"month"`
	Note      *string  `json:"note"`
	School    *string  `json:"school"`
	Chapter   *string  `json:"chapter"`
	Address   *string  `json:"address"`
	URL       *string  `json:"url"`
	Crossref  *string  `json:"crossref"`
	DOI       *string  `json:"doi"`
	EE        []string `json:"ee,omitempty"`
	Editors   []Author `json:"editors,omitempty"`
	Venue     *string  `json:"venue,omitempty"`
}

// NewRecord returns an empty record with all optional fields absent.
func NewRecord(key string, kind Kind) *Record {
	return &Record{Key: key, Type: kind, Authors: []Author{}}
}

// IsPaper is true for anything that is not a proceedings volume.
func (r *Record) IsPaper() bool {
	return r.Type != Proceedings
}

// Scalar returns the value of a scalar field by tag name, nil if absent or
// if there is no such field.
func (r *Record) Scalar(tag string) *string {
	f, ok := fieldsByTag[tag]
	if !ok || f.Kind != Scalar {
		return nil
	}
	return *f.scalar(r)
}

// SetScalar sets a scalar field, if it is currently absent and value is not
// empty. Returns true, if the field was set.
func (r *Record) SetScalar(tag, value string) bool {
	f, ok := fieldsByTag[tag]
	if !ok || f.Kind != Scalar || value == "" {
		return false
	}
	p := f.scalar(r)
	if *p != nil {
		return false
	}
	*p = &value
	return true
}
