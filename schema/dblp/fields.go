package dblp

import (
	"fmt"
	"sort"
)

// FieldKind tells the record builder how to treat the text of a child
// element.
type FieldKind int

const (
	// Scalar fields hold a single value, the first non-empty one wins.
	Scalar FieldKind = iota + 1
	// List fields append one value per element, in document order.
	List
)

// Field describes a child element of a publication.
type Field struct {
	Tag  string
	Kind FieldKind
	// Inherit marks scalar fields a paper takes over from its crossref
	// proceedings, if it has no value of its own.
	Inherit bool
	scalar  func(*Record) **string
	people  func(*Record) *[]Author
}

// People is true for list fields holding persons (author, editor).
func (f *Field) People() bool {
	return f.people != nil
}

// AppendPerson adds a person to a people list field.
func (f *Field) AppendPerson(r *Record, a Author) {
	if f.people == nil {
		return
	}
	p := f.people(r)
	*p = append(*p, a)
}

func scalar(tag string, inherit bool, fn func(*Record) **string) *Field {
	return &Field{Tag: tag, Kind: Scalar, Inherit: inherit, scalar: fn}
}

// fieldTable lists every child element the builder knows about. Elements not
// listed here only contribute text to the enclosing field, if any.
var fieldTable = []*Field{
	{Tag: "author", Kind: List, people: func(r *Record) *[]Author { return &r.Authors }},
	{Tag: "editor", Kind: List, people: func(r *Record) *[]Author { return &r.Editors }},
	{Tag: "ee", Kind: List},
	scalar("title", true, func(r *Record) **string { return &r.Title }),
	scalar("year", true, func(r *Record) **string { return &r.Year }),
	scalar("pages", true, func(r *Record) **string { return &r.Pages }),
	scalar("volume", true, func(r *Record) **string { return &r.Volume }),
	scalar("number", true, func(r *Record) **string { return &r.Number }),
	scalar("publisher", true, func(r *Record) **string { return &r.Publisher }),
	scalar("isbn", true, func(r *Record) **string { return &r.ISBN }),
	scalar("series", true, func(r *Record) **string { return &r.Series }),
	scalar("booktitle", true, func(r *Record) **string { return &r.Booktitle }),
	scalar("journal", true, func(r *Record) **string { return &r.Journal }),
	scalar("month", true, func(r *Record) **string { return &r.Month }),
	scalar("note", true, func(r *Record) **string { return &r.Note }),
	scalar("school", true, func(r *Record) **string { return &r.School }),
	scalar("chapter", true, func(r *Record) **string { return &r.Chapter }),
	scalar("address", true, func(r *Record) **string { return &r.Address }),
	scalar("url", false, func(r *Record) **string { return &r.URL }),
	scalar("crossref", false, func(r *Record) **string { return &r.Crossref }),
}

var fieldsByTag = func() map[string]*Field {
	m := make(map[string]*Field, len(fieldTable))
	for _, f := range fieldTable {
		m[f.Tag] = f
	}
	return m
}()

// Schema is a variant of the output record. All variants share the field
// table; they differ in derived fields only.
type Schema struct {
	Name string
	// Venue sets Record.Venue from the key.
	Venue bool
	// Lastname stores a surname with every author.
	Lastname bool
}

var (
	// Default is the plain record layout.
	Default = &Schema{Name: "default"}
	// WithVenue additionally carries the venue name and author surnames.
	WithVenue = &Schema{Name: "venue", Venue: true, Lastname: true}

	schemas = map[string]*Schema{
		Default.Name:   Default,
		WithVenue.Name: WithVenue,
	}
)

// SchemaByName looks up a schema variant.
func SchemaByName(name string) (*Schema, error) {
	if s, ok := schemas[name]; ok {
		return s, nil
	}
	var names []string
	for k := range schemas {
		names = append(names, k)
	}
	sort.Strings(names)
	return nil, fmt.Errorf("unknown schema %q, available: %v", name, names)
}

// Field returns the field definition for an element name.
func (s *Schema) Field(tag string) (*Field, bool) {
	f, ok := fieldsByTag[tag]
	return f, ok
}

// InheritedFields returns the scalar fields crossref resolution may fill.
func InheritedFields() []*Field {
	var result []*Field
	for _, f := range fieldTable {
		if f.Kind == Scalar && f.Inherit {
			result = append(result, f)
		}
	}
	return result
}

// Get returns the value of a scalar field on r.
func (f *Field) Get(r *Record) *string {
	if f.scalar == nil {
		return nil
	}
	return *f.scalar(r)
}

// Fill sets a scalar field on r to v, unless r already has a value. Returns
// true if the field changed.
func (f *Field) Fill(r *Record, v *string) bool {
	if f.scalar == nil || v == nil {
		return false
	}
	p := f.scalar(r)
	if *p != nil {
		return false
	}
	value := *v
	*p = &value
	return true
}
