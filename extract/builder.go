// Package extract builds dblp records from a stream of XML events. Records
// are only materialized for venues in an allow list; papers are collected in
// document order, proceedings go into a crossref index.
package extract

import (
	"strings"

	"github.com/miku/dblpslice/author"
	"github.com/miku/dblpslice/crossref"
	"github.com/miku/dblpslice/schema/dblp"
	"github.com/miku/dblpslice/venue"
	"github.com/miku/dblpslice/xmlstream"
	log "github.com/sirupsen/logrus"
)

// DOIMarker identifies external links that are DOIs.
const DOIMarker = "doi.org/"

// DefaultInline lists inline markup elements whose text stays part of the
// enclosing field.
var DefaultInline = []string{"sup", "sub"}

// Stats counts what the builder has seen.
type Stats struct {
	Elements    int // publication-like elements
	Tags        int // all start elements
	Papers      int
	Proceedings int
	Skipped     int // not in allow list
	MissingKey  int // publication-like elements without key attribute
}

// parseState is everything that changes while a record is open.
type parseState struct {
	record *dblp.Record
	tag    string // element name of the open record
	text   strings.Builder
	orcid  *string
}

func (s *parseState) reset() {
	s.record = nil
	s.tag = ""
	s.text.Reset()
	s.orcid = nil
}

// Builder consumes events and collects records.
type Builder struct {
	allow         venue.AllowList
	schema        *dblp.Schema
	inline        map[string]bool
	verbose       bool
	progressEvery int

	state  parseState
	papers []*dblp.Record
	index  *crossref.Index
	stats  Stats
}

// NewBuilder sets up a builder from options.
func NewBuilder(opts Options) *Builder {
	b := &Builder{
		allow:         opts.Allow,
		schema:        opts.Schema,
		inline:        make(map[string]bool),
		verbose:       opts.Verbose,
		progressEvery: opts.ProgressEvery,
		index:         crossref.NewIndex(),
	}
	if b.schema == nil {
		b.schema = dblp.Default
	}
	inline := opts.Inline
	if inline == nil {
		inline = DefaultInline
	}
	for _, tag := range inline {
		b.inline[tag] = true
	}
	return b
}

// Handle processes a single event.
func (b *Builder) Handle(ev xmlstream.Event) {
	switch ev.Kind {
	case xmlstream.StartElement:
		b.stats.Tags++
		b.open(ev)
	case xmlstream.CharData:
		if b.state.record != nil {
			b.state.text.Write(ev.Text)
		}
	case xmlstream.EndElement:
		if b.state.record != nil {
			b.close(ev.Name)
		}
	}
}

func (b *Builder) open(ev xmlstream.Event) {
	if kind, ok := dblp.ParseKind(ev.Name); ok {
		b.openRecord(kind, ev)
		return
	}
	if b.state.record == nil {
		return
	}
	if f, ok := b.schema.Field(ev.Name); ok && f.People() {
		b.state.orcid = nil
		if v, ok := ev.AttrValue("orcid"); ok && v != "" {
			b.state.orcid = &v
		}
		b.state.text.Reset()
	}
}

func (b *Builder) openRecord(kind dblp.Kind, ev xmlstream.Event) {
	b.stats.Elements++
	if b.verbose && b.progressEvery > 0 && b.stats.Elements%b.progressEvery == 0 {
		log.WithFields(log.Fields{
			"count":       b.stats.Elements,
			"tags":        b.stats.Tags,
			"papers":      len(b.papers),
			"proceedings": b.index.Len(),
		}).Info("progress")
	}
	b.state.reset()
	key, ok := ev.AttrValue("key")
	if !ok || key == "" {
		b.stats.MissingKey++
		log.WithField("element", ev.Name).Debug("skipping element without key")
		return
	}
	if !b.allow.Allow(key) {
		b.stats.Skipped++
		return
	}
	r := dblp.NewRecord(key, kind)
	if mdate, ok := ev.AttrValue("mdate"); ok && mdate != "" {
		r.MDate = &mdate
	}
	if b.schema.Venue {
		if name := venue.Name(key); name != "" {
			r.Venue = &name
		}
	}
	b.state.record = r
	b.state.tag = ev.Name
}

func (b *Builder) close(name string) {
	var (
		st = &b.state
		r  = st.record
	)
	if name == st.tag {
		b.finish()
		return
	}
	if b.inline[name] {
		return
	}
	text := strings.TrimSpace(st.text.String())
	st.text.Reset()
	f, ok := b.schema.Field(name)
	switch {
	case !ok:
	case f.People():
		if text != "" {
			a := dblp.Author{Raw: text, ORCID: st.orcid}
			if b.schema.Lastname {
				surname := author.Normalize(text, st.orcid).Surname
				a.Lastname = &surname
			}
			f.AppendPerson(r, a)
		}
		st.orcid = nil
	case name == "ee":
		if text == "" {
			break
		}
		r.EE = append(r.EE, text)
		if r.DOI == nil && strings.Contains(text, DOIMarker) {
			r.DOI = &text
		}
	case f.Kind == dblp.Scalar:
		r.SetScalar(name, text)
	}
}

// finish hands the open record over to the output collections.
func (b *Builder) finish() {
	r := b.state.record
	if r.Type == dblp.Proceedings {
		b.index.Add(r)
		b.stats.Proceedings++
	} else {
		b.papers = append(b.papers, r)
		b.stats.Papers++
	}
	b.state.reset()
}

// Papers returns the collected articles and inproceedings.
func (b *Builder) Papers() []*dblp.Record {
	return b.papers
}

// Index returns the proceedings index.
func (b *Builder) Index() *crossref.Index {
	return b.index
}

// Stats returns the counters.
func (b *Builder) Stats() Stats {
	return b.stats
}
