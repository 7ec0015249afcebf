// Package xmlstream turns an XML byte stream into a forward-only sequence of
// open, close and text events, without materializing the document. It is meant
// for dumps that are much larger than memory.
package xmlstream

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Kind of an event.
type Kind int

const (
	StartElement Kind = iota + 1
	EndElement
	CharData
)

func (k Kind) String() string {
	switch k {
	case StartElement:
		return "start"
	case EndElement:
		return "end"
	case CharData:
		return "chardata"
	default:
		return "unknown"
	}
}

// Event is a single token from the stream. Text refers to the decoder's
// internal buffer and is only valid until the next call to Scan.
type Event struct {
	Kind Kind
	Name string
	Attr []xml.Attr
	Text []byte
}

// AttrValue returns the value of the named attribute.
func (e Event) AttrValue(name string) (string, bool) {
	for _, a := range e.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// ParseError is returned for malformed input. The stream cannot be resumed
// after a ParseError.
type ParseError struct {
	Offset int64 // byte offset into the decoded stream
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("xml: parse error at offset %d (line %d): %v", e.Offset, e.Line, e.Err)
	}
	return fmt.Sprintf("xml: parse error at offset %d: %v", e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Option configures a Scanner.
type Option func(*Scanner)

// WithEntities adds general entity definitions, e.g. from an external DTD.
func WithEntities(m map[string]string) Option {
	return func(s *Scanner) {
		for k, v := range m {
			s.Decoder.Entity[k] = v
		}
	}
}

// Scanner yields events from an XML document.
type Scanner struct {
	Decoder *xml.Decoder
	event   Event
	err     error
	done    bool
}

// NewScanner sets up a strict decoder over r, with HTML named entities and
// latin-1 style encodings available.
func NewScanner(r io.Reader, opts ...Option) *Scanner {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	dec.CharsetReader = charsetReader
	dec.Entity = make(map[string]string, len(xml.HTMLEntity))
	for k, v := range xml.HTMLEntity {
		dec.Entity[k] = v
	}
	s := &Scanner{Decoder: dec}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan advances to the next event. It returns false at the end of the
// document or on error.
func (s *Scanner) Scan() bool {
	if s.done || s.err != nil {
		return false
	}
	for {
		tok, err := s.Decoder.Token()
		if err == io.EOF {
			s.done = true
			return false
		}
		if err != nil {
			s.err = s.wrap(err)
			return false
		}
		switch t := tok.(type) {
		case xml.StartElement:
			s.event = Event{Kind: StartElement, Name: t.Name.Local, Attr: t.Attr}
			return true
		case xml.EndElement:
			s.event = Event{Kind: EndElement, Name: t.Name.Local}
			return true
		case xml.CharData:
			s.event = Event{Kind: CharData, Text: t}
			return true
		case xml.Directive:
			for k, v := range parseEntities(string(t)) {
				s.Decoder.Entity[k] = v
			}
		}
	}
}

// Event returns the current event.
func (s *Scanner) Event() Event {
	return s.event
}

// Err returns the first error encountered, always a *ParseError.
func (s *Scanner) Err() error {
	return s.err
}

// Offset returns the current byte offset into the decoded stream.
func (s *Scanner) Offset() int64 {
	return s.Decoder.InputOffset()
}

func (s *Scanner) wrap(err error) error {
	pe := &ParseError{Offset: s.Decoder.InputOffset(), Err: err}
	var se *xml.SyntaxError
	if errors.As(err, &se) {
		pe.Line = se.Line
	}
	return pe
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1", "l1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	case "us-ascii", "ascii":
		return input, nil
	default:
		return nil, fmt.Errorf("unsupported charset: %q", label)
	}
}
