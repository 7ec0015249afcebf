// Package normal folds names into keys suitable for lookups, e.g. "Jürgen
// Müller" and "Jurgen  MULLER" share the key "jurgen muller".
package normal

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Pipeline struct {
	Normalizer []Normalizer
}

func (p *Pipeline) Normalize(s string) string {
	for _, n := range p.Normalizer {
		s = n.Normalize(s)
	}
	return s
}

type Normalizer interface {
	Normalize(string) string
}

type SimpleNormalizer struct{}

func (s *SimpleNormalizer) Normalize(v string) string {
	return strings.ToLower(v)
}

// DiacriticsNormalizer decomposes and drops combining marks.
type DiacriticsNormalizer struct{}

func (s *DiacriticsNormalizer) Normalize(v string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, v)
	if err != nil {
		return v
	}
	return result
}

// SpaceNormalizer collapses whitespace runs into single spaces and trims.
type SpaceNormalizer struct{}

func (s *SpaceNormalizer) Normalize(v string) string {
	return strings.Join(strings.Fields(v), " ")
}

// PunctNormalizer replaces punctuation (dots, hyphens) with spaces.
type PunctNormalizer struct{}

func (s *PunctNormalizer) Normalize(v string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return ' '
		}
		return r
	}, v)
}

// NameKey is the pipeline used for author search keys.
var NameKey = &Pipeline{Normalizer: []Normalizer{
	&DiacriticsNormalizer{},
	&SimpleNormalizer{},
	&PunctNormalizer{},
	&SpaceNormalizer{},
}}

// Name folds a display name into a lookup key.
func Name(s string) string {
	return NameKey.Normalize(s)
}
