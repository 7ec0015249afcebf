// Package venue decides which dblp records are extracted, based on the first
// two segments of their key, like "conf/crypto" or "journals/joc".
package venue

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyAllowList is returned when a venue file lists no venues.
var ErrEmptyAllowList = errors.New("venue: empty allow list")

// Default venues: cryptography and security journals and conferences.
var Default = []string{
	"journals/joc",
	"journals/tosc",
	"journals/tches",
	"journals/cic",
	"conf/crypto",
	"conf/eurocrypt",
	"conf/asiacrypt",
	"conf/tcc",
	"conf/pkc",
	"conf/fse",
	"conf/ches",
	"conf/rwc",
	"conf/uss",
	"conf/sp",
	"conf/ccs",
	"conf/ndss",
}

// Prefix returns the first two slash separated segments of a key; a key
// with fewer segments is returned as is.
func Prefix(key string) string {
	parts := strings.SplitN(key, "/", 3)
	if len(parts) < 2 {
		return key
	}
	return parts[0] + "/" + parts[1]
}

// Name returns the venue part of a key, e.g. "crypto" for
// "conf/crypto/Foo21", or the empty string.
func Name(key string) string {
	parts := strings.SplitN(key, "/", 3)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// AllowList is a set of venue prefixes.
type AllowList map[string]struct{}

// New creates an allow list from prefixes. Surrounding whitespace and
// trailing slashes are ignored.
func New(prefixes ...string) AllowList {
	al := make(AllowList, len(prefixes))
	for _, p := range prefixes {
		p = strings.Trim(strings.TrimSpace(p), "/")
		if p == "" {
			continue
		}
		al[p] = struct{}{}
	}
	return al
}

// Allow reports whether the key prefix is in the allow list.
func (al AllowList) Allow(key string) bool {
	_, ok := al[Prefix(key)]
	return ok
}

// Contains reports whether a prefix is in the allow list.
func (al AllowList) Contains(prefix string) bool {
	_, ok := al[prefix]
	return ok
}

// Prefixes returns the sorted prefixes.
func (al AllowList) Prefixes() []string {
	result := make([]string, 0, len(al))
	for k := range al {
		result = append(result, k)
	}
	sort.Strings(result)
	return result
}

// File is the layout of a venue file:
//
//	venues:
//	  - conf/crypto
//	  - journals/joc
type File struct {
	Venues []string `yaml:"venues"`
}

// Load reads an allow list from YAML.
func Load(r io.Reader) (AllowList, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if err == io.EOF {
			return nil, ErrEmptyAllowList
		}
		return nil, fmt.Errorf("parsing venues: %w", err)
	}
	al := New(f.Venues...)
	if len(al) == 0 {
		return nil, ErrEmptyAllowList
	}
	return al, nil
}

// LoadFile reads an allow list from a YAML file.
func LoadFile(filename string) (AllowList, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}
