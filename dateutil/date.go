// Package dateutil provides lenient date handling for dump metadata.
package dateutil

import (
	"regexp"
	"time"

	"github.com/araddon/dateparse"
)

// DateLayout is the layout used for normalized dates, as found in the mdate
// attribute of dblp records.
const DateLayout = "2006-01-02"

var isoDate = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// Parse parses a date in any of the formats dateparse understands.
func Parse(value string) (time.Time, error) {
	return dateparse.ParseStrict(value)
}

// MustParse is like Parse but panics on error
func MustParse(value string) time.Time {
	t, err := dateparse.ParseStrict(value)
	if err != nil {
		panic(err)
	}
	return t
}

// Normalize returns value as YYYY-MM-DD, or an error if it cannot be parsed.
func Normalize(value string) (string, error) {
	t, err := Parse(value)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}

// FromFilename extracts the first YYYY-MM-DD date found in a filename, like
// "dblp-2024-03-01.xml.gz".
func FromFilename(name string) (time.Time, bool) {
	m := isoDate.FindString(name)
	if m == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, m)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
