// Package author turns dblp author tokens into display names and dedup keys.
//
// dblp disambiguates homonymous persons with a four digit suffix, e.g. "Wei
// Wang 0001" and "Wei Wang 0002" are different people. The suffix is not part
// of the name, but it is part of the identity.
package author

import "strings"

// Identity is a normalized author mention.
type Identity struct {
	Name    string  // display name, without disambiguation suffix
	Surname string  // last part of Name
	Key     string  // the raw token, stable across the whole dump
	ORCID   *string // optional
}

// Normalize splits raw on single spaces, drops a trailing all-digit part and
// joins the rest back into a display name. A token that consists of digits
// only is kept as is. The raw token is the dedup key.
func Normalize(raw string, orcid *string) Identity {
	parts := strings.Split(raw, " ")
	if len(parts) > 1 && IsDisambiguation(parts[len(parts)-1]) {
		parts = parts[:len(parts)-1]
	}
	return Identity{
		Name:    strings.Join(parts, " "),
		Surname: parts[len(parts)-1],
		Key:     raw,
		ORCID:   orcid,
	}
}

// IsDisambiguation is true for non-empty strings made of ASCII digits only.
func IsDisambiguation(part string) bool {
	if part == "" {
		return false
	}
	for i := 0; i < len(part); i++ {
		if part[i] < '0' || part[i] > '9' {
			return false
		}
	}
	return true
}

// Same reports whether two mentions refer to the same person. Equal display
// names are not enough.
func Same(a, b Identity) bool {
	return a.Key == b.Key
}
