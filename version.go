// Package dblpslice extracts a filtered, crossref-resolved slice of the dblp
// XML dump.
package dblpslice

const (
	// AppName is used for cache and data directories.
	AppName = "dblpslice"
	// Version of the tools.
	Version = "0.1.0"
)
