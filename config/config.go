// Package config gathers settings for the dblpslice tools. Values come from
// built-in defaults, an optional .env file, DBLPSLICE_* environment variables
// and finally command line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/miku/dblpslice"
	"github.com/miku/dblpslice/schema/dblp"
	"github.com/miku/dblpslice/venue"
)

const envPrefix = "DBLPSLICE_"

// Config for extraction and loading.
type Config struct {
	// DataDir is the base directory for downloads and outputs.
	DataDir string
	// DumpFile is the dblp XML dump, optionally compressed.
	DumpFile string
	// DTDFile is used to resolve named entities, if it exists.
	DTDFile         string
	ArticlesFile    string
	ProceedingsFile string
	DatabaseFile    string
	// VenuesFile is a YAML allow list; if empty, the built-in list is used.
	VenuesFile    string
	Schema        string
	Verbose       bool
	ProgressEvery int
	// Workers for crossref resolution.
	Workers    int
	MaxRetries int
	Timeout    time.Duration
	// ReferencedOnly restricts proceedings output to those cited by an
	// extracted paper.
	ReferencedOnly bool
}

// Default returns a configuration rooted at the XDG data home.
func Default() *Config {
	dataDir := filepath.Join(xdg.DataHome, dblpslice.AppName)
	return &Config{
		DataDir:         dataDir,
		DumpFile:        filepath.Join(dataDir, "dblp.xml.gz"),
		DTDFile:         filepath.Join(dataDir, "dblp.dtd"),
		ArticlesFile:    "articles.json",
		ProceedingsFile: "proceedings.json",
		DatabaseFile:    "dblp.db",
		Schema:          dblp.Default.Name,
		ProgressEvery:   100000,
		Workers:         4,
		MaxRetries:      3,
		Timeout:         10 * time.Minute,
	}
}

// LoadEnv reads the given .env files, ".env" if none given, and applies all
// DBLPSLICE_* variables. Missing .env files are ignored. When DATA_DIR
// changes, dump and DTD paths that still point to the old default move along.
func (c *Config) LoadEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, fn := range filenames {
		if err := godotenv.Load(fn); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: %s: %w", fn, err)
		}
	}
	if v, ok := lookup("DATA_DIR"); ok {
		if c.DumpFile == filepath.Join(c.DataDir, "dblp.xml.gz") {
			c.DumpFile = filepath.Join(v, "dblp.xml.gz")
		}
		if c.DTDFile == filepath.Join(c.DataDir, "dblp.dtd") {
			c.DTDFile = filepath.Join(v, "dblp.dtd")
		}
		c.DataDir = v
	}
	setString(&c.DumpFile, "DUMP")
	setString(&c.DTDFile, "DTD")
	setString(&c.ArticlesFile, "ARTICLES")
	setString(&c.ProceedingsFile, "PROCEEDINGS")
	setString(&c.DatabaseFile, "DATABASE")
	setString(&c.VenuesFile, "VENUES")
	setString(&c.Schema, "SCHEMA")
	return errors.Join(
		setBool(&c.Verbose, "VERBOSE"),
		setBool(&c.ReferencedOnly, "REFERENCED"),
		setInt(&c.ProgressEvery, "PROGRESS_EVERY"),
		setInt(&c.Workers, "WORKERS"),
		setInt(&c.MaxRetries, "MAX_RETRIES"),
		setDuration(&c.Timeout, "TIMEOUT"),
	)
}

// AllowList returns the venue allow list, from VenuesFile or built-in.
func (c *Config) AllowList() (venue.AllowList, error) {
	if c.VenuesFile == "" {
		return venue.New(venue.Default...), nil
	}
	return venue.LoadFile(c.VenuesFile)
}

// RecordSchema resolves the configured schema name.
func (c *Config) RecordSchema() (*dblp.Schema, error) {
	return dblp.SchemaByName(c.Schema)
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func setString(dst *string, name string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

func setBool(dst *bool, name string) error {
	v, ok := lookup(name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("config: %s%s: %w", envPrefix, name, err)
	}
	*dst = b
	return nil
}

func setInt(dst *int, name string) error {
	v, ok := lookup(name)
	if !ok {
		return nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %s%s: %w", envPrefix, name, err)
	}
	*dst = i
	return nil
}

func setDuration(dst *time.Duration, name string) error {
	v, ok := lookup(name)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("config: %s%s: %w", envPrefix, name, err)
	}
	*dst = d
	return nil
}
