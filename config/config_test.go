package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/miku/dblpslice/schema/dblp"
	"github.com/miku/dblpslice/venue"
)

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envfile := filepath.Join(dir, "test.env")
	content := "DBLPSLICE_DATA_DIR=/srv/dblp\nDBLPSLICE_WORKERS=8\nDBLPSLICE_TIMEOUT=30s\nDBLPSLICE_SCHEMA=venue\n"
	if err := os.WriteFile(envfile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"DBLPSLICE_DATA_DIR", "DBLPSLICE_WORKERS", "DBLPSLICE_TIMEOUT", "DBLPSLICE_SCHEMA"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("DBLPSLICE_VERBOSE", "true")
	c := Default()
	if err := c.LoadEnv(envfile); err != nil {
		t.Fatal(err)
	}
	if c.DataDir != "/srv/dblp" || c.DumpFile != "/srv/dblp/dblp.xml.gz" || c.DTDFile != "/srv/dblp/dblp.dtd" {
		t.Errorf("unexpected paths: %+v", c)
	}
	if c.Workers != 8 || c.Timeout != 30*time.Second || !c.Verbose {
		t.Errorf("unexpected values: %+v", c)
	}
	s, err := c.RecordSchema()
	if err != nil {
		t.Fatal(err)
	}
	if s != dblp.WithVenue {
		t.Errorf("got schema %s", s.Name)
	}
}

func TestLoadEnvMissingFile(t *testing.T) {
	c := Default()
	if err := c.LoadEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Errorf("missing env file must be ignored, got %v", err)
	}
}

func TestLoadEnvInvalid(t *testing.T) {
	t.Setenv("DBLPSLICE_WORKERS", "many")
	c := Default()
	if err := c.LoadEnv(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Error("expected error for invalid integer")
	}
}

func TestAllowList(t *testing.T) {
	c := Default()
	allow, err := c.AllowList()
	if err != nil {
		t.Fatal(err)
	}
	if len(allow) != len(venue.Default) {
		t.Errorf("got %d venues, want %d", len(allow), len(venue.Default))
	}
	c.VenuesFile = filepath.Join(t.TempDir(), "venues.yaml")
	if err := os.WriteFile(c.VenuesFile, []byte("venues:\n  - conf/stoc\n"), 0644); err != nil {
		t.Fatal(err)
	}
	allow, err = c.AllowList()
	if err != nil {
		t.Fatal(err)
	}
	if !allow.Allow("conf/stoc/X20") || allow.Allow("conf/crypto/X20") {
		t.Errorf("unexpected allow list: %v", allow.Prefixes())
	}
}
