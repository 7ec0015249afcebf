package author

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalize(t *testing.T) {
	orcid := "0000-0002-1825-0097"
	var cases = []struct {
		raw   string
		orcid *string
		want  Identity
	}{
		{
			raw:   "Jane A. Doe 0001",
			orcid: &orcid,
			want:  Identity{Name: "Jane A. Doe", Surname: "Doe", Key: "Jane A. Doe 0001", ORCID: &orcid},
		},
		{
			raw:  "Smith 0002",
			want: Identity{Name: "Smith", Surname: "Smith", Key: "Smith 0002"},
		},
		{
			raw:  "Ronald L. Rivest",
			want: Identity{Name: "Ronald L. Rivest", Surname: "Rivest", Key: "Ronald L. Rivest"},
		},
		{
			raw:  "Louis XIV",
			want: Identity{Name: "Louis XIV", Surname: "XIV", Key: "Louis XIV"},
		},
		{
			raw:  "Agent 007 Bond",
			want: Identity{Name: "Agent 007 Bond", Surname: "Bond", Key: "Agent 007 Bond"},
		},
		{
			raw:  "0001",
			want: Identity{Name: "0001", Surname: "0001", Key: "0001"},
		},
		{
			raw:  "Wei  Wang 0003",
			want: Identity{Name: "Wei  Wang", Surname: "Wang", Key: "Wei  Wang 0003"},
		},
		{
			raw:  "Ana 12a",
			want: Identity{Name: "Ana 12a", Surname: "12a", Key: "Ana 12a"},
		},
		{
			raw:  "Zhang ٣",
			want: Identity{Name: "Zhang ٣", Surname: "٣", Key: "Zhang ٣"},
		},
	}
	for _, c := range cases {
		got := Normalize(c.raw, c.orcid)
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("Normalize(%q) mismatch (-want +got):\n%s", c.raw, diff)
		}
	}
}

func TestSameIsKeyEquality(t *testing.T) {
	a := Normalize("Smith 0001", nil)
	b := Normalize("Smith 0002", nil)
	c := Normalize("Smith 0001", nil)
	if a.Name != b.Name {
		t.Fatalf("expected equal display names, got %q and %q", a.Name, b.Name)
	}
	if Same(a, b) {
		t.Errorf("different suffixes must not be merged")
	}
	if !Same(a, c) {
		t.Errorf("identical raw tokens must be merged")
	}
}

func TestIsDisambiguation(t *testing.T) {
	var cases = map[string]bool{
		"0001": true,
		"7":    true,
		"":     false,
		"12a":  false,
		"-1":   false,
		"١٢":   false,
	}
	for in, want := range cases {
		if got := IsDisambiguation(in); got != want {
			t.Errorf("IsDisambiguation(%q) = %v, want %v", in, got, want)
		}
	}
}
