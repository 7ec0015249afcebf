package venue

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPrefix(t *testing.T) {
	var cases = []struct {
		key  string
		want string
	}{
		{"conf/crypto/Foo2021", "conf/crypto"},
		{"journals/joc/Doe21", "journals/joc"},
		{"conf/crypto", "conf/crypto"},
		{"homepages", "homepages"},
		{"", ""},
		{"a/b/c/d", "a/b"},
	}
	for _, c := range cases {
		if got := Prefix(c.key); got != c.want {
			t.Errorf("Prefix(%q) = %q, want %q", c.key, got, c.want)
		}
	}
}

func TestName(t *testing.T) {
	if got := Name("conf/crypto/Foo21"); got != "crypto" {
		t.Errorf("got %q, want crypto", got)
	}
	if got := Name("homepages"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestAllow(t *testing.T) {
	al := New("conf/crypto", " journals/joc/ ", "")
	var cases = []struct {
		key  string
		want bool
	}{
		{"conf/crypto/Foo21", true},
		{"journals/joc/Doe21", true},
		{"conf/cryptography/X", false},
		{"conf/eurocrypt/X", false},
		{"conf/crypto", true},
		{"crypto/conf/X", false},
	}
	for _, c := range cases {
		if got := al.Allow(c.key); got != c.want {
			t.Errorf("Allow(%q) = %v, want %v", c.key, got, c.want)
		}
	}
	if diff := cmp.Diff([]string{"conf/crypto", "journals/joc"}, al.Prefixes()); diff != "" {
		t.Errorf("prefixes mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	al, err := Load(strings.NewReader("venues:\n  - conf/crypto\n  - conf/ches\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !al.Contains("conf/ches") || len(al) != 2 {
		t.Errorf("unexpected allow list: %v", al.Prefixes())
	}
	if _, err := Load(strings.NewReader("venues: []\n")); !errors.Is(err, ErrEmptyAllowList) {
		t.Errorf("got %v, want ErrEmptyAllowList", err)
	}
	if _, err := Load(strings.NewReader("")); !errors.Is(err, ErrEmptyAllowList) {
		t.Errorf("got %v, want ErrEmptyAllowList", err)
	}
	if _, err := Load(strings.NewReader("venues: [unclosed")); err == nil {
		t.Errorf("expected parse error")
	}
}

func TestLoadFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "venues.yaml")
	if err := os.WriteFile(fn, []byte("venues: [conf/tcc]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	al, err := LoadFile(fn)
	if err != nil {
		t.Fatal(err)
	}
	if !al.Allow("conf/tcc/X") {
		t.Errorf("expected conf/tcc to be allowed")
	}
}

func TestDefaultHasNoDuplicates(t *testing.T) {
	if got, want := len(New(Default...)), len(Default); got != want {
		t.Errorf("got %d unique venues, want %d", got, want)
	}
}
