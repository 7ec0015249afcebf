package normal

import "testing"

func TestName(t *testing.T) {
	var cases = []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Jane A. Doe", "jane a doe"},
		{"Jürgen  Müller", "jurgen muller"},
		{"Jean-Sébastien Coron", "jean sebastien coron"},
		{"  Ana   Costache ", "ana costache"},
	}
	for _, c := range cases {
		if got := Name(c.in); got != c.want {
			t.Errorf("Name(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPipelineOrder(t *testing.T) {
	p := &Pipeline{Normalizer: []Normalizer{&SimpleNormalizer{}, &SpaceNormalizer{}}}
	if got, want := p.Normalize(" A  B "), "a b"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
