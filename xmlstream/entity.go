package xmlstream

import (
	"io"
	"regexp"
	"strconv"
	"strings"
)

var (
	entityDecl = regexp.MustCompile(`<!ENTITY\s+([A-Za-z_:][\w.:-]*)\s+(?:"([^"]*)"|'([^']*)')`)
	charRef    = regexp.MustCompile(`&#(x[0-9A-Fa-f]+|[0-9]+);`)
)

// LoadEntities reads general entity declarations from a DTD, like the
// dblp.dtd that ships next to the dump. Parameter entities and external
// entities are ignored.
func LoadEntities(r io.Reader) (map[string]string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parseEntities(string(b)), nil
}

// parseEntities finds entity declarations in s, which may be a whole DTD or
// the body of a DOCTYPE directive.
func parseEntities(s string) map[string]string {
	if !strings.Contains(s, "<!ENTITY") {
		return nil
	}
	result := make(map[string]string)
	for _, m := range entityDecl.FindAllStringSubmatch(s, -1) {
		value := m[2]
		if value == "" {
			value = m[3]
		}
		result[m[1]] = expandCharRefs(value)
	}
	return result
}

// expandCharRefs replaces numeric character references, since the decoder
// inserts entity values verbatim.
func expandCharRefs(s string) string {
	if !strings.Contains(s, "&#") {
		return s
	}
	return charRef.ReplaceAllStringFunc(s, func(ref string) string {
		num := ref[2 : len(ref)-1]
		var (
			v   uint64
			err error
		)
		if num[0] == 'x' {
			v, err = strconv.ParseUint(num[1:], 16, 32)
		} else {
			v, err = strconv.ParseUint(num, 10, 32)
		}
		if err != nil {
			return ref
		}
		return string(rune(v))
	})
}
