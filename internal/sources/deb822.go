package sources

import (
	"bytes"
	"fmt"
	"strings"
)

// Source is the canonical form of a repository, ready to be rendered as a
// deb-822 stanza.
type Source struct {
	Name          string
	Formats       []string
	URL           string
	Suites        []string
	Components    []string // Empty for flat and exact-path repositories
	Architectures []string
	SignedBy      string
}

// Deb822 renders the source as a deb-822 stanza
func (s *Source) Deb822() []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Types: %s\n", strings.Join(s.Formats, " "))
	fmt.Fprintf(&buf, "URIs: %s\n", s.URL)
	fmt.Fprintf(&buf, "Suites: %s\n", strings.Join(s.Suites, " "))
	if len(s.Components) > 0 {
		fmt.Fprintf(&buf, "Components: %s\n", strings.Join(s.Components, " "))
	}
	fmt.Fprintf(&buf, "Architectures: %s\n", strings.Join(s.Architectures, " "))
	fmt.Fprintf(&buf, "Signed-By: %s\n", s.SignedBy)

	return buf.Bytes()
}
