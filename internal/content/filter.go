// Package content screens user-supplied text against a fixed denylist.
package content

import (
	"regexp"
	"strings"
)

// DefaultDenylist is the set of words the gateway refuses to forward to the model.
var DefaultDenylist = []string{
	"abuse",
	"bomb",
	"drugs",
	"fraud",
	"hate",
	"kill",
	"murder",
	"nazi",
	"racist",
	"scam",
	"suicide",
	"terrorism",
	"terrorist",
	"violence",
	"weapon",
}

// Filter matches whole words case-insensitively.
// A denylisted word embedded in a longer word ("skill", "bombastic") does not match.
type Filter struct {
	pattern *regexp.Regexp
}

// NewFilter compiles a Filter for the given words. Empty entries are ignored.
func NewFilter(words []string) *Filter {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(strings.ToLower(w))
		if w == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(w))
	}

	if len(quoted) == 0 {
		return &Filter{}
	}

	return &Filter{
		pattern: regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`),
	}
}

// NewDefaultFilter returns a Filter over DefaultDenylist.
func NewDefaultFilter() *Filter {
	return NewFilter(DefaultDenylist)
}

// ContainsHarmfulWords reports whether text contains any denylisted word as a standalone token.
func (f *Filter) ContainsHarmfulWords(text string) bool {
	if f.pattern == nil {
		return false
	}
	return f.pattern.MatchString(strings.ToLower(text))
}
