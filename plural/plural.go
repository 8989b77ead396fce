// Package plural reconciles plural-form arithmetic between a catalog
// header and its messages: extracting nplurals from the Plural-Forms
// header field, shaping untranslated plural entries, and repairing
// plural-shape mismatches left behind by fuzzy merging.
//
// Evaluation of the plural selection expression itself is an external
// collaborator; only the nplurals count matters here.
package plural

import (
	"strconv"
	"strings"

	"github.com/minios-linux/pomerge/catalog"
)

// Nplurals extracts the nplurals value from the Plural-Forms field of a
// header msgstr. It returns 0 when the field is absent or unparseable;
// callers skip shape repairs in that case rather than failing.
func Nplurals(header string) int {
	for _, line := range strings.Split(header, "\n") {
		name, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "Plural-Forms") {
			continue
		}
		idx := strings.Index(value, "nplurals")
		if idx < 0 {
			return 0
		}
		rest := strings.TrimSpace(value[idx+len("nplurals"):])
		rest, ok = strings.CutPrefix(rest, "=")
		if !ok {
			return 0
		}
		rest = strings.TrimSpace(rest)
		end := 0
		for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
			end++
		}
		n, err := strconv.Atoi(rest[:end])
		if err != nil || n < 0 {
			return 0
		}
		return n
	}
	return 0
}

// ShapeUntranslated resizes the translation sequence of an untranslated
// plural message to exactly nplurals empty strings. Messages that are
// singular, translated, or in a domain without a usable nplurals are
// left alone.
func ShapeUntranslated(m *catalog.Message, nplurals int) {
	if nplurals <= 0 || m.IDPlural == "" || !m.IsUntranslated() {
		return
	}
	m.Str = make([]string, nplurals)
}

// RepairRefPlural fixes a merged message whose reference had a plural
// id but whose definition did not: the single definition translation is
// replicated nplurals times and the message is forced fuzzy.
func RepairRefPlural(m *catalog.Message, nplurals int) {
	if nplurals <= 0 {
		return
	}
	single := m.Singular()
	str := make([]string, nplurals)
	for i := range str {
		str[i] = single
	}
	m.Str = str
	m.Fuzzy = true
}

// RepairDefPlural fixes a merged message whose definition had a plural
// id but whose reference does not: only the first translation is kept
// and the message is forced fuzzy.
func RepairDefPlural(m *catalog.Message) {
	if len(m.Str) <= 1 {
		return
	}
	m.Str = m.Str[:1]
	m.Fuzzy = true
}
