// Package format models gettext's per-language format-string
// classification: which format languages a message participates in,
// the tri-state-plus classification carried in PO flags
// ("c-format", "no-c-format", ...), and a Checker that decides whether
// a stale translation still validates as a given format kind.
package format

import (
	"fmt"
	"strings"
)

// Kind identifies one supported format language.
type Kind int

const (
	C Kind = iota
	ObjC
	Sh
	Python
	PythonBrace
	Java
	CSharp
	JavaScript
	Scheme
	Lisp
	Perl
	PerlBrace
	PHP
	Go
	Lua
	Ruby
	Rust
	Qt
	QtPlural
	KDE
	Boost
	Tcl

	// NumKinds is the number of supported format kinds.
	NumKinds int = iota
)

var kindNames = [NumKinds]string{
	C:           "c",
	ObjC:        "objc",
	Sh:          "sh",
	Python:      "python",
	PythonBrace: "python-brace",
	Java:        "java",
	CSharp:      "csharp",
	JavaScript:  "javascript",
	Scheme:      "scheme",
	Lisp:        "lisp",
	Perl:        "perl",
	PerlBrace:   "perl-brace",
	PHP:         "php",
	Go:          "go",
	Lua:         "lua",
	Ruby:        "ruby",
	Rust:        "rust",
	Qt:          "qt",
	QtPlural:    "qt-plural",
	KDE:         "kde",
	Boost:       "boost",
	Tcl:         "tcl",
}

// String returns the language name used in PO flags ("c", "python", ...).
func (k Kind) String() string {
	if k < 0 || int(k) >= NumKinds {
		return fmt.Sprintf("format.Kind(%d)", int(k))
	}
	return kindNames[k]
}

// FlagName returns the positive PO flag for k, e.g. "c-format".
func (k Kind) FlagName() string {
	return k.String() + "-format"
}

// KindByFlag maps a PO flag name ("c-format", "no-c-format",
// "possible-c-format", "impossible-c-format") to its kind and hint.
func KindByFlag(flag string) (Kind, Hint, bool) {
	hint := Yes
	switch {
	case strings.HasPrefix(flag, "no-"):
		hint = No
		flag = flag[len("no-"):]
	case strings.HasPrefix(flag, "possible-"):
		hint = Possible
		flag = flag[len("possible-"):]
	case strings.HasPrefix(flag, "impossible-"):
		hint = Impossible
		flag = flag[len("impossible-"):]
	}
	name, ok := strings.CutSuffix(flag, "-format")
	if !ok {
		return 0, Undecided, false
	}
	for k := Kind(0); int(k) < NumKinds; k++ {
		if kindNames[k] == name {
			return k, hint, true
		}
	}
	return 0, Undecided, false
}

// Hint is the classification of a message for one format kind.
type Hint int

const (
	Undecided Hint = iota
	Yes
	No
	Possible
	Impossible
)

// Possible reports whether the hint allows treating the message as a
// format string of its kind.
func (h Hint) Possible() bool {
	return h == Yes || h == Possible
}

// Checker validates that a translation is consistent with its msgid as
// a format string of a given kind, the way strict catalog verification
// would. An implementation returns a non-nil error when the translation
// would fail that check. Per-language parsers are external collaborators
// plugged in through this interface.
type Checker interface {
	Check(kind Kind, msgid, msgidPlural string, msgstr []string) error
}

// DirectiveChecker is the default Checker. It compares printf-style
// directive counts between msgid and each msgstr for the C-like kinds
// and accepts everything else. It is deliberately conservative: a
// translation is only rejected when it provably uses a different number
// of directives than its msgid.
type DirectiveChecker struct{}

func (DirectiveChecker) Check(kind Kind, msgid, msgidPlural string, msgstr []string) error {
	switch kind {
	case C, ObjC, PHP, Go, Ruby, Lua:
		// printf-style directive languages
	default:
		return nil
	}
	want := countDirectives(msgid)
	wantPlural := want
	if msgidPlural != "" {
		wantPlural = countDirectives(msgidPlural)
	}
	for i, s := range msgstr {
		if s == "" {
			continue
		}
		got := countDirectives(s)
		if got != want && got != wantPlural {
			return fmt.Errorf("msgstr[%d] uses %d format directives, msgid uses %d", i, got, want)
		}
	}
	return nil
}

// countDirectives counts printf-style conversions, ignoring "%%".
func countDirectives(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			continue
		}
		if i+1 < len(s) && s[i+1] == '%' {
			i++
			continue
		}
		n++
	}
	return n
}
