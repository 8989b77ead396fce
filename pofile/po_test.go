package pofile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/minios-linux/pomerge/catalog"
	"github.com/minios-linux/pomerge/format"
)

const sampleCatalog = `# Translators listed here.
msgid ""
msgstr ""
"Project-Id-Version: demo 1.0\n"
"Content-Type: text/plain; charset=UTF-8\n"
"Plural-Forms: nplurals=2; plural=(n != 1);\n"

#. extracted note
#: src/main.c:42 src/util.c
#, fuzzy, c-format
#| msgid "Old %s"
msgid "Hello %s"
msgstr "Hallo %s"

msgctxt "menu"
msgid "Open"
msgstr "Öffnen"

msgid "one file"
msgid_plural "%d files"
msgstr[0] "eine Datei"
msgstr[1] "%d Dateien"

#~ msgid "gone"
#~ msgstr "weg"
`

func mustParse(t *testing.T, src string) *catalog.Catalog {
	t.Helper()
	c, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return c
}

func TestParseSample(t *testing.T) {
	c := mustParse(t, sampleCatalog)
	if c.Encoding != "UTF-8" {
		t.Fatalf("Encoding = %q, want UTF-8", c.Encoding)
	}
	list := c.Sublist(catalog.DefaultDomain, false)
	if list.Len() != 5 {
		t.Fatalf("parsed %d messages, want 5", list.Len())
	}

	header := list.Search("", "")
	if header == nil || !strings.Contains(header.Singular(), "Project-Id-Version: demo 1.0\n") {
		t.Fatalf("header not assembled from continuation lines: %v", header)
	}
	if len(header.TranslatorComments) != 1 || header.TranslatorComments[0] != "Translators listed here." {
		t.Fatalf("header comments = %q", header.TranslatorComments)
	}

	hello := list.Search("", "Hello %s")
	if hello == nil {
		t.Fatalf("%s missing", "Hello %s")
	}
	if !hello.Fuzzy || hello.Formats[format.C] != format.Yes {
		t.Fatalf("flags not parsed: fuzzy=%v c=%v", hello.Fuzzy, hello.Formats[format.C])
	}
	if hello.PrevID != "Old %s" {
		t.Fatalf("PrevID = %q", hello.PrevID)
	}
	if len(hello.ExtractedComments) != 1 || hello.ExtractedComments[0] != "extracted note" {
		t.Fatalf("extracted comments = %q", hello.ExtractedComments)
	}
	wantPos := []catalog.Position{{File: "src/main.c", Line: 42}, {File: "src/util.c"}}
	if len(hello.Positions) != 2 || hello.Positions[0] != wantPos[0] || hello.Positions[1] != wantPos[1] {
		t.Fatalf("positions = %v, want %v", hello.Positions, wantPos)
	}

	open := list.Search("menu", "Open")
	if open == nil || open.Singular() != "Öffnen" {
		t.Fatalf("msgctxt entry not parsed: %v", open)
	}

	files := list.Search("", "one file")
	if files == nil || files.IDPlural != "%d files" {
		t.Fatal("plural entry not parsed")
	}
	if len(files.Str) != 2 || files.Str[1] != "%d Dateien" {
		t.Fatalf("plural msgstr = %q", files.Str)
	}

	gone := list.Search("", "gone")
	if gone == nil || !gone.Obsolete || gone.Singular() != "weg" {
		t.Fatalf("obsolete entry not parsed: %v", gone)
	}
}

func TestParseDomains(t *testing.T) {
	src := `msgid "shared"
msgstr ""

domain "extra"

msgid "only here"
msgstr ""
`
	c := mustParse(t, src)
	if len(c.Domains) != 2 {
		t.Fatalf("got %d domains, want 2", len(c.Domains))
	}
	if c.Sublist(catalog.DefaultDomain, false).Search("", "shared") == nil {
		t.Fatal("default-domain message lost")
	}
	extra := c.Sublist("extra", false)
	if extra == nil || extra.Search("", "only here") == nil {
		t.Fatal("domain directive did not switch domains")
	}
	if extra.Len() != 1 {
		t.Fatalf("extra domain holds %d messages, want 1", extra.Len())
	}
}

func TestParseMultilineFields(t *testing.T) {
	src := `msgid ""
"first line\n"
"second line"
msgstr ""
"erste Zeile\n"
"zweite Zeile"
`
	c := mustParse(t, src)
	m := c.Sublist(catalog.DefaultDomain, false).Search("", "first line\nsecond line")
	if m == nil {
		t.Fatal("multiline msgid not assembled")
	}
	if m.Singular() != "erste Zeile\nzweite Zeile" {
		t.Fatalf("msgstr = %q", m.Singular())
	}
}

func TestParseFlagDetails(t *testing.T) {
	src := `#, no-c-format, range: 0..10, no-wrap
msgid "n = %d"
msgstr ""
`
	c := mustParse(t, src)
	m := c.Sublist(catalog.DefaultDomain, false).Search("", "n = %d")
	if m.Formats[format.C] != format.No {
		t.Fatalf("no-c-format hint = %v", m.Formats[format.C])
	}
	if m.Range == nil || m.Range.Min != 0 || m.Range.Max != 10 {
		t.Fatalf("range = %v", m.Range)
	}
	if m.Wrap != catalog.No {
		t.Fatalf("wrap = %v", m.Wrap)
	}
}

func TestParseMissingBlankLine(t *testing.T) {
	src := `msgid "a"
msgstr "A"
msgid "b"
msgstr "B"
`
	c := mustParse(t, src)
	list := c.Sublist(catalog.DefaultDomain, false)
	if list.Len() != 2 {
		t.Fatalf("got %d messages, want 2", list.Len())
	}
	if list.Search("", "b").Singular() != "B" {
		t.Fatal("entry after missing separator mangled")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse(strings.NewReader("msgid \"a\"\nbogus line\n")); err == nil {
		t.Fatal("garbage line accepted")
	}
	if _, err := Parse(strings.NewReader("\"stray continuation\"\n")); err == nil {
		t.Fatal("stray continuation accepted")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	orig := mustParse(t, sampleCatalog)
	var buf bytes.Buffer
	if err := Write(&buf, orig); err != nil {
		t.Fatalf("Write: %v", err)
	}
	back := mustParse(t, buf.String())

	ol := orig.Sublist(catalog.DefaultDomain, false)
	bl := back.Sublist(catalog.DefaultDomain, false)
	if bl.Len() != ol.Len() {
		t.Fatalf("round trip changed message count: %d -> %d", ol.Len(), bl.Len())
	}
	for i, want := range ol.Messages {
		got := bl.Messages[i]
		if got.Ctxt != want.Ctxt || got.ID != want.ID || got.IDPlural != want.IDPlural {
			t.Fatalf("message %d identity changed: %+v", i, got)
		}
		if len(got.Str) != len(want.Str) {
			t.Fatalf("message %d form count changed", i)
		}
		for j := range want.Str {
			if got.Str[j] != want.Str[j] {
				t.Fatalf("message %d form %d = %q, want %q", i, j, got.Str[j], want.Str[j])
			}
		}
		if got.Fuzzy != want.Fuzzy || got.Obsolete != want.Obsolete {
			t.Fatalf("message %d markers changed", i)
		}
	}
	if back.Encoding != "UTF-8" {
		t.Fatalf("encoding lost: %q", back.Encoding)
	}
}

func TestWriteEscapes(t *testing.T) {
	c := catalog.New()
	c.Sublist(catalog.DefaultDomain, true).Append(&catalog.Message{
		ID:  `say "hi"` + "\tnow",
		Str: []string{`back\slash`},
	})
	var buf bytes.Buffer
	if err := Write(&buf, c); err != nil {
		t.Fatalf("Write: %v", err)
	}
	back := mustParse(t, buf.String())
	m := back.Sublist(catalog.DefaultDomain, false).Search("", `say "hi"`+"\tnow")
	if m == nil || m.Singular() != `back\slash` {
		t.Fatalf("escaping not reversible: %q", buf.String())
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`"plain"`, "plain"},
		{`"a\nb"`, "a\nb"},
		{`"a\tb"`, "a\tb"},
		{`"say \"hi\""`, `say "hi"`},
		{`"back\\slash"`, `back\slash`},
		{`""`, ""},
	}
	for _, tt := range tests {
		if got := unquote(tt.in); got != tt.want {
			t.Errorf("unquote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
