package plural

import (
	"testing"

	"github.com/minios-linux/pomerge/catalog"
)

func TestNplurals(t *testing.T) {
	tests := []struct {
		header string
		want   int
	}{
		{"Plural-Forms: nplurals=2; plural=(n != 1);\n", 2},
		{"Plural-Forms: nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : 1);\n", 3},
		{"Plural-Forms: nplurals = 4 ; plural=n;\n", 4},
		{"Plural-Forms: nplurals=1; plural=0;\n", 1},
		{"Language: de\nPlural-Forms: nplurals=2; plural=(n != 1);\nMIME-Version: 1.0\n", 2},
		{"plural-forms: nplurals=2; plural=(n != 1);\n", 2},
		{"Language: de\n", 0},
		{"Plural-Forms: plural=(n != 1);\n", 0},
		{"Plural-Forms: nplurals=INTEGER; plural=EXPRESSION;\n", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := Nplurals(tt.header); got != tt.want {
			t.Errorf("Nplurals(%q) = %d, want %d", tt.header, got, tt.want)
		}
	}
}

func TestShapeUntranslated(t *testing.T) {
	m := &catalog.Message{ID: "file", IDPlural: "files", Str: []string{""}}
	ShapeUntranslated(m, 3)
	if len(m.Str) != 3 {
		t.Fatalf("untranslated plural resized to %d forms, want 3", len(m.Str))
	}
	for i, s := range m.Str {
		if s != "" {
			t.Fatalf("form %d not empty: %q", i, s)
		}
	}

	translated := &catalog.Message{ID: "file", IDPlural: "files", Str: []string{"Datei", "Dateien"}}
	ShapeUntranslated(translated, 3)
	if len(translated.Str) != 2 {
		t.Fatal("translated message must not be reshaped")
	}

	singular := &catalog.Message{ID: "file", Str: []string{""}}
	ShapeUntranslated(singular, 3)
	if len(singular.Str) != 1 {
		t.Fatal("singular message must not be reshaped")
	}

	noCount := &catalog.Message{ID: "file", IDPlural: "files", Str: []string{""}}
	ShapeUntranslated(noCount, 0)
	if len(noCount.Str) != 1 {
		t.Fatal("unknown nplurals must leave the message alone")
	}
}

func TestRepairRefPlural(t *testing.T) {
	m := &catalog.Message{ID: "file", IDPlural: "files", Str: []string{"Datei"}}
	RepairRefPlural(m, 3)
	if len(m.Str) != 3 {
		t.Fatalf("got %d forms, want 3", len(m.Str))
	}
	for i, s := range m.Str {
		if s != "Datei" {
			t.Fatalf("form %d = %q, want replicated singular", i, s)
		}
	}
	if !m.Fuzzy {
		t.Fatal("repaired message must be fuzzy")
	}

	skipped := &catalog.Message{ID: "file", IDPlural: "files", Str: []string{"Datei"}}
	RepairRefPlural(skipped, 0)
	if len(skipped.Str) != 1 || skipped.Fuzzy {
		t.Fatal("repair without a usable nplurals must be a no-op")
	}
}

func TestRepairDefPlural(t *testing.T) {
	m := &catalog.Message{ID: "file", Str: []string{"Datei", "Dateien", "Dateien"}}
	RepairDefPlural(m)
	if len(m.Str) != 1 || m.Str[0] != "Datei" {
		t.Fatalf("Str = %q, want just the first form", m.Str)
	}
	if !m.Fuzzy {
		t.Fatal("repaired message must be fuzzy")
	}

	already := &catalog.Message{ID: "file", Str: []string{"Datei"}}
	RepairDefPlural(already)
	if already.Fuzzy {
		t.Fatal("single-form message must not be touched")
	}
}
