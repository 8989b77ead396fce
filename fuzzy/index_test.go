package fuzzy

import (
	"testing"

	"github.com/minios-linux/pomerge/catalog"
)

func buildIndex(charset string, ids ...string) (*Index, *catalog.List) {
	l := catalog.NewList()
	for _, id := range ids {
		l.Append(&catalog.Message{ID: id, Str: []string{"t:" + id}})
	}
	return NewIndex(l, charset), l
}

func TestSearchFindsNearest(t *testing.T) {
	idx, l := buildIndex("UTF-8",
		"cannot open %s for reading",
		"cannot open %s for writing",
		"unrelated message entirely")

	got := idx.Search("", "cannot open %s for reading!", DefaultThreshold, false)
	if got != l.Messages[0] {
		t.Fatalf("Search returned %v, want the reading variant", got)
	}
}

func TestSearchBelowThreshold(t *testing.T) {
	idx, _ := buildIndex("UTF-8", "save the file", "open the file")
	if got := idx.Search("", "quit without confirmation", DefaultThreshold, false); got != nil {
		t.Fatalf("Search matched a dissimilar query: %v", got)
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	idx := NewIndex(nil, "UTF-8")
	if got := idx.Search("", "anything", DefaultThreshold, false); got != nil {
		t.Fatalf("empty index returned %v", got)
	}
	if idx.Len() != 0 {
		t.Fatalf("empty index Len = %d", idx.Len())
	}
}

func TestSearchPanicsBelowMinimumThreshold(t *testing.T) {
	idx, _ := buildIndex("UTF-8", "x")
	defer func() {
		if recover() == nil {
			t.Fatal("Search accepted a threshold below the minimum")
		}
	}()
	idx.Search("", "x", 0.5, false)
}

func TestSearchContextPenalty(t *testing.T) {
	l := catalog.NewList()
	plain := &catalog.Message{ID: "open file", Str: []string{"a"}}
	inCtxt := &catalog.Message{Ctxt: "menu", ID: "open file", Str: []string{"b"}}
	l.Append(inCtxt)
	l.Append(plain)
	idx := NewIndex(l, "UTF-8")

	// Both candidates have identical text; the context match must win
	// even though the context-less entry comes later in index order.
	if got := idx.Search("", "open file", DefaultThreshold, false); got != plain {
		t.Fatalf("context penalty not applied: got %v", got)
	}
	if got := idx.Search("menu", "open file", DefaultThreshold, false); got != inCtxt {
		t.Fatalf("context match not preferred: got %v", got)
	}
}

func TestSearchTieBreaksToFirst(t *testing.T) {
	idx, l := buildIndex("UTF-8", "delete selected item", "delete selected lines")
	// Query is equidistant from both; the earlier entry must win.
	got := idx.Search("", "delete selected itens", DefaultThreshold, false)
	if got != l.Messages[0] {
		t.Fatalf("equal scores broke toward %q, want first entry", got.ID)
	}
}

func TestSearchStrictRejectsExactThreshold(t *testing.T) {
	// "aaaa bcde" vs "aaaa bcdefgh": distance 3 over 12 runes,
	// similarity exactly 0.75.
	idx, _ := buildIndex("UTF-8", "aaaa bcdefgh")
	if got := idx.Search("", "aaaa bcde", 0.75, false); got == nil {
		t.Fatal("non-strict search rejected a score equal to the threshold")
	}
	if got := idx.Search("", "aaaa bcde", 0.75, true); got != nil {
		t.Fatalf("strict search accepted a score equal to the threshold: %v", got)
	}
}

func TestSearchUnibyteGrams(t *testing.T) {
	idx, l := buildIndex("ISO-8859-1", "Datei speichern", "Datei laden")
	if got := idx.Search("", "Datei speichern!", DefaultThreshold, false); got != l.Messages[0] {
		t.Fatalf("4-gram index missed a near-identical query: got %v", got)
	}
}

func TestScoreMatchesSearchRanking(t *testing.T) {
	m := &catalog.Message{Ctxt: "menu", ID: "open file"}
	plain := Score(&catalog.Message{ID: "open file"}, "", "open file")
	penalized := Score(m, "", "open file")
	if plain != 1 {
		t.Fatalf("identical text scored %v", plain)
	}
	if penalized >= plain {
		t.Fatalf("context mismatch not penalized: %v >= %v", penalized, plain)
	}
}
