package merge

import (
	"sync"
	"testing"

	"github.com/minios-linux/pomerge/catalog"
)

func listOf(ids ...string) *catalog.List {
	l := catalog.NewList()
	for _, id := range ids {
		l.Append(&catalog.Message{ID: id, Str: []string{"t:" + id}})
	}
	return l
}

func TestDefinitionsSearchOrder(t *testing.T) {
	comp1 := listOf("only in comp1", "shared")
	comp2 := listOf("only in comp2")
	d := newDefinitions([]*catalog.List{comp1, comp2}, "UTF-8")

	curr := catalog.NewList()
	currShared := &catalog.Message{ID: "shared", Str: []string{"current"}}
	curr.Append(currShared)
	d.setCurrentList(curr)

	if got := d.search("", "shared"); got != currShared {
		t.Fatalf("current list must shadow compendiums: got %q", got.Singular())
	}
	if got := d.search("", "only in comp1"); got == nil || got.Singular() != "t:only in comp1" {
		t.Fatal("first compendium not consulted")
	}
	if got := d.search("", "only in comp2"); got == nil || got.Singular() != "t:only in comp2" {
		t.Fatal("second compendium not consulted")
	}
	if got := d.search("", "nowhere"); got != nil {
		t.Fatalf("absent id found: %q", got.Singular())
	}
}

func TestSearchFuzzyPrefersCurrentOnTie(t *testing.T) {
	// Identical candidate text in both places: the current list's match
	// must win because the compendium is held to a strictly-greater bar.
	comp := listOf("cannot open file %s")
	d := newDefinitions([]*catalog.List{comp}, "UTF-8")
	curr := catalog.NewList()
	currMsg := &catalog.Message{ID: "cannot open file %s", Str: []string{"current"}}
	curr.Append(currMsg)
	d.setCurrentList(curr)

	if got := d.searchFuzzy("", "cannot open file %s!"); got != currMsg {
		t.Fatalf("tie broke toward the compendium: %q", got.Singular())
	}
}

func TestSearchFuzzyCompendiumBeatsWeakerCurrent(t *testing.T) {
	comp := listOf("cannot open file %s for reading")
	d := newDefinitions([]*catalog.List{comp}, "UTF-8")
	curr := listOf("cannot open socket %d for listening")
	d.setCurrentList(curr)

	got := d.searchFuzzy("", "cannot open file %s for reading!")
	if got == nil || got.Singular() != "t:cannot open file %s for reading" {
		t.Fatalf("strictly better compendium match not preferred: %v", got)
	}
}

func TestSearchFuzzyCompendiumOnly(t *testing.T) {
	comp := listOf("save all modified files")
	d := newDefinitions([]*catalog.List{comp}, "UTF-8")
	d.setCurrentList(catalog.NewList())

	if got := d.searchFuzzy("", "save all modified files now"); got == nil {
		t.Fatal("compendium match missed with an empty current list")
	}
	if got := d.searchFuzzy("", "completely different text"); got != nil {
		t.Fatalf("dissimilar query matched: %q", got.Singular())
	}
}

func TestSetCurrentListInvalidatesIndex(t *testing.T) {
	d := newDefinitions(nil, "UTF-8")
	d.setCurrentList(listOf("delete the selected file"))
	if got := d.searchFuzzy("", "delete the selected files"); got == nil {
		t.Fatal("first list not matched")
	}

	d.setCurrentList(listOf("completely unrelated entry"))
	if got := d.searchFuzzy("", "delete the selected files"); got != nil {
		t.Fatalf("stale index served after list swap: %q", got.Singular())
	}
}

func TestFuzzyIndexConcurrentFirstUse(t *testing.T) {
	comp := listOf("shared compendium entry")
	d := newDefinitions([]*catalog.List{comp}, "UTF-8")
	d.setCurrentList(listOf("delete the selected file", "open the selected file"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if got := d.searchFuzzy("", "open the selected files"); got == nil {
					t.Error("concurrent lookup missed")
					return
				}
			}
		}()
	}
	wg.Wait()
}
