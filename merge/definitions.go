package merge

import (
	"fmt"
	"sync"

	"github.com/minios-linux/pomerge/catalog"
	"github.com/minios-linux/pomerge/fuzzy"
)

// definitions composes the messages with known translations: the
// current definition list plus the compendium lists, optimized for
// exact and fuzzy searches. The two fuzzy indexes are built lazily;
// the compendium index is built at most once ever since compendiums
// are immutable, while the current-list index is invalidated whenever
// the current list is swapped between domain-match iterations.
type definitions struct {
	compendiums []*catalog.List

	// canonCharset is only used to pick fuzzy comparison units.
	canonCharset string

	mu        sync.Mutex
	current   *catalog.List
	currIndex *fuzzy.Index

	compMu    sync.Mutex
	compIndex *fuzzy.Index
}

func newDefinitions(compendiums []*catalog.List, canonCharset string) *definitions {
	return &definitions{
		compendiums:  compendiums,
		canonCharset: canonCharset,
		current:      catalog.NewList(),
	}
}

// currentList returns the active definition list.
func (d *definitions) currentList() *catalog.List {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// setCurrentList replaces the active definition list and invalidates
// its fuzzy index. The compendium index is deliberately kept.
func (d *definitions) setCurrentList(list *catalog.List) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = list
	d.currIndex = nil
}

// search performs an exact lookup: the current list first, then each
// compendium in order.
func (d *definitions) search(ctxt, id string) *catalog.Message {
	if m := d.currentList().Search(ctxt, id); m != nil {
		return m
	}
	for _, comp := range d.compendiums {
		if m := comp.Search(ctxt, id); m != nil {
			return m
		}
	}
	return nil
}

// searchFuzzy finds the most similar definition for (ctxt, id).
// The current list is preferred; a compendium candidate wins only if
// its score strictly exceeds the current list's best (or the global
// threshold when the current list produced nothing).
func (d *definitions) searchFuzzy(ctxt, id string) *catalog.Message {
	best := d.currFuzzyIndex().Search(ctxt, id, fuzzy.DefaultThreshold, false)
	if len(d.compendiums) == 0 {
		return best
	}

	lowerBound := fuzzy.DefaultThreshold
	if best != nil {
		lowerBound = fuzzy.Score(best, ctxt, id)
	}
	if lowerBound < fuzzy.DefaultThreshold {
		panic(fmt.Sprintf("merge: fuzzy lower bound %v below threshold %v",
			lowerBound, fuzzy.DefaultThreshold))
	}

	// Strict search: a compendium hit must beat the bound, never tie.
	if m := d.compFuzzyIndex().Search(ctxt, id, lowerBound, true); m != nil {
		return m
	}
	return best
}

// currFuzzyIndex returns the current-list index, building it on first
// use after any invalidation. Safe under concurrent first-use from
// parallel lookup workers: exactly one builder runs and every caller
// observes the completed index.
func (d *definitions) currFuzzyIndex() *fuzzy.Index {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.currIndex == nil {
		d.currIndex = fuzzy.NewIndex(d.current, d.canonCharset)
	}
	return d.currIndex
}

// compFuzzyIndex returns the compendium-union index, built once ever.
// Duplicates across compendiums are not worth filtering out.
func (d *definitions) compFuzzyIndex() *fuzzy.Index {
	d.compMu.Lock()
	defer d.compMu.Unlock()
	if d.compIndex == nil {
		all := catalog.NewList()
		for _, comp := range d.compendiums {
			for _, m := range comp.Messages {
				all.Append(m)
			}
		}
		d.compIndex = fuzzy.NewIndex(all, d.canonCharset)
	}
	return d.compIndex
}
