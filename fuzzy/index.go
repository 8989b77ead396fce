package fuzzy

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"

	"github.com/minios-linux/pomerge/catalog"
)

// contextPenalty is applied to a candidate's score when its msgctxt
// differs from the query's. Like the threshold, it is a tuning constant.
const contextPenalty = 0.99

// Index is a searchable snapshot of a message list for fuzzy lookup.
// It must be built over an immutable list; mutations to the list after
// NewIndex are not observed.
type Index struct {
	msgs      []*catalog.Message
	buckets   map[uint32][]int
	wordUnits bool
}

// NewIndex builds an index over every message in list. The canonical
// charset decides the comparison units: word tokens for multibyte
// encodings, rune 4-grams for unibyte ones.
func NewIndex(list *catalog.List, canonCharset string) *Index {
	idx := &Index{
		buckets:   make(map[uint32][]int),
		wordUnits: multibyteCharset(canonCharset),
	}
	if list == nil {
		return idx
	}
	for _, m := range list.Messages {
		i := len(idx.msgs)
		idx.msgs = append(idx.msgs, m)
		seen := make(map[uint32]bool)
		for _, u := range idx.units(m.ID) {
			if !seen[u] {
				seen[u] = true
				idx.buckets[u] = append(idx.buckets[u], i)
			}
		}
	}
	return idx
}

// Len returns the number of indexed messages.
func (idx *Index) Len() int {
	return len(idx.msgs)
}

// Search returns the highest-scoring indexed message whose similarity
// to (ctxt, id) reaches threshold, or nil. With strict set, a score
// exactly equal to threshold is rejected; this implements the
// compendium rule where a fallback match must strictly beat the bound.
// Ties between candidates are broken in favor of the first in index
// order. The threshold must be at least DefaultThreshold; a lower value
// indicates a logic defect in the caller and panics.
func (idx *Index) Search(ctxt, id string, threshold float64, strict bool) *catalog.Message {
	if threshold < DefaultThreshold {
		panic(fmt.Sprintf("fuzzy: threshold %v below minimum %v", threshold, DefaultThreshold))
	}

	units := idx.units(id)
	if len(units) == 0 || len(idx.msgs) == 0 {
		return nil
	}
	candidate := make([]bool, len(idx.msgs))
	for _, u := range units {
		for _, i := range idx.buckets[u] {
			candidate[i] = true
		}
	}

	var best *catalog.Message
	bestScore := 0.0
	for i, m := range idx.msgs {
		if !candidate[i] {
			continue
		}
		// A new best must beat the running best; before any match is
		// found it only has to reach the threshold.
		bound := threshold
		if best != nil && bestScore > bound {
			bound = bestScore
		}
		penalty := 1.0
		if m.Ctxt != ctxt {
			penalty = contextPenalty
		}
		needed := bound / penalty
		if needed > 1 {
			continue
		}
		s, ok := SimilarityBounded(id, m.ID, needed)
		if !ok {
			continue
		}
		score := s * penalty
		if score < threshold || (strict && score <= threshold) {
			continue
		}
		if best == nil || score > bestScore {
			best = m
			bestScore = score
		}
	}
	return best
}

// Score returns the similarity of (ctxt, id) against a specific message,
// with the same context penalty Search applies. Used by callers that
// need to compare matches coming from two different indexes.
func Score(m *catalog.Message, ctxt, id string) float64 {
	s := Similarity(id, m.ID)
	if m.Ctxt != ctxt {
		s *= contextPenalty
	}
	return s
}

// units splits comparison text into hashed comparison units.
func (idx *Index) units(text string) []uint32 {
	if idx.wordUnits {
		return wordUnits(text)
	}
	return gramUnits(text)
}

func hashUnit(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

func wordUnits(text string) []uint32 {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	units := make([]uint32, 0, len(words))
	for _, w := range words {
		units = append(units, hashUnit(w))
	}
	return units
}

// gramUnits produces rune 4-grams; text shorter than 4 runes yields a
// single unit so short msgids are still indexable.
func gramUnits(text string) []uint32 {
	runes := []rune(strings.ToLower(text))
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= 4 {
		return []uint32{hashUnit(string(runes))}
	}
	units := make([]uint32, 0, len(runes)-3)
	for i := 0; i+4 <= len(runes); i++ {
		units = append(units, hashUnit(string(runes[i:i+4])))
	}
	return units
}

// multibyteCharset reports whether the canonical charset name denotes a
// multibyte encoding, in which case word units are used for comparison.
func multibyteCharset(canon string) bool {
	switch strings.ToUpper(canon) {
	case "UTF-8", "UTF-16", "GB2312", "GBK", "GB18030", "BIG5", "BIG5-HKSCS",
		"EUC-JP", "EUC-KR", "EUC-TW", "SHIFT_JIS", "JOHAB":
		return true
	}
	return false
}
