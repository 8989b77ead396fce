// Package fuzzy implements approximate nearest-neighbor search over a
// message list, used by msgmerge-style fuzzy matching. Candidates are
// pre-sorted into hash buckets by comparison units so a query only
// scores messages sharing at least one unit, and scoring itself aborts
// early once a candidate provably cannot beat the running best.
package fuzzy

import "golang.org/x/text/unicode/norm"

// DefaultThreshold is the minimum similarity for a fuzzy match.
// It is a tunable policy constant, not a correctness requirement.
const DefaultThreshold = 0.6

// Similarity returns the similarity of a and b in [0,1], computed as
// normalized Levenshtein distance over NFC-normalized runes.
func Similarity(a, b string) float64 {
	s, _ := SimilarityBounded(a, b, 0)
	return s
}

// SimilarityBounded computes Similarity(a, b) but gives up as soon as
// the result provably falls below bound. The second return value is
// false when the computation was aborted; the score is then unusable.
//
// The abort uses two monotonic upper bounds on the final similarity:
// the rune-length difference before any work, and the current DP row
// minimum during the distance computation (row minima never decrease).
func SimilarityBounded(a, b string, bound float64) (float64, bool) {
	ra := []rune(norm.NFC.String(a))
	rb := []rune(norm.NFC.String(b))
	la, lb := len(ra), len(rb)
	if la == 0 && lb == 0 {
		return 1, true
	}
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}

	diff := la - lb
	if diff < 0 {
		diff = -diff
	}
	if 1-float64(diff)/float64(maxLen) < bound {
		return 0, false
	}

	// Single-row Levenshtein.
	if la < lb {
		ra, rb = rb, ra
		la, lb = lb, la
	}
	row := make([]int, lb+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= la; i++ {
		prev := row[0] // row[i-1][j-1]
		row[0] = i
		rowMin := i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			d := prev + cost
			if row[j]+1 < d {
				d = row[j] + 1
			}
			if row[j-1]+1 < d {
				d = row[j-1] + 1
			}
			prev = row[j]
			row[j] = d
			if d < rowMin {
				rowMin = d
			}
		}
		if 1-float64(rowMin)/float64(maxLen) < bound {
			return 0, false
		}
	}
	return 1 - float64(row[lb])/float64(maxLen), true
}
