package signal

import (
	"strings"

	"github.com/codeGROOVE-dev/doppelganger/normalize"
	"github.com/codeGROOVE-dev/doppelganger/record"
)

// Identifier scores username similarity between two records, and
// independently display-name similarity when both sides carry one.
// Both use the longest-matching-block ratio (Ratcliff/Obershelp), which
// is symmetric and deterministic: 1.0 for identical strings, 0.0 for
// strings with nothing in common.
func Identifier(a, b *record.Profile) Score {
	userA := strings.ToLower(strings.TrimSpace(a.Username))
	userB := strings.ToLower(strings.TrimSpace(b.Username))
	if userA == "" || userB == "" {
		return notComputed(NameIdentifier)
	}

	value := matchRatio(userA, userB)
	parts := 1

	nameA := normalize.Name(a.DisplayName)
	nameB := normalize.Name(b.DisplayName)
	if nameA != "" && nameB != "" {
		value += matchRatio(nameA, nameB)
		parts++
	}

	return Score{Name: NameIdentifier, Value: value / float64(parts), Computed: true}
}

// matchRatio is the Ratcliff/Obershelp similarity: twice the total
// length of all matching blocks divided by the combined string length.
func matchRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra)+len(rb) == 0 {
		return 0
	}
	matched := matchingRunes(ra, rb)
	return 2 * float64(matched) / float64(len(ra)+len(rb))
}

// matchingRunes counts the runes covered by matching blocks: the
// longest common substring, then recursively the pieces to its left and
// right on both sides.
func matchingRunes(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	startA, startB, size := longestBlock(a, b)
	if size == 0 {
		return 0
	}

	total := size
	total += matchingRunes(a[:startA], b[:startB])
	total += matchingRunes(a[startA+size:], b[startB+size:])
	return total
}

// longestBlock finds the longest common contiguous block between a and
// b using the classic dynamic-programming recurrence. Ties resolve to
// the earliest block in a, then in b, keeping the result deterministic.
func longestBlock(a, b []rune) (startA, startB, size int) {
	// lengths[j] is the length of the common suffix ending at a[i], b[j]
	// for the current row i.
	lengths := make([]int, len(b)+1)

	for i := range a {
		prevDiag := 0
		for j := range b {
			prev := lengths[j+1]
			if a[i] == b[j] {
				lengths[j+1] = prevDiag + 1
				if lengths[j+1] > size {
					size = lengths[j+1]
					startA = i - size + 1
					startB = j - size + 1
				}
			} else {
				lengths[j+1] = 0
			}
			prevDiag = prev
		}
	}

	return startA, startB, size
}
