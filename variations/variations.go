// Package variations enumerates plausible alternate identifiers for a
// seed username. The candidates feed speculative cross-platform lookup
// by an external fetch collaborator; this package performs no network
// calls itself.
package variations

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
)

// MaxVariations caps the number of candidates generated per seed.
const MaxVariations = 100

// Descriptive suffixes people use to mark alternate accounts.
var descriptiveSuffixes = []string{"official", "real", "backup"}

// Leetspeak substitutions for common character pairs, in both directions.
var leetPairs = [][2]string{
	{"a", "4"},
	{"e", "3"},
	{"i", "1"},
	{"o", "0"},
	{"s", "5"},
}

// Variation is one generated candidate identifier with its strategy tag
// and its closeness to the seed.
type Variation struct {
	Candidate  string
	Type       string  // "separator_swap", "leetspeak", "numeric_suffix", ...
	Similarity float64 // normalized edit-distance similarity to the seed, [0,1]
}

// Generate returns a finite, deduplicated list of candidate identifiers
// for the seed, capped at MaxVariations. The seed itself is never
// included. An empty seed yields no candidates.
//
// High-signal families (separator toggles, leetspeak, descriptive and
// year suffixes) are emitted before the numeric flood so the cap keeps
// the diverse candidates.
func Generate(seed string) []string {
	seed = strings.ToLower(strings.TrimSpace(seed))
	if seed == "" {
		return nil
	}

	seen := map[string]bool{seed: true}
	var out []string
	add := func(c string) {
		if len(out) >= MaxVariations || c == "" || seen[c] {
			return
		}
		seen[c] = true
		out = append(out, c)
	}

	// Separator toggling.
	add(strings.ReplaceAll(seed, "_", "."))
	add(strings.ReplaceAll(seed, ".", "_"))
	add("_" + seed)
	add(seed + "_")
	add("." + seed)
	add(seed + ".")

	// Leetspeak substitution, one character class at a time.
	for _, pair := range leetPairs {
		add(strings.ReplaceAll(seed, pair[0], pair[1]))
		add(strings.ReplaceAll(seed, pair[1], pair[0]))
	}

	// Descriptive suffixes, including the current and previous year.
	year := time.Now().Year()
	suffixes := append([]string{}, descriptiveSuffixes...)
	suffixes = append(suffixes, strconv.Itoa(year), strconv.Itoa(year-1))
	for _, suffix := range suffixes {
		add(seed + "_" + suffix)
		add(seed + "." + suffix)
		add(seed + suffix)
	}

	// Single-digit suffixes, the most common collision avoiders.
	for i := 1; i <= 9; i++ {
		add(seed + strconv.Itoa(i))
	}

	// Year suffixes back to 1990 (birth years, join years).
	for y := year; y >= 1990; y-- {
		add(seed + strconv.Itoa(y))
	}

	// Numeric suffix/prefix flood, lowest priority.
	for i := 1; i <= 99; i++ {
		n := strconv.Itoa(i)
		add(seed + n)
		add(seed + "_" + n)
		add(seed + "." + n)
		add(n + seed)
	}

	return out
}

// Rank classifies candidates and orders them by similarity to the seed,
// most similar first. Ties break lexically so the order is stable.
func Rank(seed string, candidates []string) []Variation {
	seed = strings.ToLower(strings.TrimSpace(seed))

	ranked := make([]Variation, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, Variation{
			Candidate:  c,
			Type:       classify(seed, c),
			Similarity: similarity(seed, c),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Similarity != ranked[j].Similarity {
			return ranked[i].Similarity > ranked[j].Similarity
		}
		return ranked[i].Candidate < ranked[j].Candidate
	})

	return ranked
}

// similarity is the normalized levenshtein similarity between two
// identifiers: 1.0 for identical strings, 0.0 for a full rewrite.
func similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}

func classify(seed, candidate string) string {
	switch {
	case strings.HasPrefix(candidate, seed) && isNumeric(strings.TrimPrefix(candidate, seed)):
		s := strings.TrimPrefix(candidate, seed)
		if len(s) == 4 && s[0] == '1' || len(s) == 4 && s[0] == '2' {
			return "year_suffix"
		}
		return "numeric_suffix"
	case strings.HasSuffix(candidate, seed) && isNumeric(strings.TrimSuffix(candidate, seed)):
		return "numeric_prefix"
	case hasDescriptiveSuffix(candidate):
		return "descriptive_suffix"
	case strings.Contains(candidate, "_") && !strings.Contains(seed, "_"),
		strings.Contains(candidate, ".") && !strings.Contains(seed, "."):
		return "separator_swap"
	case isLeetOf(seed, candidate):
		return "leetspeak"
	default:
		return "other"
	}
}

func hasDescriptiveSuffix(s string) bool {
	for _, suffix := range descriptiveSuffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

// isLeetOf reports whether candidate is the seed with one leetspeak
// character class substituted.
func isLeetOf(seed, candidate string) bool {
	for _, pair := range leetPairs {
		if strings.ReplaceAll(seed, pair[0], pair[1]) == candidate {
			return true
		}
		if strings.ReplaceAll(seed, pair[1], pair[0]) == candidate {
			return true
		}
	}
	return false
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
