package signal

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/codeGROOVE-dev/doppelganger/record"
)

var (
	sentenceEnds   = regexp.MustCompile(`[.!?]+`)
	uppercaseWords = regexp.MustCompile(`\b[A-Z]{2,}\b`)
	hashtagTokens  = regexp.MustCompile(`#\w+`)
	mentionTokens  = regexp.MustCompile(`@\w+`)
)

// Stylometric scores writing-style similarity between two records.
// Each profile's concatenated post text is reduced to a feature vector
// of per-sentence and per-word ratios; similarity is the mean, over
// shared feature keys, of 1 - |v1-v2|/max(v1,v2,1).
//
// Requires at least one non-empty post text on each side.
func Stylometric(a, b *record.Profile) Score {
	fa := StyleFeatures(combinedText(a))
	fb := StyleFeatures(combinedText(b))
	if len(fa) == 0 || len(fb) == 0 {
		return notComputed(NameStylometric)
	}

	// Sum in sorted key order so the float accumulation is identical
	// regardless of argument order or map iteration order.
	keys := make([]string, 0, len(fa))
	for key := range fa {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sum float64
	var n int
	for _, key := range keys {
		vb, ok := fb[key]
		if !ok {
			continue
		}
		sum += boundedCloseness(fa[key], vb)
		n++
	}
	if n == 0 {
		return notComputed(NameStylometric)
	}

	return Score{Name: NameStylometric, Value: sum / float64(n), Computed: true}
}

// StyleFeatures extracts the writing-style feature vector from text.
// An empty text yields an empty map.
func StyleFeatures(text string) map[string]float64 {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	sentences := float64(len(sentenceEnds.FindAllString(text, -1)))
	words := float64(len(strings.Fields(text)))
	chars := float64(utf8.RuneCountInString(text))

	exclamations := float64(strings.Count(text, "!"))
	questions := float64(strings.Count(text, "?"))
	commas := float64(strings.Count(text, ","))

	uppercase := float64(len(uppercaseWords.FindAllString(text, -1)))
	hashtags := float64(len(hashtagTokens.FindAllString(text, -1)))
	mentions := float64(len(mentionTokens.FindAllString(text, -1)))
	emojis := float64(countEmoji(text))

	return map[string]float64{
		"avg_sentence_length": words / nonZero(sentences),
		"avg_word_length":     chars / nonZero(words),
		"exclamation_ratio":   exclamations / nonZero(sentences),
		"question_ratio":      questions / nonZero(sentences),
		"comma_ratio":         commas / nonZero(words),
		"uppercase_ratio":     uppercase / nonZero(words),
		"emoji_ratio":         emojis / nonZero(words),
		"hashtag_ratio":       hashtags / nonZero(words),
		"mention_ratio":       mentions / nonZero(words),
	}
}

// boundedCloseness maps two non-negative values to a similarity in
// [0,1], with the divisor floored at 1 so near-zero feature pairs
// compare as similar rather than exploding.
func boundedCloseness(v1, v2 float64) float64 {
	maxVal := v1
	if v2 > maxVal {
		maxVal = v2
	}
	if maxVal < 1 {
		maxVal = 1
	}
	diff := v1 - v2
	if diff < 0 {
		diff = -diff
	}
	return 1 - diff/maxVal
}

func nonZero(v float64) float64 {
	if v < 1 {
		return 1
	}
	return v
}

func combinedText(p *record.Profile) string {
	var parts []string
	for i := range p.Posts {
		if p.Posts[i].Content != "" {
			parts = append(parts, p.Posts[i].Content)
		}
	}
	return strings.Join(parts, " ")
}

// countEmoji counts runes in the common emoji blocks: emoticons, misc
// symbols and pictographs, transport, and regional indicators.
func countEmoji(text string) int {
	var n int
	for _, r := range text {
		switch {
		case r >= 0x1F600 && r <= 0x1F64F, // emoticons
			r >= 0x1F300 && r <= 0x1F5FF, // symbols & pictographs
			r >= 0x1F680 && r <= 0x1F6FF, // transport & map
			r >= 0x1F1E0 && r <= 0x1F1FF: // regional indicators
			n++
		}
	}
	return n
}
