package signal

import (
	"unicode/utf8"

	"github.com/codeGROOVE-dev/doppelganger/record"
)

// BehaviorFeatures holds per-profile posting-habit aggregates.
//
//nolint:govet // fieldalignment: intentional layout for readability
type BehaviorFeatures struct {
	// ActiveHour and ActiveDay are the most frequent posting hour
	// (0-23) and weekday (0=Sunday). Valid only when HasTimes is true.
	ActiveHour int
	ActiveDay  int
	HasTimes   bool

	// MeanContentLen is the mean post text length in runes, over all
	// posts. Valid only when HasPosts is true.
	MeanContentLen float64
	HasPosts       bool
}

// Behavioral scores posting-habit correlation between two records. It
// compares most-active hour, most-active weekday, and mean content
// length, averaging whichever sub-scores are computable on both sides.
//
// Not computed when either side has no posts.
func Behavioral(a, b *record.Profile) Score {
	fa := Behavior(a)
	fb := Behavior(b)
	if !fa.HasPosts || !fb.HasPosts {
		return notComputed(NameBehavioral)
	}

	var sum float64
	var n int

	if fa.HasTimes && fb.HasTimes {
		// Hours and weekdays wrap, so distances are circular: hour 23
		// and hour 0 are one hour apart, not twenty-three.
		hourDiff := float64(circularDiff(fa.ActiveHour, fb.ActiveHour, 24))
		sum += 1 - hourDiff/12
		n++

		dayDiff := float64(circularDiff(fa.ActiveDay, fb.ActiveDay, 7))
		dayScore := 1 - dayDiff/3.5
		if dayScore < 0 {
			dayScore = 0
		}
		sum += dayScore
		n++
	}

	sum += boundedCloseness(fa.MeanContentLen, fb.MeanContentLen)
	n++

	return Score{Name: NameBehavioral, Value: sum / float64(n), Computed: true}
}

// Behavior extracts posting-habit aggregates from a profile's posts.
func Behavior(p *record.Profile) BehaviorFeatures {
	var f BehaviorFeatures
	if len(p.Posts) == 0 {
		return f
	}
	f.HasPosts = true

	hourCounts := make(map[int]int)
	dayCounts := make(map[int]int)
	var totalLen int

	for i := range p.Posts {
		post := &p.Posts[i]
		totalLen += utf8.RuneCountInString(post.Content)
		if post.HasTimestamp() {
			hourCounts[post.Posted.Hour()]++
			dayCounts[int(post.Posted.Weekday())]++
		}
	}

	f.MeanContentLen = float64(totalLen) / float64(len(p.Posts))

	if len(hourCounts) > 0 {
		f.HasTimes = true
		f.ActiveHour = mostFrequent(hourCounts)
		f.ActiveDay = mostFrequent(dayCounts)
	}

	return f
}

// mostFrequent returns the key with the highest count, preferring the
// smallest key on ties so results are deterministic.
func mostFrequent(counts map[int]int) int {
	best := -1
	bestCount := -1
	for k, c := range counts {
		if c > bestCount || (c == bestCount && k < best) {
			best = k
			bestCount = c
		}
	}
	return best
}

// circularDiff is the shortest distance between a and b on a ring of
// the given size.
func circularDiff(a, b, size int) int {
	d := abs(a - b)
	if wrapped := size - d; wrapped < d {
		return wrapped
	}
	return d
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
