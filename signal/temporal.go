package signal

import (
	"time"

	"github.com/codeGROOVE-dev/doppelganger/record"
)

// SyncWindow is the maximum gap between two posts for them to count as
// synchronized cross-platform activity.
const SyncWindow = 2 * time.Hour

// Temporal scores posting-time co-occurrence between two records. Each
// timestamped post on the first profile that has a counterpart on the
// second within SyncWindow counts as one synchronized pair; the score
// is the synchronized count over the smaller timestamped post count.
//
// Not computed when either side has no parseable timestamps.
func Temporal(a, b *record.Profile) Score {
	timesA := postTimes(a)
	timesB := postTimes(b)
	if len(timesA) == 0 || len(timesB) == 0 {
		return notComputed(NameTemporal)
	}

	var synchronized int
	for _, ta := range timesA {
		for _, tb := range timesB {
			if absDuration(ta.Sub(tb)) <= SyncWindow {
				synchronized++
				break
			}
		}
	}

	smaller := len(timesA)
	if len(timesB) < smaller {
		smaller = len(timesB)
	}

	value := float64(synchronized) / float64(smaller)
	if value > 1 {
		value = 1
	}
	return Score{Name: NameTemporal, Value: value, Computed: true}
}

func postTimes(p *record.Profile) []time.Time {
	var times []time.Time
	for i := range p.Posts {
		if p.Posts[i].HasTimestamp() {
			times = append(times, p.Posts[i].Posted)
		}
	}
	return times
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
