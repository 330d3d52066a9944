// Package blocking groups profile records into small candidate buckets
// using cheap canonical keys, so pairwise scoring avoids the full N×M
// cross-product.
//
// Three independent passes bucket records by normalized username,
// normalized display name, and biography fingerprint. Two records form
// a candidate pair when they co-occur in any bucket of any pass. This
// is a recall/precision tradeoff, not a guarantee: records sharing none
// of the three keys are never compared.
package blocking

import (
	"sort"

	"github.com/codeGROOVE-dev/doppelganger/normalize"
	"github.com/codeGROOVE-dev/doppelganger/record"
)

// Key prefixes identifying which pass produced a blocking key.
const (
	PassUsername = "username"
	PassName     = "name"
	PassBio      = "bio"
)

// Pair is one candidate pair selected for full signal scoring. A is
// always the record with the lexically smaller platform-qualified ID,
// so a pair has a single canonical orientation.
type Pair struct {
	A, B *record.Profile

	// Keys lists the blocking keys that matched, tagged with their
	// pass, e.g. "username:janedoe".
	Keys []string
}

// Pairs returns the deduplicated candidate pairs for the batch, with
// the keys that triggered each pairing. Output order is deterministic:
// sorted by the IDs of the pair members. Empty keys never bucket, and a
// record never pairs with itself.
func Pairs(records []*record.Profile) []Pair {
	type bucketed struct {
		a, b *record.Profile
		keys []string
	}
	found := make(map[[2]string]*bucketed)

	collect := func(pass string, keyOf func(*record.Profile) string) {
		buckets := make(map[string][]*record.Profile)
		order := make([]string, 0)
		for _, r := range records {
			key := keyOf(r)
			if key == "" {
				continue
			}
			if _, ok := buckets[key]; !ok {
				order = append(order, key)
			}
			buckets[key] = append(buckets[key], r)
		}

		for _, key := range order {
			members := buckets[key]
			for i := 0; i < len(members); i++ {
				for j := i + 1; j < len(members); j++ {
					a, b := orient(members[i], members[j])
					if a == nil {
						continue // same record listed twice
					}
					id := [2]string{a.ID(), b.ID()}
					entry, ok := found[id]
					if !ok {
						entry = &bucketed{a: a, b: b}
						found[id] = entry
					}
					entry.keys = append(entry.keys, pass+":"+key)
				}
			}
		}
	}

	collect(PassUsername, func(r *record.Profile) string {
		return normalize.Identifier(r.Username)
	})
	collect(PassName, func(r *record.Profile) string {
		return normalize.Name(r.DisplayName)
	})
	collect(PassBio, func(r *record.Profile) string {
		return normalize.Fingerprint(r.Bio)
	})

	ids := make([][2]string, 0, len(found))
	for id := range found {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i][0] != ids[j][0] {
			return ids[i][0] < ids[j][0]
		}
		return ids[i][1] < ids[j][1]
	})

	pairs := make([]Pair, 0, len(ids))
	for _, id := range ids {
		entry := found[id]
		pairs = append(pairs, Pair{A: entry.a, B: entry.b, Keys: dedupe(entry.keys)})
	}
	return pairs
}

// orient returns the pair in canonical order, or nils when both sides
// are the same record.
func orient(a, b *record.Profile) (*record.Profile, *record.Profile) {
	idA, idB := a.ID(), b.ID()
	switch {
	case idA == idB:
		return nil, nil
	case idA < idB:
		return a, b
	default:
		return b, a
	}
}

func dedupe(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := keys[:0]
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
