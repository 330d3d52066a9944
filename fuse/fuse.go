// Package fuse combines the independent similarity signals for a
// candidate pair into a single confidence value and likelihood band.
package fuse

import (
	"sort"

	"github.com/codeGROOVE-dev/doppelganger/blocking"
	"github.com/codeGROOVE-dev/doppelganger/signal"
)

// Band is the discrete likelihood label derived from a confidence.
type Band string

// Likelihood bands, from weakest to strongest.
const (
	BandVeryLow  Band = "very_low"
	BandLow      Band = "low"
	BandMedium   Band = "medium"
	BandHigh     Band = "high"
	BandVeryHigh Band = "very_high"
)

// DefaultMergeFloor is the default minimum confidence for an edge to
// join two records into a cluster: the bottom of the medium band.
const DefaultMergeFloor = 40.0

// Weights maps signal names to their base fusion weight. Weights are
// relative: fusion renormalizes over whichever signals were actually
// computed for a pair.
type Weights map[string]float64

// DefaultWeights returns the hand-tuned base weights, ordered by
// signal specificity. Verbatim shared text is far less likely by chance
// than a shared posting hour, so content overlap dominates and temporal
// co-occurrence contributes least.
func DefaultWeights() Weights {
	return Weights{
		signal.NameContent:     0.90,
		signal.NameIdentifier:  0.85,
		signal.NameBehavioral:  0.75,
		signal.NameStylometric: 0.70,
		signal.NameTemporal:    0.60,
	}
}

// Verdict is the fused result for one unordered pair of records.
// Confidence is symmetric: the pair is stored in canonical orientation
// and the fusion arithmetic has no directional term.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Verdict struct {
	// A and B are the platform-qualified record IDs, A < B.
	A string `json:"a"`
	B string `json:"b"`

	Confidence float64 `json:"confidence"` // [0,100]
	Band       Band    `json:"band"`

	// Signals holds every extractor's score, computed or not.
	Signals map[string]signal.Score `json:"signals"`

	// MatchedKeys lists the blocking keys that made this a candidate
	// pair.
	MatchedKeys []string `json:"matched_keys"`
}

// Fuse computes the weighted confidence for a candidate pair from its
// signal scores. Only computed signals contribute; their weights are
// renormalized to sum to 1, and the weighted mean is scaled to [0,100].
// Returns false when no signal could be computed — such pairs carry no
// evidence either way and are dropped before clustering.
//
// Accumulation runs in sorted name order so the result is bit-identical
// regardless of map iteration order.
func Fuse(pair blocking.Pair, scores map[string]signal.Score, weights Weights) (Verdict, bool) {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)

	var weightSum, weighted float64
	for _, name := range names {
		s := scores[name]
		if !s.Computed {
			continue
		}
		w := weights[name]
		if w <= 0 {
			continue
		}
		weightSum += w
		weighted += w * s.Value
	}
	if weightSum == 0 {
		return Verdict{}, false
	}

	confidence := weighted / weightSum * 100

	return Verdict{
		A:           pair.A.ID(),
		B:           pair.B.ID(),
		Confidence:  confidence,
		Band:        BandFor(confidence),
		Signals:     scores,
		MatchedKeys: pair.Keys,
	}, true
}

// BandFor maps a confidence in [0,100] to its likelihood band.
func BandFor(confidence float64) Band {
	switch {
	case confidence >= 80:
		return BandVeryHigh
	case confidence >= 60:
		return BandHigh
	case confidence >= 40:
		return BandMedium
	case confidence >= 20:
		return BandLow
	default:
		return BandVeryLow
	}
}
