// Package signal implements the independent similarity signals used to
// compare two harvested profile records.
//
// Each extractor is a pure function of two records (plus their posts)
// returning a Score in [0,1]. Extractors never fail: when a required
// input is absent on either side the score is simply not computed, and
// fusion treats it as neutral rather than as zero. The five signals are
// independent and may run in any order.
package signal

import "github.com/codeGROOVE-dev/doppelganger/record"

// Signal names, used as keys in verdict signal maps.
const (
	NameIdentifier  = "identifier"
	NameStylometric = "stylometric"
	NameContent     = "content"
	NameTemporal    = "temporal"
	NameBehavioral  = "behavioral"
)

// Score is one named similarity value for an ordered pair of records.
// Value is meaningful only when Computed is true.
type Score struct {
	Name     string
	Value    float64 // [0,1]
	Computed bool
}

// notComputed returns the sentinel score for a signal whose required
// inputs were missing.
func notComputed(name string) Score {
	return Score{Name: name}
}

// Extract runs all five extractors against the pair and returns the
// scores keyed by signal name, computed or not.
func Extract(a, b *record.Profile) map[string]Score {
	return map[string]Score{
		NameIdentifier:  Identifier(a, b),
		NameStylometric: Stylometric(a, b),
		NameContent:     ContentOverlap(a, b),
		NameTemporal:    Temporal(a, b),
		NameBehavioral:  Behavioral(a, b),
	}
}
