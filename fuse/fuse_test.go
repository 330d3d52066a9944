package fuse

import (
	"testing"

	"github.com/codeGROOVE-dev/doppelganger/blocking"
	"github.com/codeGROOVE-dev/doppelganger/record"
	"github.com/codeGROOVE-dev/doppelganger/signal"
)

func testPair() blocking.Pair {
	return blocking.Pair{
		A:    &record.Profile{Platform: "instagram", Username: "jane.doe"},
		B:    &record.Profile{Platform: "twitter", Username: "janedoe2024"},
		Keys: []string{"username:janedoe"},
	}
}

func computed(name string, value float64) signal.Score {
	return signal.Score{Name: name, Value: value, Computed: true}
}

func TestFuse(t *testing.T) {
	tests := []struct {
		name    string
		scores  map[string]signal.Score
		wantMin float64
		wantMax float64
		ok      bool
	}{
		{
			name: "all signals perfect",
			scores: map[string]signal.Score{
				signal.NameIdentifier:  computed(signal.NameIdentifier, 1.0),
				signal.NameStylometric: computed(signal.NameStylometric, 1.0),
				signal.NameContent:     computed(signal.NameContent, 1.0),
				signal.NameTemporal:    computed(signal.NameTemporal, 1.0),
				signal.NameBehavioral:  computed(signal.NameBehavioral, 1.0),
			},
			wantMin: 100, wantMax: 100, ok: true,
		},
		{
			name: "single computed signal",
			scores: map[string]signal.Score{
				signal.NameIdentifier: computed(signal.NameIdentifier, 0.5),
				signal.NameContent:    {Name: signal.NameContent},
			},
			wantMin: 50, wantMax: 50, ok: true,
		},
		{
			name: "heavier signal dominates",
			scores: map[string]signal.Score{
				signal.NameContent:  computed(signal.NameContent, 1.0),
				signal.NameTemporal: computed(signal.NameTemporal, 0.0),
			},
			wantMin: 55, wantMax: 65, ok: true, // 0.9/(0.9+0.6) = 60
		},
		{
			name: "no computed signals dropped",
			scores: map[string]signal.Score{
				signal.NameIdentifier: {Name: signal.NameIdentifier},
				signal.NameContent:    {Name: signal.NameContent},
			},
			ok: false,
		},
		{
			name:   "empty score map dropped",
			scores: map[string]signal.Score{},
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, ok := Fuse(testPair(), tt.scores, DefaultWeights())
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if verdict.Confidence < tt.wantMin || verdict.Confidence > tt.wantMax {
				t.Errorf("Confidence = %.2f, want [%.1f, %.1f]", verdict.Confidence, tt.wantMin, tt.wantMax)
			}
			if verdict.Band != BandFor(verdict.Confidence) {
				t.Errorf("Band = %s, inconsistent with confidence %.2f", verdict.Band, verdict.Confidence)
			}
			if verdict.A != "instagram:jane.doe" || verdict.B != "twitter:janedoe2024" {
				t.Errorf("verdict pair = (%s, %s)", verdict.A, verdict.B)
			}
		})
	}
}

// Adding a computed signal with score 1.0 must never decrease the
// fused confidence.
func TestFuseMonotonicity(t *testing.T) {
	scores := map[string]signal.Score{
		signal.NameIdentifier: computed(signal.NameIdentifier, 0.4),
	}
	base, ok := Fuse(testPair(), scores, DefaultWeights())
	if !ok {
		t.Fatal("base fuse failed")
	}

	for _, name := range []string{
		signal.NameStylometric, signal.NameContent,
		signal.NameTemporal, signal.NameBehavioral,
	} {
		augmented := map[string]signal.Score{
			signal.NameIdentifier: scores[signal.NameIdentifier],
			name:                  computed(name, 1.0),
		}
		verdict, ok := Fuse(testPair(), augmented, DefaultWeights())
		if !ok {
			t.Fatalf("fuse with %s failed", name)
		}
		if verdict.Confidence < base.Confidence {
			t.Errorf("adding perfect %s decreased confidence: %.2f -> %.2f",
				name, base.Confidence, verdict.Confidence)
		}
	}
}

func TestFuseDeterministic(t *testing.T) {
	scores := map[string]signal.Score{
		signal.NameIdentifier: computed(signal.NameIdentifier, 0.7),
		signal.NameContent:    computed(signal.NameContent, 0.6),
		signal.NameBehavioral: computed(signal.NameBehavioral, 0.9),
	}

	first, _ := Fuse(testPair(), scores, DefaultWeights())
	for range 10 {
		again, _ := Fuse(testPair(), scores, DefaultWeights())
		if again.Confidence != first.Confidence {
			t.Fatal("Fuse not deterministic over map iteration order")
		}
	}
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		confidence float64
		want       Band
	}{
		{100, BandVeryHigh},
		{80, BandVeryHigh},
		{79.9, BandHigh},
		{60, BandHigh},
		{59.9, BandMedium},
		{40, BandMedium},
		{39.9, BandLow},
		{20, BandLow},
		{19.9, BandVeryLow},
		{0, BandVeryLow},
	}

	for _, tt := range tests {
		if got := BandFor(tt.confidence); got != tt.want {
			t.Errorf("BandFor(%.1f) = %s, want %s", tt.confidence, got, tt.want)
		}
	}
}
