package signal

import (
	"github.com/codeGROOVE-dev/doppelganger/normalize"
	"github.com/codeGROOVE-dev/doppelganger/record"
)

// ContentOverlap scores verbatim content sharing between two records.
// Every post long enough to fingerprint is reduced to a digest; the
// score is the fraction of the smaller profile's fingerprints found in
// the other. Cross-posted identical text is the strongest single
// indicator of shared authorship, and fusion weights it accordingly.
//
// Not computed when either side has no fingerprintable posts.
func ContentOverlap(a, b *record.Profile) Score {
	fpa := Fingerprints(a)
	fpb := Fingerprints(b)
	if len(fpa) == 0 || len(fpb) == 0 {
		return notComputed(NameContent)
	}

	smaller, larger := fpa, fpb
	if len(fpb) < len(fpa) {
		smaller, larger = fpb, fpa
	}

	var shared int
	for fp := range smaller {
		if larger[fp] {
			shared++
		}
	}

	value := float64(shared) / float64(len(smaller))
	return Score{Name: NameContent, Value: value, Computed: true}
}

// Fingerprints returns the set of content fingerprints for a profile's
// posts. Posts below the fingerprint length floor contribute nothing.
func Fingerprints(p *record.Profile) map[string]bool {
	fps := make(map[string]bool)
	for i := range p.Posts {
		if fp := normalize.Fingerprint(p.Posts[i].Content); fp != "" {
			fps[fp] = true
		}
	}
	return fps
}
