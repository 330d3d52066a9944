// Package probe drives speculative cross-platform lookup: it expands a
// seed username into plausible variations and checks which of them
// exist on other platforms. Hits feed the harvesting collaborators; the
// analysis core itself never performs network calls.
package probe

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/codeGROOVE-dev/doppelganger/variations"
)

// DefaultLimit caps how many candidate URLs one lookup will probe.
const DefaultLimit = 200

// Platform URL patterns for username-based probing.
var platformPatterns = []struct {
	name    string
	pattern string // %s is replaced with the username
}{
	{"instagram", "https://instagram.com/%s"},
	{"twitter", "https://twitter.com/%s"},
	{"tiktok", "https://tiktok.com/@%s"},
	{"youtube", "https://youtube.com/@%s"},
	{"linkedin", "https://linkedin.com/in/%s"},
	{"github", "https://github.com/%s"},
	{"reddit", "https://reddit.com/user/%s"},
	{"bluesky", "https://bsky.app/profile/%s.bsky.social"},
}

// Fetcher reports whether a profile URL exists. Implementations should
// treat any definitive "not found" as (false, nil) and reserve errors
// for transport failures.
type Fetcher func(ctx context.Context, url string) (bool, error)

// Hit is one discovered candidate profile.
type Hit struct {
	Platform string
	Username string
	URL      string
	// Variation tags how the username relates to the seed:
	// "seed", "numeric_suffix", "leetspeak", ...
	Variation string
}

// Config holds configuration for a lookup.
type Config struct {
	Logger  *slog.Logger
	Fetcher Fetcher
	Limit   int // maximum candidate URLs to probe, DefaultLimit when 0

	// Platforms restricts probing to the named platforms; empty means
	// all known patterns.
	Platforms []string
}

// Lookup probes platforms for the seed username and its generated
// variations, returning every hit. Candidates are probed concurrently;
// each probe gets its own short timeout so one slow platform cannot
// stall the sweep. Hits come back in no particular order.
func Lookup(ctx context.Context, seed string, cfg Config) []Hit {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Fetcher == nil {
		return nil
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	seed = strings.ToLower(strings.TrimSpace(seed))
	if seed == "" {
		return nil
	}

	candidates := candidateUsernames(seed)
	cfg.Logger.Debug("generated probe candidates", "seed", seed, "usernames", len(candidates))

	var hits []Hit
	var mu sync.Mutex
	var wg sync.WaitGroup
	probed := 0

	for _, candidate := range candidates {
		for _, pp := range platformPatterns {
			if len(cfg.Platforms) > 0 && !platformAllowed(cfg.Platforms, pp.name) {
				continue
			}
			if probed >= limit || ctx.Err() != nil {
				break
			}
			probed++

			url := strings.Replace(pp.pattern, "%s", candidate.Candidate, 1)
			wg.Add(1)
			go func(platform, username, url, variation string) {
				defer wg.Done()

				probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
				defer cancel()

				exists, err := cfg.Fetcher(probeCtx, url)
				if err != nil {
					cfg.Logger.Debug("probe failed", "url", url, "error", err)
					return
				}
				if !exists {
					return
				}

				cfg.Logger.Info("probe hit", "platform", platform, "username", username, "url", url)
				mu.Lock()
				hits = append(hits, Hit{Platform: platform, Username: username, URL: url, Variation: variation})
				mu.Unlock()
			}(pp.name, candidate.Candidate, url, candidate.Type)
		}
	}

	wg.Wait()
	return hits
}

// candidateUsernames returns the seed first, then its ranked
// variations, most similar first.
func candidateUsernames(seed string) []variations.Variation {
	ranked := variations.Rank(seed, variations.Generate(seed))
	out := make([]variations.Variation, 0, len(ranked)+1)
	out = append(out, variations.Variation{Candidate: seed, Type: "seed", Similarity: 1.0})
	return append(out, ranked...)
}

func platformAllowed(allowed []string, platform string) bool {
	for _, p := range allowed {
		if strings.EqualFold(p, platform) {
			return true
		}
	}
	return false
}
