// Package doppelganger resolves whether social-profile records,
// harvested independently from different platforms, belong to the same
// real-world identity.
//
// Basic usage:
//
//	result, err := doppelganger.Analyze(ctx, records)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, c := range result.Clusters {
//	    fmt.Println(c.ClusterID, c.Members)
//	}
//
// The pipeline is a pure batch computation: block records into
// candidate buckets, score each candidate pair with five independent
// similarity signals, fuse the signals into a confidence, then merge
// qualifying pairs into transitively-closed identity clusters. Inputs
// are immutable and no state survives between runs; the output is a
// probabilistic hypothesis with a numeric confidence, never a
// certainty.
package doppelganger

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/codeGROOVE-dev/doppelganger/blocking"
	"github.com/codeGROOVE-dev/doppelganger/cluster"
	"github.com/codeGROOVE-dev/doppelganger/fuse"
	"github.com/codeGROOVE-dev/doppelganger/record"
	"github.com/codeGROOVE-dev/doppelganger/signal"
)

type (
	// Profile re-exports record.Profile for convenience.
	Profile = record.Profile
	// Post re-exports record.Post for convenience.
	Post = record.Post
)

// ErrInvalidMergeFloor re-exports the configuration error.
var ErrInvalidMergeFloor = record.ErrInvalidMergeFloor

// DefaultMergeFloor re-exports the default cluster merge floor.
const DefaultMergeFloor = fuse.DefaultMergeFloor

// Result is the output of one analysis run.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Result struct {
	// Clusters holds the resolved identity clusters, each with at
	// least two members.
	Clusters []cluster.Identity `json:"clusters"`

	// Unmatched lists the platform-qualified IDs of records that
	// joined no cluster, sorted.
	Unmatched []string `json:"unmatched"`

	// Verdicts holds the pair verdicts at or above the merge floor.
	// With WithAllVerdicts it instead holds every verdict produced,
	// including those below the floor, for audit and debugging.
	Verdicts []fuse.Verdict `json:"verdicts,omitempty"`
}

// Option configures an Analyze call.
type Option func(*config)

type config struct {
	logger      *slog.Logger
	weights     fuse.Weights
	mergeFloor  float64
	workers     int
	allVerdicts bool
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithMergeFloor sets the minimum confidence for two records to join
// the same cluster. Valid range is 0-100; the default is the bottom of
// the medium band.
func WithMergeFloor(floor float64) Option {
	return func(c *config) { c.mergeFloor = floor }
}

// WithWeights overrides the base signal fusion weights. The defaults
// are hand-tuned, not calibrated; callers with labeled data may want
// their own.
func WithWeights(w fuse.Weights) Option {
	return func(c *config) { c.weights = w }
}

// WithWorkers sets the number of concurrent pair-scoring workers.
// Defaults to the number of CPUs.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// WithAllVerdicts keeps every pair verdict in the result, including
// those below the merge floor, for audit and debugging.
func WithAllVerdicts() Option {
	return func(c *config) { c.allVerdicts = true }
}

// Analyze runs the full identity-resolution pipeline over a batch of
// records. An empty batch yields an empty result, not an error; the
// only error condition is a merge floor outside 0-100, rejected before
// any processing starts.
//
// Pair scoring reads only immutable records, so it runs on a worker
// pool with no locking beyond result collection. Cancelling the
// context abandons unscored pairs; partial results are discarded and a
// rerun recomputes everything from the same inputs.
func Analyze(ctx context.Context, records []*record.Profile, opts ...Option) (*Result, error) {
	cfg := &config{
		logger:     slog.Default(),
		weights:    fuse.DefaultWeights(),
		mergeFloor: fuse.DefaultMergeFloor,
		workers:    runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.mergeFloor < 0 || cfg.mergeFloor > 100 {
		return nil, record.ErrInvalidMergeFloor
	}
	if cfg.workers < 1 {
		cfg.workers = 1
	}

	if len(records) == 0 {
		return &Result{}, nil
	}

	pairs := blocking.Pairs(records)
	cfg.logger.Debug("blocking complete", "records", len(records), "candidate_pairs", len(pairs))

	verdicts := scorePairs(ctx, pairs, cfg)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clusters := cluster.Consolidate(verdicts, cfg.mergeFloor)
	cfg.logger.Info("analysis complete",
		"records", len(records),
		"candidate_pairs", len(pairs),
		"verdicts", len(verdicts),
		"clusters", len(clusters))

	result := &Result{
		Clusters:  clusters,
		Unmatched: unmatched(records, clusters),
	}
	if cfg.allVerdicts {
		result.Verdicts = verdicts
	} else {
		for _, v := range verdicts {
			if v.Confidence >= cfg.mergeFloor {
				result.Verdicts = append(result.Verdicts, v)
			}
		}
	}

	return result, nil
}

// scorePairs fans candidate pairs out to a bounded worker pool. Each
// worker reads its own immutable pair and appends one verdict under the
// mutex; pairs with zero computed signals produce no verdict. The
// output is sorted so concurrency never changes the result.
func scorePairs(ctx context.Context, pairs []blocking.Pair, cfg *config) []fuse.Verdict {
	work := make(chan blocking.Pair)

	var mu sync.Mutex
	var verdicts []fuse.Verdict
	var wg sync.WaitGroup

	for range cfg.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pair := range work {
				scores := signal.Extract(pair.A, pair.B)
				verdict, ok := fuse.Fuse(pair, scores, cfg.weights)
				if !ok {
					cfg.logger.Debug("no computable signals for pair", "a", pair.A.ID(), "b", pair.B.ID())
					continue
				}
				mu.Lock()
				verdicts = append(verdicts, verdict)
				mu.Unlock()
			}
		}()
	}

	for _, pair := range pairs {
		if ctx.Err() != nil {
			break
		}
		work <- pair
	}
	close(work)
	wg.Wait()

	sort.Slice(verdicts, func(i, j int) bool {
		if verdicts[i].A != verdicts[j].A {
			return verdicts[i].A < verdicts[j].A
		}
		return verdicts[i].B < verdicts[j].B
	})
	return verdicts
}

// unmatched returns the sorted IDs of records belonging to no cluster.
func unmatched(records []*record.Profile, clusters []cluster.Identity) []string {
	clustered := make(map[string]bool)
	for _, c := range clusters {
		for _, id := range c.Members {
			clustered[id] = true
		}
	}

	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		id := r.ID()
		if !clustered[id] && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
