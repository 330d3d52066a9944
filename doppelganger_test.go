package doppelganger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/codeGROOVE-dev/doppelganger/fuse"
	"github.com/codeGROOVE-dev/doppelganger/record"
)

// chefRecords builds the cross-posting chef: the same person on
// instagram and twitter, plus an unrelated account.
func chefRecords() []*record.Profile {
	evening := func(day, minute int) time.Time {
		return time.Date(2024, 3, day, 19, minute, 0, 0, time.UTC)
	}

	shared := []string{
		"Tried a brand new pasta recipe tonight and it came out perfectly",
		"The farmers market had incredible heirloom tomatoes this weekend",
		"Finally perfected my sourdough starter after three long weeks",
	}

	jane := &record.Profile{
		Platform:    "instagram",
		Username:    "jane.doe",
		DisplayName: "Jane Doe",
		Bio:         "Chef in NYC, link: t.co/x",
		Followers:   1200,
		Posts: []record.Post{
			{Content: shared[0], Posted: evening(11, 5), Hashtags: []string{"foodie"}},
			{Content: shared[1], Posted: evening(12, 10), Hashtags: []string{"foodie"}},
			{Content: shared[2], Posted: evening(13, 0), Hashtags: []string{"foodie"}},
			{Content: "Morning prep list: stocks, sauces, and way too much chopping", Posted: evening(14, 30)},
			{Content: "Knife skills class was humbling but completely worth the time", Posted: evening(15, 45)},
		},
	}

	janeOnTwitter := &record.Profile{
		Platform:    "twitter",
		Username:    "janedoe2024",
		DisplayName: "Jane Doe",
		Bio:         "NYC chef 🍳",
		Followers:   800,
		Posts: []record.Post{
			{Content: shared[0], Posted: evening(11, 20)},
			{Content: shared[1], Posted: evening(12, 40)},
			{Content: shared[2], Posted: evening(13, 15)},
			{Content: "Restaurant week starts tomorrow and the menu is finally locked", Posted: evening(16, 0)},
			{Content: "Testing plating ideas for the autumn tasting menu tonight", Posted: evening(17, 30)},
		},
	}

	bystander := &record.Profile{
		Platform:    "mastodon",
		Username:    "gardenwatcher",
		DisplayName: "Sam Reyes",
		Bio:         "Birds, gardens, occasional astronomy",
		Posts: []record.Post{
			{Content: "The finches are back at the feeder again this morning", Posted: time.Date(2024, 3, 11, 6, 0, 0, 0, time.UTC)},
		},
	}

	return []*record.Profile{jane, janeOnTwitter, bystander}
}

func TestAnalyzeWorkedExample(t *testing.T) {
	result, err := Analyze(context.Background(), chefRecords())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(result.Clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(result.Clusters))
	}

	c := result.Clusters[0]
	if len(c.Members) != 2 {
		t.Fatalf("cluster members = %v, want 2", c.Members)
	}
	if c.Members[0] != "instagram:jane.doe" || c.Members[1] != "twitter:janedoe2024" {
		t.Errorf("members = %v", c.Members)
	}
	if c.Strongest.Band != fuse.BandHigh && c.Strongest.Band != fuse.BandVeryHigh {
		t.Errorf("band = %s, want high or very_high (confidence %.1f)",
			c.Strongest.Band, c.Strongest.Confidence)
	}

	if len(result.Unmatched) != 1 || result.Unmatched[0] != "mastodon:gardenwatcher" {
		t.Errorf("unmatched = %v, want [mastodon:gardenwatcher]", result.Unmatched)
	}
}

// Confidence must not depend on which record comes first.
func TestAnalyzeSymmetric(t *testing.T) {
	records := chefRecords()
	forward, err := Analyze(context.Background(), records)
	if err != nil {
		t.Fatal(err)
	}

	reversed := []*record.Profile{records[2], records[1], records[0]}
	backward, err := Analyze(context.Background(), reversed)
	if err != nil {
		t.Fatal(err)
	}

	if len(forward.Verdicts) != len(backward.Verdicts) {
		t.Fatalf("verdict counts differ: %d vs %d", len(forward.Verdicts), len(backward.Verdicts))
	}
	for i := range forward.Verdicts {
		f, b := forward.Verdicts[i], backward.Verdicts[i]
		if f.A != b.A || f.B != b.B || f.Confidence != b.Confidence {
			t.Errorf("verdict %d differs: (%s,%s,%.2f) vs (%s,%s,%.2f)",
				i, f.A, f.B, f.Confidence, b.A, b.B, b.Confidence)
		}
	}
}

func TestAnalyzeEmptyBatch(t *testing.T) {
	result, err := Analyze(context.Background(), nil)
	if err != nil {
		t.Fatalf("empty batch should not error: %v", err)
	}
	if len(result.Clusters) != 0 || len(result.Unmatched) != 0 {
		t.Errorf("empty batch produced output: %+v", result)
	}
}

func TestAnalyzeInvalidMergeFloor(t *testing.T) {
	for _, floor := range []float64{-1, 101, 1000} {
		_, err := Analyze(context.Background(), chefRecords(), WithMergeFloor(floor))
		if !errors.Is(err, ErrInvalidMergeFloor) {
			t.Errorf("floor %.0f: err = %v, want ErrInvalidMergeFloor", floor, err)
		}
	}
}

// Raising the merge floor can only shrink the clustering.
func TestAnalyzeFloorMonotone(t *testing.T) {
	records := chefRecords()

	loose, err := Analyze(context.Background(), records, WithMergeFloor(40))
	if err != nil {
		t.Fatal(err)
	}
	strict, err := Analyze(context.Background(), records, WithMergeFloor(95))
	if err != nil {
		t.Fatal(err)
	}

	looseMembers := make(map[string]bool)
	for _, c := range loose.Clusters {
		for _, m := range c.Members {
			looseMembers[m] = true
		}
	}
	for _, c := range strict.Clusters {
		for _, m := range c.Members {
			if !looseMembers[m] {
				t.Errorf("member %s clustered at floor 95 but not at 40", m)
			}
		}
	}
}

func TestAnalyzeAllVerdicts(t *testing.T) {
	records := chefRecords()

	// With a prohibitive floor the default result carries no verdicts,
	// but the audit option preserves them.
	plain, err := Analyze(context.Background(), records, WithMergeFloor(100))
	if err != nil {
		t.Fatal(err)
	}
	if len(plain.Verdicts) != 0 {
		t.Errorf("default result kept %d sub-floor verdicts", len(plain.Verdicts))
	}

	audit, err := Analyze(context.Background(), records, WithMergeFloor(100), WithAllVerdicts())
	if err != nil {
		t.Fatal(err)
	}
	if len(audit.Verdicts) == 0 {
		t.Error("audit result dropped all verdicts")
	}
}

func TestAnalyzeSingleWorker(t *testing.T) {
	// One worker must produce the same result as many.
	many, err := Analyze(context.Background(), chefRecords())
	if err != nil {
		t.Fatal(err)
	}
	one, err := Analyze(context.Background(), chefRecords(), WithWorkers(1))
	if err != nil {
		t.Fatal(err)
	}

	if len(many.Clusters) != len(one.Clusters) {
		t.Fatalf("cluster counts differ: %d vs %d", len(many.Clusters), len(one.Clusters))
	}
	for i := range many.Clusters {
		if many.Clusters[i].ClusterID != one.Clusters[i].ClusterID {
			t.Errorf("cluster %d differs between worker counts", i)
		}
	}
}

func TestAnalyzeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Analyze(ctx, chefRecords()); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
