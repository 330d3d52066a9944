// Package cluster consolidates pairwise match verdicts into
// transitively-closed identity clusters.
//
// Records are nodes keyed by platform-qualified ID; every verdict at or
// above the merge floor adds an edge; connected components of two or
// more members become clusters. A lone record with no qualifying edge
// is "no match found" and is reported separately, never as a
// degenerate one-member cluster.
package cluster

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/codeGROOVE-dev/doppelganger/fuse"
)

// idLen is the hex length of a cluster identifier.
const idLen = 12

// Identity is one resolved identity cluster.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Identity struct {
	// ClusterID is a deterministic hash of the sorted member IDs, so
	// re-running on the same input reproduces the same IDs.
	ClusterID string `json:"cluster_id"`

	// Members holds the platform-qualified record IDs, sorted.
	Members []string `json:"members"`

	// Platforms holds the distinct platforms covered, sorted.
	Platforms []string `json:"platforms_covered"`

	// Strongest is the highest-confidence verdict inside the cluster.
	Strongest fuse.Verdict `json:"strongest_verdict"`
}

// Consolidate merges verdicts at or above mergeFloor into identity
// clusters via union-find. Output order is deterministic: clusters are
// sorted by their first member ID. Verdicts below the floor contribute
// no edges; an empty verdict set yields no clusters.
func Consolidate(verdicts []fuse.Verdict, mergeFloor float64) []Identity {
	uf := newUnionFind()
	for i := range verdicts {
		if verdicts[i].Confidence >= mergeFloor {
			uf.union(verdicts[i].A, verdicts[i].B)
		}
	}

	// Group members by component root.
	components := make(map[string][]string)
	for _, id := range uf.nodes() {
		root := uf.find(id)
		components[root] = append(components[root], id)
	}

	var clusters []Identity
	for _, members := range components {
		if len(members) < 2 {
			continue
		}
		sort.Strings(members)
		clusters = append(clusters, Identity{
			ClusterID: clusterID(members),
			Members:   members,
			Platforms: platformsOf(members),
			Strongest: strongest(members, verdicts),
		})
	}

	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].Members[0] < clusters[j].Members[0]
	})
	return clusters
}

// clusterID hashes the sorted member IDs into a stable identifier.
func clusterID(sortedMembers []string) string {
	hash := sha256.Sum256([]byte(strings.Join(sortedMembers, "\n")))
	return hex.EncodeToString(hash[:])[:idLen]
}

func platformsOf(members []string) []string {
	seen := make(map[string]bool)
	var platforms []string
	for _, id := range members {
		platform, _, _ := strings.Cut(id, ":")
		if !seen[platform] {
			seen[platform] = true
			platforms = append(platforms, platform)
		}
	}
	sort.Strings(platforms)
	return platforms
}

// strongest returns the highest-confidence verdict whose endpoints are
// both cluster members, breaking ties by pair ID for determinism.
func strongest(members []string, verdicts []fuse.Verdict) fuse.Verdict {
	inCluster := make(map[string]bool, len(members))
	for _, id := range members {
		inCluster[id] = true
	}

	var best fuse.Verdict
	var found bool
	for i := range verdicts {
		v := &verdicts[i]
		if !inCluster[v.A] || !inCluster[v.B] {
			continue
		}
		if !found || v.Confidence > best.Confidence ||
			(v.Confidence == best.Confidence && v.A+v.B < best.A+best.B) {
			best = *v
			found = true
		}
	}
	return best
}

// unionFind is a disjoint-set structure over record IDs with path
// compression and union by rank.
type unionFind struct {
	parent map[string]string
	rank   map[string]int
	order  []string
}

func newUnionFind() *unionFind {
	return &unionFind{
		parent: make(map[string]string),
		rank:   make(map[string]int),
	}
}

func (u *unionFind) add(id string) {
	if _, ok := u.parent[id]; !ok {
		u.parent[id] = id
		u.order = append(u.order, id)
	}
}

func (u *unionFind) find(id string) string {
	u.add(id)
	root := id
	for u.parent[root] != root {
		root = u.parent[root]
	}
	// Path compression.
	for u.parent[id] != root {
		u.parent[id], id = root, u.parent[id]
	}
	return root
}

func (u *unionFind) union(a, b string) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	switch {
	case u.rank[ra] < u.rank[rb]:
		u.parent[ra] = rb
	case u.rank[ra] > u.rank[rb]:
		u.parent[rb] = ra
	default:
		u.parent[rb] = ra
		u.rank[ra]++
	}
}

// nodes returns every ID ever seen, in first-seen order.
func (u *unionFind) nodes() []string {
	return u.order
}
