// Package store archives analysis runs in SQLite so reporting and
// export collaborators can read past results. The pipeline itself
// never reads this state back: every run recomputes from scratch.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/codeGROOVE-dev/doppelganger"
)

// ErrNoRuns is returned when the archive holds no completed runs.
var ErrNoRuns = errors.New("no analysis runs recorded")

// DB wraps the SQLite archive.
type DB struct {
	sql *sql.DB
}

// Run describes one archived analysis run.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Run struct {
	ID          string
	CreatedAt   time.Time
	MergeFloor  float64
	RecordCount int
	Clusters    int
	Unmatched   int
}

// Cluster is one archived identity cluster.
type Cluster struct {
	ClusterID  string
	Members    []string
	Platforms  []string
	Confidence float64 // strongest verdict confidence
	Band       string
}

// Open opens (and if needed initializes) the archive at path.
func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS runs (
  id           TEXT PRIMARY KEY,
  created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  merge_floor  REAL NOT NULL,
  record_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS clusters (
  run_id     TEXT NOT NULL REFERENCES runs(id),
  cluster_id TEXT NOT NULL,
  confidence REAL NOT NULL,
  band       TEXT NOT NULL,
  PRIMARY KEY (run_id, cluster_id)
);
CREATE TABLE IF NOT EXISTS cluster_members (
  run_id     TEXT NOT NULL,
  cluster_id TEXT NOT NULL,
  member_id  TEXT NOT NULL,
  platform   TEXT NOT NULL,
  PRIMARY KEY (run_id, cluster_id, member_id)
);
CREATE TABLE IF NOT EXISTS unmatched (
  run_id    TEXT NOT NULL,
  member_id TEXT NOT NULL,
  PRIMARY KEY (run_id, member_id)
);
CREATE INDEX IF NOT EXISTS idx_members_run ON cluster_members(run_id);
    `); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &DB{sql: db}, nil
}

// Close releases the underlying database handle.
func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// SaveRun archives one analysis result in a single transaction and
// returns the new run ID.
func (d *DB) SaveRun(ctx context.Context, result *doppelganger.Result, mergeFloor float64, recordCount int) (string, error) {
	runID := uuid.NewString()

	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback() //nolint:errcheck // rollback on failure path
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO runs(id, merge_floor, record_count) VALUES(?,?,?)`,
		runID, mergeFloor, recordCount); err != nil {
		return "", err
	}

	for _, c := range result.Clusters {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO clusters(run_id, cluster_id, confidence, band) VALUES(?,?,?,?)`,
			runID, c.ClusterID, c.Strongest.Confidence, string(c.Strongest.Band)); err != nil {
			return "", err
		}
		for _, member := range c.Members {
			platform, _, _ := strings.Cut(member, ":")
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO cluster_members(run_id, cluster_id, member_id, platform) VALUES(?,?,?,?)`,
				runID, c.ClusterID, member, platform); err != nil {
				return "", err
			}
		}
	}

	for _, id := range result.Unmatched {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO unmatched(run_id, member_id) VALUES(?,?)`,
			runID, id); err != nil {
			return "", err
		}
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// LatestRun returns the most recently archived run.
func (d *DB) LatestRun(ctx context.Context) (Run, error) {
	var run Run
	err := d.sql.QueryRowContext(ctx, `
SELECT r.id, r.created_at, r.merge_floor, r.record_count,
       (SELECT COUNT(*) FROM clusters c WHERE c.run_id = r.id),
       (SELECT COUNT(*) FROM unmatched u WHERE u.run_id = r.id)
FROM runs r ORDER BY r.created_at DESC, r.id DESC LIMIT 1`).
		Scan(&run.ID, &run.CreatedAt, &run.MergeFloor, &run.RecordCount, &run.Clusters, &run.Unmatched)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNoRuns
	}
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// Clusters returns the archived clusters for a run, members sorted as
// stored.
func (d *DB) Clusters(ctx context.Context, runID string) ([]Cluster, error) {
	rows, err := d.sql.QueryContext(ctx, `
SELECT c.cluster_id, c.confidence, c.band, m.member_id, m.platform
FROM clusters c
JOIN cluster_members m ON m.run_id = c.run_id AND m.cluster_id = c.cluster_id
WHERE c.run_id = ?
ORDER BY c.cluster_id, m.member_id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck // read-only query

	var clusters []Cluster
	byID := make(map[string]int)
	for rows.Next() {
		var clusterID, band, member, platform string
		var confidence float64
		if err := rows.Scan(&clusterID, &confidence, &band, &member, &platform); err != nil {
			return nil, err
		}
		idx, ok := byID[clusterID]
		if !ok {
			idx = len(clusters)
			byID[clusterID] = idx
			clusters = append(clusters, Cluster{ClusterID: clusterID, Confidence: confidence, Band: band})
		}
		clusters[idx].Members = append(clusters[idx].Members, member)
		if !contains(clusters[idx].Platforms, platform) {
			clusters[idx].Platforms = append(clusters[idx].Platforms, platform)
		}
	}
	return clusters, rows.Err()
}

// Unmatched returns the archived unmatched record IDs for a run.
func (d *DB) Unmatched(ctx context.Context, runID string) ([]string, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT member_id FROM unmatched WHERE run_id = ? ORDER BY member_id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck // read-only query

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
