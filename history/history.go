// Package history keeps a record of finished scans in a SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	// registers the "sqlite" driver.
	_ "modernc.org/sqlite"

	"github.com/cellsafe/clashscan/scan"
)

const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		run_id      TEXT PRIMARY KEY,
		job         TEXT NOT NULL,
		state       TEXT NOT NULL,
		waypoint    INTEGER,
		t           DOUBLE,
		mesh_a      TEXT,
		mesh_b      TEXT,
		samples     INTEGER NOT NULL,
		elapsed_ns  INTEGER NOT NULL,
		recorded_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS runs_recorded_at ON runs (recorded_at);
`

// Store is a scan history database.
type Store struct {
	db  *sql.DB
	clk clock.Clock
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open history %s", path)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, multierr.Combine(errors.Wrap(err, "failed to create history schema"), db.Close())
	}
	return &Store{db: db, clk: clock.New()}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Entry is one recorded scan.
type Entry struct {
	RunID        string
	Job          string
	State        string
	// Waypoint and T are only valid when State is not clear.
	Waypoint     int
	T            float64
	MeshA, MeshB string
	Samples      int
	Elapsed      time.Duration
	RecordedAt   time.Time
}

func (e Entry) String() string {
	if where := e.Where(); where != "" {
		return fmt.Sprintf("%s  %s  %-11s %s  %s  samples=%d  %v",
			e.RecordedAt.Format(time.RFC3339), e.RunID, e.State, e.Job, where, e.Samples, e.Elapsed)
	}
	return fmt.Sprintf("%s  %s  %-11s %s  samples=%d  %v",
		e.RecordedAt.Format(time.RFC3339), e.RunID, e.State, e.Job, e.Samples, e.Elapsed)
}

// Where describes the offending sample, or returns "" for a clear scan.
func (e Entry) Where() string {
	if e.State == scan.StateClear.String() {
		return ""
	}
	where := fmt.Sprintf("waypoint=%d t=%.4f", e.Waypoint, e.T)
	if e.MeshA != "" {
		where += fmt.Sprintf(" %s <-> %s", e.MeshA, e.MeshB)
	}
	return where
}

// Record stores the outcome of a scan of job.
func (s *Store) Record(ctx context.Context, job string, r *scan.Report) error {
	var waypoint sql.NullInt64
	var t sql.NullFloat64
	if idx, ok := r.OffendingIndex(); ok {
		waypoint = sql.NullInt64{Int64: int64(idx), Valid: true}
	}
	if v, ok := r.SampleParameter(); ok {
		t = sql.NullFloat64{Float64: v, Valid: true}
	}
	var meshA, meshB sql.NullString
	if a, b, ok := r.Meshes(); ok {
		meshA = sql.NullString{String: a.Label(), Valid: true}
		meshB = sql.NullString{String: b.Label(), Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, job, state, waypoint, t, mesh_a, mesh_b, samples, elapsed_ns, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID(), job, r.State().String(), waypoint, t, meshA, meshB, r.Samples(), r.Elapsed().Nanoseconds(),
		s.clk.Now().UnixNano(),
	)
	return errors.Wrapf(err, "failed to record run %s", r.RunID())
}

// List returns up to limit entries, most recent first. A non-positive limit returns every entry.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, job, state, waypoint, t, mesh_a, mesh_b, samples, elapsed_ns, recorded_at
		FROM runs ORDER BY recorded_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list runs")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e            Entry
			waypoint     sql.NullInt64
			t            sql.NullFloat64
			meshA, meshB sql.NullString
			elapsed      int64
			recordedAt   int64
		)
		if err := rows.Scan(&e.RunID, &e.Job, &e.State, &waypoint, &t, &meshA, &meshB, &e.Samples, &elapsed, &recordedAt); err != nil {
			return nil, errors.Wrap(err, "failed to read run")
		}
		e.Waypoint = int(waypoint.Int64)
		e.T = t.Float64
		e.MeshA, e.MeshB = meshA.String, meshB.String
		e.Elapsed = time.Duration(elapsed)
		e.RecordedAt = time.Unix(0, recordedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to list runs")
	}
	return entries, nil
}
