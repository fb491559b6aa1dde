// Package store keeps a history of conversions in SQLite.
//
// Every saved run records where the document came from, the BLAKE3 digest
// of its bytes, the marker, the line statistics and the records of both
// datasets, so that exports can be downloaded again later. Run IDs are
// ULIDs and sort by creation time.
package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/zeebo/blake3"
	_ "modernc.org/sqlite"

	"github.com/tsawler/startlist"
	"github.com/tsawler/startlist/model"
	"github.com/tsawler/startlist/parse"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("run not found")

// DefaultListLimit is used by List when limit is not positive.
const DefaultListLimit = 50

// Run is one stored conversion.
type Run struct {
	ID            string        `json:"id"`
	CreatedAt     time.Time     `json:"created_at"`
	Source        string        `json:"source"`
	Digest        string        `json:"digest"`
	Marker        string        `json:"marker"`
	Stats         parse.Stats   `json:"stats"`
	FullCount     int           `json:"full_count"`
	FilteredCount int           `json:"filtered_count"`
	Full          model.Dataset `json:"-"`
	Filtered      model.Dataset `json:"-"`
}

// NewRun builds an unsaved run from a conversion result.
func NewRun(source string, data []byte, result *startlist.Result) Run {
	return Run{
		Source:        source,
		Digest:        Digest(data),
		Marker:        result.Filtered.Marker,
		Stats:         result.Stats,
		FullCount:     result.Full.Len(),
		FilteredCount: result.Filtered.Len(),
		Full:          result.Full,
		Filtered:      result.Filtered,
	}
}

// Digest returns the hex BLAKE3-256 digest of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Store is a SQLite-backed run history.
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Open opens the database at path with WAL mode enabled and creates the
// schema when needed.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("open store: %w", err)
		}
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:      db,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	source TEXT NOT NULL,
	digest TEXT NOT NULL,
	marker TEXT NOT NULL,
	stats_json TEXT NOT NULL,
	full_count INTEGER NOT NULL,
	filtered_count INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_digest ON runs(digest);

CREATE TABLE IF NOT EXISTS records (
	run_id TEXT NOT NULL,
	kind INTEGER NOT NULL,
	rank INTEGER NOT NULL,
	bib INTEGER NOT NULL,
	name TEXT NOT NULL,
	club TEXT NOT NULL,
	class TEXT NOT NULL,
	start_time TEXT NOT NULL,
	page INTEGER NOT NULL,
	PRIMARY KEY(run_id, kind, rank),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *Store) newID(t time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

// Save stores run with both datasets and returns it with its ID and
// creation time set.
func (s *Store) Save(ctx context.Context, run Run) (Run, error) {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	run.ID = s.newID(run.CreatedAt)
	run.FullCount = run.Full.Len()
	run.FilteredCount = run.Filtered.Len()

	stats, err := json.Marshal(run.Stats)
	if err != nil {
		return Run{}, fmt.Errorf("encode stats: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("save run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO runs (id, created_at, source, digest, marker, stats_json, full_count, filtered_count)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.Format(time.RFC3339Nano), run.Source, run.Digest, run.Marker,
		string(stats), run.FullCount, run.FilteredCount)
	if err != nil {
		return Run{}, fmt.Errorf("save run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO records (run_id, kind, rank, bib, name, club, class, start_time, page)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("save records: %w", err)
	}
	defer stmt.Close()

	for _, ds := range []model.Dataset{run.Full, run.Filtered} {
		for _, rec := range ds.Records {
			_, err := stmt.ExecContext(ctx, run.ID, int(ds.Kind), rec.Rank, rec.Bib,
				rec.Name, rec.Club, string(rec.Class), rec.StartTime, rec.Page)
			if err != nil {
				return Run{}, fmt.Errorf("save %s record %d: %w", ds.Kind, rec.Rank, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("save run: %w", err)
	}
	return run, nil
}

const runColumns = `id, created_at, source, digest, marker, stats_json, full_count, filtered_count`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run       Run
		createdAt string
		stats     string
	)
	err := row.Scan(&run.ID, &createdAt, &run.Source, &run.Digest, &run.Marker,
		&stats, &run.FullCount, &run.FilteredCount)
	if err != nil {
		return Run{}, err
	}

	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Run{}, fmt.Errorf("run %s created_at: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(stats), &run.Stats); err != nil {
		return Run{}, fmt.Errorf("run %s stats: %w", run.ID, err)
	}
	return run, nil
}

// Get returns the run summary without its records.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// FindByDigest returns the most recent run of the document with the given
// digest.
func (s *Store) FindByDigest(ctx context.Context, digest string) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE digest = ? ORDER BY id DESC LIMIT 1`, digest)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: digest %s", ErrNotFound, digest)
	}
	if err != nil {
		return Run{}, fmt.Errorf("find run: %w", err)
	}
	return run, nil
}

// Dataset returns one dataset of a run in rank order.
func (s *Store) Dataset(ctx context.Context, id string, kind model.DatasetKind) (model.Dataset, error) {
	run, err := s.Get(ctx, id)
	if err != nil {
		return model.Dataset{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT rank, bib, name, club, class, start_time, page
FROM records WHERE run_id = ? AND kind = ? ORDER BY rank`, id, int(kind))
	if err != nil {
		return model.Dataset{}, fmt.Errorf("load dataset: %w", err)
	}
	defer rows.Close()

	ds := model.Dataset{Kind: kind, Marker: run.Marker}
	for rows.Next() {
		var (
			rec   model.Record
			class string
		)
		if err := rows.Scan(&rec.Rank, &rec.Bib, &rec.Name, &rec.Club, &class, &rec.StartTime, &rec.Page); err != nil {
			return model.Dataset{}, fmt.Errorf("load dataset: %w", err)
		}
		rec.Class = model.ClassLabel(class)
		ds.Records = append(ds.Records, rec)
	}
	return ds, rows.Err()
}

// Delete removes a run and its records.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
