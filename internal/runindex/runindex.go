// Package runindex keeps a SQLite index of batch runs so traces can be found
// and compared later.
package runindex

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Run is one finished run.
type Run struct {
	ID         int64
	Level      string
	Catalog    string
	Seed       int64
	Collisions bool
	Rounds     int
	Outcome    string
	Digest     string
	Trace      string
	StartedAt  time.Time
}

type runRow struct {
	ID         int64  `db:"id"`
	Level      string `db:"level"`
	Catalog    string `db:"catalog"`
	Seed       int64  `db:"seed"`
	Collisions bool   `db:"collisions"`
	Rounds     int    `db:"rounds"`
	Outcome    string `db:"outcome"`
	Digest     string `db:"digest"`
	Trace      string `db:"trace"`
	StartedMS  int64  `db:"started_ms"`
}

// DB wraps the index database.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates the index at path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			conn.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		level TEXT NOT NULL,
		catalog TEXT NOT NULL,
		seed INTEGER NOT NULL,
		collisions INTEGER NOT NULL,
		rounds INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		digest TEXT NOT NULL,
		trace TEXT NOT NULL,
		started_ms INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_level_seed ON runs(level, seed);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Record stores r and returns its id.
func (db *DB) Record(ctx context.Context, r Run) (int64, error) {
	row := runRow{
		Level:      r.Level,
		Catalog:    r.Catalog,
		Seed:       r.Seed,
		Collisions: r.Collisions,
		Rounds:     r.Rounds,
		Outcome:    r.Outcome,
		Digest:     r.Digest,
		Trace:      r.Trace,
		StartedMS:  r.StartedAt.UnixMilli(),
	}
	res, err := db.conn.NamedExecContext(ctx, `
		INSERT INTO runs (level, catalog, seed, collisions, rounds, outcome, digest, trace, started_ms)
		VALUES (:level, :catalog, :seed, :collisions, :rounds, :outcome, :digest, :trace, :started_ms)`, row)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit runs, newest first.
func (db *DB) Recent(ctx context.Context, limit int) ([]Run, error) {
	var rows []runRow
	err := db.conn.SelectContext(ctx, &rows,
		`SELECT * FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	return toRuns(rows), nil
}

// ForSeed returns every run of level with seed, oldest first.
func (db *DB) ForSeed(ctx context.Context, level string, seed int64) ([]Run, error) {
	var rows []runRow
	err := db.conn.SelectContext(ctx, &rows,
		`SELECT * FROM runs WHERE level = ? AND seed = ? ORDER BY id`, level, seed)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	return toRuns(rows), nil
}

func toRuns(rows []runRow) []Run {
	runs := make([]Run, len(rows))
	for i, row := range rows {
		runs[i] = Run{
			ID:         row.ID,
			Level:      row.Level,
			Catalog:    row.Catalog,
			Seed:       row.Seed,
			Collisions: row.Collisions,
			Rounds:     row.Rounds,
			Outcome:    row.Outcome,
			Digest:     row.Digest,
			Trace:      row.Trace,
			StartedAt:  time.UnixMilli(row.StartedMS),
		}
	}
	return runs
}
