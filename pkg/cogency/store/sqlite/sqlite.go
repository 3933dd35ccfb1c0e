// Package sqlite implements the archive store on SQLite
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/cogency/pkg/cogency/oracle"
	"github.com/cognicore/cogency/pkg/cogency/store"
)

type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite archive with WAL mode enabled, creating the
// schema on first use.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS rules (
	cause TEXT NOT NULL,
	effects TEXT NOT NULL,
	UNIQUE(cause, effects)
);

CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	observation TEXT NOT NULL,
	status TEXT NOT NULL,
	cover_count INTEGER NOT NULL,
	oracle_queries INTEGER NOT NULL,
	elapsed_ms INTEGER NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS covers (
	run_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	labels TEXT NOT NULL,
	cardinality INTEGER NOT NULL,
	size INTEGER NOT NULL,
	min_depth INTEGER NOT NULL,
	max_depth INTEGER NOT NULL,
	UNIQUE(run_id, position),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`

func initSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (s *sqliteStore) Close() error { return s.db.Close() }

func (s *sqliteStore) SaveRules(ctx context.Context, rules []oracle.Rule[string]) error {
	for _, r := range rules {
		effects, err := json.Marshal(r.Effects)
		if err != nil {
			return err
		}
		_, err = s.db.ExecContext(ctx,
			"INSERT OR IGNORE INTO rules(cause, effects) VALUES(?, ?)",
			r.Cause, string(effects))
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *sqliteStore) Rules(ctx context.Context) ([]oracle.Rule[string], error) {
	rows, err := s.db.QueryContext(ctx, "SELECT cause, effects FROM rules ORDER BY cause, effects")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []oracle.Rule[string]
	for rows.Next() {
		var rule oracle.Rule[string]
		var effects string
		if err := rows.Scan(&rule.Cause, &effects); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(effects), &rule.Effects); err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	observation, err := json.Marshal(r.Observation)
	if err != nil {
		return err
	}
	created := r.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs(id, observation, status, cover_count, oracle_queries, elapsed_ms, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?)`,
		r.ID, string(observation), r.Status, r.CoverCount, r.OracleQueries,
		r.Elapsed.Milliseconds(), created.UTC().Format(time.RFC3339))
	return err
}

func (s *sqliteStore) Runs(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, observation, status, cover_count, oracle_queries, elapsed_ms, created_at
		FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Run
	for rows.Next() {
		var r store.Run
		var observation, created string
		var elapsedMS int64
		if err := rows.Scan(&r.ID, &observation, &r.Status, &r.CoverCount, &r.OracleQueries, &elapsedMS, &created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(observation), &r.Observation); err != nil {
			return nil, err
		}
		r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			r.CreatedAt = t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *sqliteStore) SaveCovers(ctx context.Context, runID string, covers []store.Cover) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, c := range covers {
		labels, err := json.Marshal(c.Labels)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO covers(run_id, position, labels, cardinality, size, min_depth, max_depth)
			VALUES(?, ?, ?, ?, ?, ?, ?)`,
			runID, i, string(labels), c.Cardinality, c.Size, c.MinDepth, c.MaxDepth)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) Covers(ctx context.Context, runID string) ([]store.Cover, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT labels, cardinality, size, min_depth, max_depth
		FROM covers WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Cover
	for rows.Next() {
		var c store.Cover
		var labels string
		if err := rows.Scan(&labels, &c.Cardinality, &c.Size, &c.MinDepth, &c.MaxDepth); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(labels), &c.Labels); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
