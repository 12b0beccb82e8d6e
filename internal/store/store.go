// Package store keeps the last valid evaluation result per geometry in an
// embedded SQLite database, so a failing re-evaluation can fall back to the
// previous output.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "github.com/pqminh27/nurbs/internal/log"
	"github.com/pqminh27/nurbs/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

// schemaVersion tracks the local SQLite schema. Bump it on breaking changes.
const schemaVersion = 1

var ErrNotFound = errors.New("store: no result recorded")

// Kind names what a Record holds.
type Kind string

const (
	KindCurve   Kind = "curve"
	KindSurface Kind = "surface"
)

// Record is one stored evaluation result. Payload is the JSON encoding of
// the curve samples or mesh; Params describes how it was produced.
type Record struct {
	ID        int64
	Name      string
	Kind      Kind
	Params    string
	Payload   []byte
	CreatedAt time.Time
}

type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open creates or opens the database at path, enables WAL and ensures the
// schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	l := applog.WithOperation(applog.WithComponent("store"), "open").With(slog.String("path", path))

	if strings.TrimSpace(path) == "" {
		return nil, errors.New("store path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}

	l.Debug("store ready")
	return &Store{db: db, log: applog.WithComponent("store")}, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS version (
			id         INTEGER PRIMARY KEY CHECK(id=1),
			schema     INTEGER NOT NULL,
			app        TEXT,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS results (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL,
			kind       TEXT NOT NULL,
			params     TEXT NOT NULL,
			payload    BLOB NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`DROP INDEX IF EXISTS results_name;`,
		`CREATE INDEX IF NOT EXISTS results_name_kind ON results(name, kind, id);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	var cur int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur)
	now := time.Now().UTC().Format(time.RFC3339Nano)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, updated_at) VALUES(1, ?, ?, ?)`,
			schemaVersion, version.String(), now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	case cur > schemaVersion:
		return fmt.Errorf("store schema %d is newer than supported %d", cur, schemaVersion)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Put records a valid result and returns its id.
func (s *Store) Put(ctx context.Context, r Record) (int64, error) {
	if r.Name == "" {
		return 0, errors.New("store: record name is required")
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO results (name, kind, params, payload, created_at) VALUES(?, ?, ?, ?, ?)`,
		r.Name, string(r.Kind), r.Params, r.Payload, r.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("insert result: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("result id: %w", err)
	}

	s.log.Debug("result stored", slog.String("name", r.Name), slog.Int64("id", id), slog.Int("bytes", len(r.Payload)))
	return id, nil
}

// Latest returns the most recent result of the given kind stored under name,
// or ErrNotFound. A curve and a surface may share a name.
func (s *Store) Latest(ctx context.Context, name string, kind Kind) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, kind, params, payload, created_at FROM results WHERE name = ? AND kind = ? ORDER BY id DESC LIMIT 1`,
		name, string(kind))

	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
	}
	return r, err
}

// List returns up to limit records, newest first, without payloads.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, kind, params, X'', created_at FROM results ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		r.Payload = nil
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var (
		r       Record
		kind    string
		created string
	)
	if err := sc.Scan(&r.ID, &r.Name, &kind, &r.Params, &r.Payload, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("scan result: %w", err)
	}
	r.Kind = Kind(kind)

	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Record{}, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	r.CreatedAt = t
	return r, nil
}
