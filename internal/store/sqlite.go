package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteBackend implements Backend using a SQLite key/value table.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

// BackendInfo describes the stored value under one key.
type BackendInfo struct {
	Path      string    `json:"db_path"`
	SizeBytes int64     `json:"db_size_bytes"`
	Revision  int       `json:"revision"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// NewSQLiteBackend opens or creates a SQLite database at the given path.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	b := &SQLiteBackend{db: db, path: dbPath}
	if err := b.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return b, nil
}

func (b *SQLiteBackend) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		revision   INTEGER NOT NULL DEFAULT 1,
		updated_at TEXT NOT NULL
	);
	`
	_, err := b.db.Exec(schema)
	return err
}

// Path returns the database file path.
func (b *SQLiteBackend) Path() string {
	return b.path
}

func (b *SQLiteBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := b.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return []byte(value), nil
}

func (b *SQLiteBackend) Put(ctx context.Context, key string, value []byte) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, revision, updated_at) VALUES (?, ?, 1, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   value = excluded.value,
		   revision = kv.revision + 1,
		   updated_at = excluded.updated_at`,
		key, string(value), now)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Info returns the revision and file size for key. A key that was never
// written reports revision 0.
func (b *SQLiteBackend) Info(ctx context.Context, key string) (*BackendInfo, error) {
	info := &BackendInfo{Path: b.path}

	if st, err := os.Stat(b.path); err == nil {
		info.SizeBytes = st.Size()
	}

	var updatedAt string
	err := b.db.QueryRowContext(ctx,
		`SELECT revision, updated_at FROM kv WHERE key = ?`, key).Scan(&info.Revision, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return info, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s info: %w", key, err)
	}
	info.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return info, nil
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
