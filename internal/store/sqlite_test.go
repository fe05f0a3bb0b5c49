package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rcliao/compintel/internal/model"
)

var testNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestBackend(t *testing.T) *SQLiteBackend {
	t.Helper()
	dir := t.TempDir()
	b, err := NewSQLiteBackend(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create backend: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

// newTestStore opens a store on a fresh SQLite file with a fixed clock.
func newTestStore(t *testing.T) *CompetitorStore {
	t.Helper()
	s, err := Open(context.Background(), newTestBackend(t), WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

// reopen loads a second store from the same backend, as a new process would.
func reopen(t *testing.T, s *CompetitorStore) *CompetitorStore {
	t.Helper()
	s2, err := Open(context.Background(), s.backend, WithKey(s.key))
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	return s2
}

func mustAdd(t *testing.T, s *CompetitorStore, p NewCompetitor) model.Competitor {
	t.Helper()
	c, err := s.Add(context.Background(), p)
	if err != nil {
		t.Fatalf("add %q: %v", p.Name, err)
	}
	if c == nil {
		t.Fatalf("add %q: expected competitor, got nil", p.Name)
	}
	return *c
}

func TestBackendGetMissing(t *testing.T) {
	b := newTestBackend(t)

	_, err := b.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBackendPutGet(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)

	if err := b.Put(ctx, "k", []byte(`[1]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := b.Put(ctx, "k", []byte(`[1,2]`)); err != nil {
		t.Fatalf("put again: %v", err)
	}

	got, err := b.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `[1,2]` {
		t.Errorf("expected latest value, got %q", got)
	}

	info, err := b.Info(ctx, "k")
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if info.Revision != 2 {
		t.Errorf("expected revision 2, got %d", info.Revision)
	}
	if info.UpdatedAt.IsZero() {
		t.Error("expected updated_at to be set")
	}
}

func TestBackendInfoUnwrittenKey(t *testing.T) {
	b := newTestBackend(t)

	info, err := b.Info(context.Background(), "never")
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if info.Revision != 0 {
		t.Errorf("expected revision 0, got %d", info.Revision)
	}
}

func TestDBPathCreation(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "dir", "test.db")
	b, err := NewSQLiteBackend(dbPath)
	if err != nil {
		t.Fatalf("create backend: %v", err)
	}
	b.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("expected db file to be created")
	}
}
