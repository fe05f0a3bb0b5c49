// Package store provides the competitor store and its durable backends.
package store

import (
	"context"
	"errors"

	"github.com/rcliao/compintel/internal/model"
)

// DefaultKey is the storage key the competitor collection is persisted under.
const DefaultKey = "neil_competitors"

// ErrNotFound is returned by a Backend when a key has no stored value.
var ErrNotFound = errors.New("not found")

// ErrInvalidMonth is returned when a log month is not in YYYY-MM form.
var ErrInvalidMonth = errors.New("month must be YYYY-MM")

// Backend is durable key/value storage for the serialized collection.
type Backend interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Close releases the backend.
	Close() error
}

// NewCompetitor holds parameters for adding a competitor.
type NewCompetitor struct {
	Name            string
	Website         string
	Description     string
	Tier            model.Tier
	ComparisonNotes string // seeds an initial log when set
}

// LogEntry holds parameters for appending an analysis log.
type LogEntry struct {
	Month           string // YYYY-MM, defaults to the current month
	Summary         string
	KeyChanges      string // one change per line
	ComparisonNotes string
}

// MergeResult reports what a market-scan merge changed.
type MergeResult struct {
	Updated int `json:"updated"`
	Added   int `json:"added"`
}
