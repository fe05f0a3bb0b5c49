package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/rcliao/compintel/internal/model"
)

const (
	addSeedSummary  = "Initial AI Analysis"
	scanSeedSummary = "Initial Market Scan"
)

var monthRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// CompetitorStore owns the competitor collection and keeps it in sync with a
// Backend. Every mutation persists the full collection; a failed persist
// leaves the in-memory collection unchanged.
type CompetitorStore struct {
	mu sync.Mutex

	backend Backend
	key     string
	logger  *zap.Logger
	now     func() time.Time
	entropy io.Reader

	competitors []model.Competitor
	overview    *model.MarketOverview
	lastStamp   time.Time
}

// Option configures a CompetitorStore.
type Option func(*CompetitorStore)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *CompetitorStore) { s.key = key }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *CompetitorStore) { s.logger = l }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *CompetitorStore) { s.now = now }
}

// New creates an empty store on top of backend. Call Load to hydrate it.
func New(backend Backend, opts ...Option) *CompetitorStore {
	s := &CompetitorStore{
		backend:     backend,
		key:         DefaultKey,
		logger:      zap.NewNop(),
		now:         time.Now,
		entropy:     ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
		competitors: []model.Competitor{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a store and loads the persisted collection.
func Open(ctx context.Context, backend Backend, opts ...Option) (*CompetitorStore, error) {
	s := New(backend, opts...)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the backend.
func (s *CompetitorStore) Close() error {
	return s.backend.Close()
}

// Load replaces the in-memory collection with the persisted one. A missing
// or unparseable payload yields an empty collection.
func (s *CompetitorStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		s.competitors = []model.Competitor{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("load competitors: %w", err)
	}

	var list []model.Competitor
	if err := json.Unmarshal(data, &list); err != nil {
		s.logger.Warn("discarding unreadable competitor data",
			zap.String("key", s.key), zap.Error(err))
		s.competitors = []model.Competitor{}
		return nil
	}
	if list == nil {
		list = []model.Competitor{}
	}

	s.competitors = list
	for _, c := range list {
		for _, l := range c.Logs {
			if l.Timestamp.After(s.lastStamp) {
				s.lastStamp = l.Timestamp
			}
		}
	}
	s.logger.Debug("loaded competitors", zap.Int("count", len(list)))
	return nil
}

// Persist writes the full collection to the backend.
func (s *CompetitorStore) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx, s.competitors)
}

func (s *CompetitorStore) persistLocked(ctx context.Context, list []model.Competitor) error {
	b, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode competitors: %w", err)
	}
	if err := s.backend.Put(ctx, s.key, b); err != nil {
		return fmt.Errorf("persist competitors: %w", err)
	}
	return nil
}

// commit persists next and, only if that succeeds, makes it the current
// collection.
func (s *CompetitorStore) commit(ctx context.Context, next []model.Competitor) error {
	if err := s.persistLocked(ctx, next); err != nil {
		return err
	}
	s.competitors = next
	return nil
}

// Add appends a new competitor. An empty name is a no-op and returns nil.
func (s *CompetitorStore) Add(ctx context.Context, p NewCompetitor) (*model.Competitor, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	tier := p.Tier
	if !model.ValidTiers[tier] {
		tier = model.TierOne
	}

	c := model.Competitor{
		ID:          s.newID(now),
		Name:        name,
		Website:     strings.TrimSpace(p.Website),
		Description: strings.TrimSpace(p.Description),
		Tier:        tier,
		Logs:        []model.AnalysisLog{},
	}
	if notes := strings.TrimSpace(p.ComparisonNotes); notes != "" {
		c.Logs = append(c.Logs, s.newLog(now, monthOf(now), addSeedSummary, []string{}, notes))
	}

	next := append(slices.Clone(s.competitors), c)
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	s.logger.Info("competitor added", zap.String("id", c.ID), zap.String("name", c.Name))
	out := c.Clone()
	return &out, nil
}

// Delete removes the competitor with the given id. It reports whether a
// competitor was removed.
func (s *CompetitorStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}

	next := slices.Delete(slices.Clone(s.competitors), i, i+1)
	if err := s.commit(ctx, next); err != nil {
		return false, err
	}

	s.logger.Info("competitor deleted", zap.String("id", id))
	return true, nil
}

// AppendLog prepends a log entry to the competitor's logs. It returns nil
// when the competitor does not exist or the summary is empty.
func (s *CompetitorStore) AppendLog(ctx context.Context, id string, e LogEntry) (*model.AnalysisLog, error) {
	summary := strings.TrimSpace(e.Summary)
	if summary == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, nil
	}

	now := s.now()
	month := strings.TrimSpace(e.Month)
	if month == "" {
		month = monthOf(now)
	} else if !monthRegex.MatchString(month) {
		return nil, fmt.Errorf("append log %q: %w", month, ErrInvalidMonth)
	}

	log := s.newLog(now, month, summary, SplitKeyChanges(e.KeyChanges), strings.TrimSpace(e.ComparisonNotes))

	next := slices.Clone(s.competitors)
	c := next[i]
	c.Logs = append([]model.AnalysisLog{log}, c.Logs...)
	next[i] = c

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	s.logger.Info("log appended", zap.String("id", id), zap.String("month", month))
	out := log
	out.KeyChanges = slices.Clone(log.KeyChanges)
	return &out, nil
}

// List returns a copy of every competitor in collection order.
func (s *CompetitorStore) List() []model.Competitor {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Competitor, len(s.competitors))
	for i, c := range s.competitors {
		out[i] = c.Clone()
	}
	return out
}

// Get returns a copy of the competitor with the given id.
func (s *CompetitorStore) Get(id string) (model.Competitor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Competitor{}, false
	}
	return s.competitors[i].Clone(), true
}

// FindByName returns a copy of the competitor with exactly the given name.
func (s *CompetitorStore) FindByName(name string) (model.Competitor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.competitors {
		if c.Name == name {
			return c.Clone(), true
		}
	}
	return model.Competitor{}, false
}

// Len returns the number of competitors.
func (s *CompetitorStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.competitors)
}

func (s *CompetitorStore) indexOf(id string) int {
	return slices.IndexFunc(s.competitors, func(c model.Competitor) bool { return c.ID == id })
}

func (s *CompetitorStore) newID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

// newLog builds a log whose timestamp is strictly after every timestamp
// this store has issued or loaded.
func (s *CompetitorStore) newLog(now time.Time, month, summary string, keyChanges []string, notes string) model.AnalysisLog {
	stamp := now.UTC()
	if !stamp.After(s.lastStamp) {
		stamp = s.lastStamp.Add(time.Millisecond)
	}
	s.lastStamp = stamp

	return model.AnalysisLog{
		ID:              s.newID(now),
		Month:           month,
		Summary:         summary,
		KeyChanges:      keyChanges,
		ComparisonNotes: notes,
		Timestamp:       stamp,
	}
}

func monthOf(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// SplitKeyChanges splits multi-line input into one entry per non-blank line.
func SplitKeyChanges(text string) []string {
	changes := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			changes = append(changes, line)
		}
	}
	return changes
}
