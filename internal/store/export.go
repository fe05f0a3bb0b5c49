package store

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rcliao/compintel/internal/model"
)

// Export returns a copy of the whole collection.
func (s *CompetitorStore) Export() []model.Competitor {
	return s.List()
}

// Import replaces the collection with competitors from an export. The input
// is validated first: ids must be present and unique, names present, and
// logs newest-first. Nothing changes when validation fails.
func (s *CompetitorStore) Import(ctx context.Context, competitors []model.Competitor) (int, error) {
	if err := validateImport(competitors); err != nil {
		return 0, err
	}

	next := make([]model.Competitor, len(competitors))
	for i, c := range competitors {
		c = c.Clone()
		if c.Logs == nil {
			c.Logs = []model.AnalysisLog{}
		}
		next[i] = c
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commit(ctx, next); err != nil {
		return 0, err
	}
	for _, c := range next {
		for _, l := range c.Logs {
			if l.Timestamp.After(s.lastStamp) {
				s.lastStamp = l.Timestamp
			}
		}
	}

	s.logger.Info("competitors imported", zap.Int("count", len(next)))
	return len(next), nil
}

func validateImport(competitors []model.Competitor) error {
	seen := make(map[string]bool, len(competitors))
	for i, c := range competitors {
		if c.ID == "" {
			return fmt.Errorf("import: competitor %d has no id", i)
		}
		if seen[c.ID] {
			return fmt.Errorf("import: duplicate id %q", c.ID)
		}
		seen[c.ID] = true
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("import: competitor %q has no name", c.ID)
		}
		for j := 1; j < len(c.Logs); j++ {
			if c.Logs[j].Timestamp.After(c.Logs[j-1].Timestamp) {
				return fmt.Errorf("import: logs of %q are not newest-first", c.ID)
			}
		}
	}
	return nil
}
