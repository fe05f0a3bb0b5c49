package store

import (
	"context"
	"sort"
	"time"
)

// Stats holds collection statistics.
type Stats struct {
	DBPath           string        `json:"db_path,omitempty"`
	DBSizeBytes      int64         `json:"db_size_bytes,omitempty"`
	Revision         int           `json:"revision"`
	UpdatedAt        *time.Time    `json:"updated_at,omitempty"`
	TotalCompetitors int           `json:"total_competitors"`
	TotalLogs        int           `json:"total_logs"`
	Tiers            []CountByName `json:"tiers"`
	ThreatLevels     []CountByName `json:"threat_levels"`
}

// CountByName is a named count.
type CountByName struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type infoBackend interface {
	Info(ctx context.Context, key string) (*BackendInfo, error)
}

// Stats returns collection statistics. Storage details are included when the
// backend can report them.
func (s *CompetitorStore) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{}

	if ib, ok := s.backend.(infoBackend); ok {
		info, err := ib.Info(ctx, s.key)
		if err != nil {
			return nil, err
		}
		st.DBPath = info.Path
		st.DBSizeBytes = info.SizeBytes
		st.Revision = info.Revision
		if !info.UpdatedAt.IsZero() {
			t := info.UpdatedAt
			st.UpdatedAt = &t
		}
	}

	s.mu.Lock()
	tiers := map[string]int{}
	threats := map[string]int{}
	for _, c := range s.competitors {
		st.TotalCompetitors++
		st.TotalLogs += len(c.Logs)
		tiers[string(c.Tier)]++
		level := string(c.ThreatLevel)
		if level == "" {
			level = "Unrated"
		}
		threats[level]++
	}
	s.mu.Unlock()

	st.Tiers = sortedCounts(tiers)
	st.ThreatLevels = sortedCounts(threats)
	return st, nil
}

// sortedCounts orders counts descending, then by name.
func sortedCounts(m map[string]int) []CountByName {
	out := make([]CountByName, 0, len(m))
	for name, n := range m {
		out = append(out, CountByName{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
