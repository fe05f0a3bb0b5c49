package store

import (
	"strings"

	"github.com/rcliao/compintel/internal/model"
)

// SearchParams holds parameters for searching competitors.
type SearchParams struct {
	Query string
	Tier  model.Tier
	Limit int
}

// Search finds competitors whose name, description, market focus or log
// summaries contain the query, case-insensitively. Results keep collection
// order.
func (s *CompetitorStore) Search(p SearchParams) []model.Competitor {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}
	query := strings.ToLower(strings.TrimSpace(p.Query))

	s.mu.Lock()
	defer s.mu.Unlock()

	results := []model.Competitor{}
	for _, c := range s.competitors {
		if p.Tier != "" && c.Tier != p.Tier {
			continue
		}
		if query != "" && !matches(c, query) {
			continue
		}
		results = append(results, c.Clone())
		if len(results) == limit {
			break
		}
	}
	return results
}

func matches(c model.Competitor, query string) bool {
	fields := []string{c.Name, c.Description, c.MarketFocus}
	for _, l := range c.Logs {
		fields = append(fields, l.Summary)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}
