package store

import (
	"math"
	"sort"

	"github.com/rcliao/compintel/internal/model"
)

// RankParams holds parameters for threat ranking.
type RankParams struct {
	Tier  model.Tier
	Limit int
}

// RankedCompetitor is a scored competitor for threat ranking output.
type RankedCompetitor struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Tier        model.Tier        `json:"tier"`
	ThreatLevel model.ThreatLevel `json:"threatLevel,omitempty"`
	Score       float64           `json:"score"`
	LastLog     string            `json:"lastLog,omitempty"` // month of the newest log
}

// Rank orders competitors by a composite threat score, highest first.
func (s *CompetitorStore) Rank(p RankParams) []RankedCompetitor {
	limit := p.Limit
	if limit <= 0 {
		limit = 10
	}

	s.mu.Lock()
	now := s.now()
	candidates := make([]RankedCompetitor, 0, len(s.competitors))
	for _, c := range s.competitors {
		if p.Tier != "" && c.Tier != p.Tier {
			continue
		}

		threat := threatScore(c.ThreatLevel)
		presence := percentScore(c.MarketPresence)
		innovation := percentScore(c.InnovationScore)

		// Recency: exponential decay over months since the newest log
		recency := 0.0
		r := RankedCompetitor{ID: c.ID, Name: c.Name, Tier: c.Tier, ThreatLevel: c.ThreatLevel}
		if len(c.Logs) > 0 {
			age := now.Sub(c.Logs[0].Timestamp).Hours() / 24.0 / 30.0
			recency = math.Exp(-0.1 * math.Max(age, 0))
			r.LastLog = c.Logs[0].Month
		}

		score := threat*0.4 + presence*0.25 + innovation*0.25 + recency*0.1
		r.Score = math.Round(score*100) / 100
		candidates = append(candidates, r)
	}
	s.mu.Unlock()

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Name < candidates[j].Name
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

func threatScore(t model.ThreatLevel) float64 {
	switch t {
	case model.ThreatCritical:
		return 1.0
	case model.ThreatHigh:
		return 0.75
	case model.ThreatMedium:
		return 0.5
	case model.ThreatLow:
		return 0.25
	default:
		return 0.5
	}
}

func percentScore(p *int) float64 {
	if p == nil {
		return 0.5
	}
	return float64(*p) / 100
}
