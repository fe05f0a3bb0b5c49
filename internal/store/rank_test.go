package store

import (
	"context"
	"testing"

	"github.com/rcliao/compintel/internal/model"
)

func TestRankBasic(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.MergeScanResults(ctx, []model.DiscoveredCompetitor{
		{Name: "Giant", MarketPresence: model.Score(95), InnovationScore: model.Score(80)},
		{Name: "Minnow", MarketPresence: model.Score(5), InnovationScore: model.Score(10)},
	})

	ranked := s.Rank(RankParams{})
	if len(ranked) != 2 {
		t.Fatalf("expected 2 ranked, got %d", len(ranked))
	}
	if ranked[0].Name != "Giant" {
		t.Errorf("expected Giant first, got %s", ranked[0].Name)
	}
	if ranked[0].Score <= ranked[1].Score {
		t.Errorf("expected descending scores, got %v then %v", ranked[0].Score, ranked[1].Score)
	}
	if ranked[0].LastLog != "2025-03" {
		t.Errorf("expected last log month, got %q", ranked[0].LastLog)
	}
}

func TestRankThreatBoosting(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	low := mustAdd(t, s, NewCompetitor{Name: "Low"})
	critical := mustAdd(t, s, NewCompetitor{Name: "Critical"})
	s.RefreshResearch(ctx, low.ID, model.DeepDive{ThreatLevel: model.ThreatLow})
	s.RefreshResearch(ctx, critical.ID, model.DeepDive{ThreatLevel: model.ThreatCritical})

	ranked := s.Rank(RankParams{})
	if ranked[0].ID != critical.ID {
		t.Errorf("expected critical first, got %s", ranked[0].Name)
	}
}

func TestRankLimitAndTier(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, NewCompetitor{Name: "A", Tier: model.TierNiche})
	mustAdd(t, s, NewCompetitor{Name: "B", Tier: model.TierNiche})
	mustAdd(t, s, NewCompetitor{Name: "C", Tier: model.TierOne})

	if got := s.Rank(RankParams{Limit: 1}); len(got) != 1 {
		t.Errorf("expected 1 ranked, got %d", len(got))
	}

	got := s.Rank(RankParams{Tier: model.TierNiche})
	if len(got) != 2 {
		t.Fatalf("expected 2 niche, got %d", len(got))
	}
	// Equal scores fall back to name order.
	if got[0].Name != "A" || got[1].Name != "B" {
		t.Errorf("expected name order on ties, got %s, %s", got[0].Name, got[1].Name)
	}
}

func TestRankEmpty(t *testing.T) {
	s := newTestStore(t)

	if got := s.Rank(RankParams{}); len(got) != 0 {
		t.Errorf("expected empty ranking, got %d", len(got))
	}
}
