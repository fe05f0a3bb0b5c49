package store

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/rcliao/compintel/internal/model"
)

// MergeScanResults folds discovered competitors into the collection.
//
// Existing competitors whose name exactly matches a discovered one get its
// market presence, innovation score, market focus and pricing model; their
// id, logs and manually entered fields are kept. Unseen names are appended
// in discovery order, each seeded with an "Initial Market Scan" log.
// Nothing is ever removed.
func (s *CompetitorStore) MergeScanResults(ctx context.Context, discovered []model.DiscoveredCompetitor) (MergeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, next := s.merge(discovered)
	if err := s.commit(ctx, next); err != nil {
		return MergeResult{}, err
	}

	s.logger.Info("scan merged", zap.Int("updated", res.Updated), zap.Int("added", res.Added))
	return res, nil
}

// ApplyScan replaces the market overview and merges the scan's competitors.
func (s *CompetitorStore) ApplyScan(ctx context.Context, scan model.MarketScan) (MergeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, next := s.merge(scan.Competitors)
	if err := s.commit(ctx, next); err != nil {
		return MergeResult{}, err
	}

	names := make([]string, 0, len(scan.Competitors))
	for _, d := range scan.Competitors {
		names = append(names, d.Name)
	}
	segments := make([]model.MarketSegment, len(scan.Segments))
	for i, seg := range scan.Segments {
		seg.Companies = slices.Clone(seg.Companies)
		segments[i] = seg
	}
	s.overview = &model.MarketOverview{
		Summary:     scan.Summary,
		Trends:      slices.Clone(scan.Trends),
		Segments:    segments,
		Competitors: names,
	}

	s.logger.Info("scan applied",
		zap.Int("discovered", len(scan.Competitors)),
		zap.Int("updated", res.Updated), zap.Int("added", res.Added))
	return res, nil
}

// Overview returns the market overview from the most recent scan in this
// process.
func (s *CompetitorStore) Overview() (model.MarketOverview, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.overview == nil {
		return model.MarketOverview{}, false
	}
	out := *s.overview
	out.Trends = slices.Clone(out.Trends)
	out.Competitors = slices.Clone(out.Competitors)
	out.Segments = make([]model.MarketSegment, len(s.overview.Segments))
	for i, seg := range s.overview.Segments {
		seg.Companies = slices.Clone(seg.Companies)
		out.Segments[i] = seg
	}
	return out, true
}

func (s *CompetitorStore) merge(discovered []model.DiscoveredCompetitor) (MergeResult, []model.Competitor) {
	var res MergeResult

	// Later duplicates win, first position is kept.
	byName := make(map[string]model.DiscoveredCompetitor, len(discovered))
	var order []string
	for _, d := range discovered {
		if strings.TrimSpace(d.Name) == "" {
			continue
		}
		if _, seen := byName[d.Name]; !seen {
			order = append(order, d.Name)
		}
		byName[d.Name] = d
	}

	next := make([]model.Competitor, 0, len(s.competitors)+len(order))
	existing := make(map[string]bool, len(s.competitors))
	taken := make(map[string]bool, len(s.competitors))
	for _, c := range s.competitors {
		existing[c.Name] = true
		taken[c.ID] = true
		if d, ok := byName[c.Name]; ok {
			c.MarketPresence = clampPercent(d.MarketPresence)
			c.InnovationScore = clampPercent(d.InnovationScore)
			c.MarketFocus = d.MarketFocus
			c.PricingModel = d.PricingModel
			res.Updated++
		}
		next = append(next, c)
	}

	now := s.now()
	for _, name := range order {
		if existing[name] {
			continue
		}
		d := byName[name]
		id := uniqueID(Slug(name), taken)
		taken[id] = true

		tier := d.Tier
		if !model.ValidTiers[tier] {
			tier = model.TierOne
		}
		next = append(next, model.Competitor{
			ID:              id,
			Name:            d.Name,
			Website:         d.Website,
			Description:     d.Description,
			Tier:            tier,
			Strengths:       slices.Clone(d.Strengths),
			Weaknesses:      slices.Clone(d.Weaknesses),
			MarketFocus:     d.MarketFocus,
			PricingModel:    d.PricingModel,
			MarketPresence:  clampPercent(d.MarketPresence),
			InnovationScore: clampPercent(d.InnovationScore),
			Logs: []model.AnalysisLog{
				s.newLog(now, monthOf(now), scanSeedSummary, []string{}, d.ComparisonNotes),
			},
		})
		res.Added++
	}

	return res, next
}

// RefreshResearch overlays a deep-dive payload onto an existing competitor
// and rewrites the comparison notes of its newest log. It never adds a log.
// It reports whether the competitor exists.
func (s *CompetitorStore) RefreshResearch(ctx context.Context, id string, dd model.DeepDive) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}

	next := slices.Clone(s.competitors)
	c := next[i]

	c.Description = dd.Description
	if model.ValidTiers[dd.Tier] {
		c.Tier = dd.Tier
	}
	c.Strengths = slices.Clone(dd.Strengths)
	c.Weaknesses = slices.Clone(dd.Weaknesses)
	c.MarketFocus = dd.MarketFocus
	c.PricingModel = dd.PricingModel
	c.MarketPresence = clampPercent(dd.MarketPresence)
	c.InnovationScore = clampPercent(dd.InnovationScore)

	c.ThreatLevel = ""
	if model.ValidThreatLevels[dd.ThreatLevel] {
		c.ThreatLevel = dd.ThreatLevel
	}
	c.RiskFactors = slices.Clone(dd.RiskFactors)
	c.FeatureMatrix = slices.Clone(dd.FeatureMatrix)
	c.MarketRadar = nil
	if dd.MarketRadar != nil {
		r := *dd.MarketRadar
		c.MarketRadar = &r
	}

	c.KillPoints = slices.Clone(dd.KillPoints)
	c.Objections = slices.Clone(dd.Objections)
	c.WinThemes = slices.Clone(dd.WinThemes)

	if len(c.Logs) > 0 {
		logs := slices.Clone(c.Logs)
		logs[0].ComparisonNotes = dd.ComparisonNotes
		c.Logs = logs
	}

	next[i] = c
	if err := s.commit(ctx, next); err != nil {
		return false, err
	}

	s.logger.Info("research refreshed", zap.String("id", id), zap.String("name", c.Name))
	return true, nil
}

// Slug lower-cases name and joins its words with hyphens.
func Slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

func uniqueID(base string, taken map[string]bool) string {
	if !taken[base] {
		return base
	}
	for n := 2; ; n++ {
		id := base + "-" + strconv.Itoa(n)
		if !taken[id] {
			return id
		}
	}
}

func clampPercent(p *int) *int {
	if p == nil {
		return nil
	}
	v := min(max(*p, 0), 100)
	return &v
}
