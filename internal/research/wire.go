package research

import (
	"math"

	"github.com/rcliao/compintel/internal/model"
)

type researchRequest struct {
	CompetitorName string `json:"competitor_name"`
}

type discoverResponse struct {
	MarketSummary string                `json:"market_summary"`
	Trends        []string              `json:"trends"`
	Segments      []model.MarketSegment `json:"segments"`
	Competitors   []wireCompetitor      `json:"competitors"`
}

type newsResponse struct {
	News []model.NewsItem `json:"news"`
}

type wireCompetitor struct {
	Name            string   `json:"name"`
	Website         string   `json:"website"`
	Description     string   `json:"description"`
	Tier            string   `json:"tier"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	MarketFocus     string   `json:"market_focus"`
	PricingModel    string   `json:"pricing_model"`
	MarketPresence  *float64 `json:"market_presence"`
	InnovationScore *float64 `json:"innovation_score"`
	NeilComparison  string   `json:"neil_comparison"`
}

type wireDeepDive struct {
	wireCompetitor

	ThreatLevel   string            `json:"threat_level"`
	RiskFactors   []string          `json:"risk_factors"`
	FeatureMatrix []wireFeature     `json:"feature_matrix"`
	MarketRadar   *wireRadar        `json:"market_radar"`
	KillPoints    []string          `json:"kill_points"`
	Objections    []model.Objection `json:"objections"`
	WinThemes     []string          `json:"win_themes"`
}

type wireFeature struct {
	Feature       string `json:"feature"`
	CompetitorHas bool   `json:"competitor_has"`
	NeilHas       bool   `json:"neil_has"`
	Note          string `json:"note"`
}

type wireRadar struct {
	PricingPressure     *float64 `json:"pricing_pressure"`
	FeatureCompleteness *float64 `json:"feature_completeness"`
	MarketPresence      *float64 `json:"market_presence"`
	InnovationSpeed     *float64 `json:"innovation_speed"`
	BrandStrength       *float64 `json:"brand_strength"`
}

// empty reports whether no radar score was sent, as in the fallback `{}`.
func (r *wireRadar) empty() bool {
	return r.PricingPressure == nil && r.FeatureCompleteness == nil &&
		r.MarketPresence == nil && r.InnovationSpeed == nil && r.BrandStrength == nil
}

func (w wireCompetitor) toModel() model.DiscoveredCompetitor {
	return model.DiscoveredCompetitor{
		Name:            w.Name,
		Website:         w.Website,
		Description:     w.Description,
		Tier:            model.Tier(w.Tier),
		Strengths:       w.Strengths,
		Weaknesses:      w.Weaknesses,
		MarketFocus:     w.MarketFocus,
		PricingModel:    w.PricingModel,
		MarketPresence:  percent(w.MarketPresence),
		InnovationScore: percent(w.InnovationScore),
		ComparisonNotes: w.NeilComparison,
	}
}

func (w wireDeepDive) toModel() model.DeepDive {
	dd := model.DeepDive{
		DiscoveredCompetitor: w.wireCompetitor.toModel(),
		RiskFactors:          w.RiskFactors,
		KillPoints:           w.KillPoints,
		Objections:           w.Objections,
		WinThemes:            w.WinThemes,
	}
	if level := model.ThreatLevel(w.ThreatLevel); model.ValidThreatLevels[level] {
		dd.ThreatLevel = level
	}
	for _, f := range w.FeatureMatrix {
		dd.FeatureMatrix = append(dd.FeatureMatrix, model.FeatureMatrixItem{
			Feature:       f.Feature,
			OwnHas:        f.NeilHas,
			CompetitorHas: f.CompetitorHas,
			Note:          f.Note,
		})
	}
	if r := w.MarketRadar; r != nil && !r.empty() {
		dd.MarketRadar = &model.MarketRadar{
			PricingPressure:     radarScore(r.PricingPressure),
			FeatureCompleteness: radarScore(r.FeatureCompleteness),
			MarketPresence:      radarScore(r.MarketPresence),
			InnovationSpeed:     radarScore(r.InnovationSpeed),
			BrandStrength:       radarScore(r.BrandStrength),
		}
	}
	return dd
}

func percent(v *float64) *int {
	if v == nil {
		return nil
	}
	return model.Score(clamp(*v, 100))
}

func radarScore(v *float64) int {
	if v == nil {
		return 0
	}
	return clamp(*v, 10)
}

// clamp rounds v into [0, hi]. Bounds are checked before converting so
// huge values cannot overflow int.
func clamp(v float64, hi int) int {
	v = math.Round(v)
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= float64(hi):
		return hi
	}
	return int(v)
}
