// Package model defines the competitive-intelligence data types.
package model

import (
	"slices"
	"time"
)

// Tier is the market tier of a competitor.
type Tier string

const (
	TierOne   Tier = "Tier 1"
	TierTwo   Tier = "Tier 2"
	TierNiche Tier = "Niche"
)

// ThreatLevel is the deep-dive threat rating of a competitor.
type ThreatLevel string

const (
	ThreatCritical ThreatLevel = "Critical"
	ThreatHigh     ThreatLevel = "High"
	ThreatMedium   ThreatLevel = "Medium"
	ThreatLow      ThreatLevel = "Low"
)

// Competitor is a tracked market entity.
type Competitor struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Website     string   `json:"website"`
	Description string   `json:"description"`
	Tier        Tier     `json:"tier"`
	Strengths   []string `json:"strengths,omitempty"`
	Weaknesses  []string `json:"weaknesses,omitempty"`

	MarketFocus     string `json:"marketFocus,omitempty"`
	PricingModel    string `json:"pricingModel,omitempty"`
	MarketPresence  *int   `json:"marketPresence,omitempty"`  // 0-100
	InnovationScore *int   `json:"innovationScore,omitempty"` // 0-100

	// Deep dive
	ThreatLevel   ThreatLevel         `json:"threatLevel,omitempty"`
	RiskFactors   []string            `json:"riskFactors,omitempty"`
	FeatureMatrix []FeatureMatrixItem `json:"featureMatrix,omitempty"`
	MarketRadar   *MarketRadar        `json:"marketRadar,omitempty"`

	// Battle card
	KillPoints []string    `json:"killPoints,omitempty"`
	Objections []Objection `json:"objections,omitempty"`
	WinThemes  []string    `json:"winThemes,omitempty"`

	// Newest first.
	Logs []AnalysisLog `json:"logs"`
}

// AnalysisLog is a dated observation about a competitor.
type AnalysisLog struct {
	ID              string    `json:"id"`
	Month           string    `json:"month"` // YYYY-MM
	Summary         string    `json:"summary"`
	KeyChanges      []string  `json:"keyChanges"`
	ComparisonNotes string    `json:"comparisonNotes"`
	Timestamp       time.Time `json:"timestamp"`
}

// FeatureMatrixItem compares one feature between our product and a competitor.
type FeatureMatrixItem struct {
	Feature       string `json:"feature"`
	OwnHas        bool   `json:"ownHas"`
	CompetitorHas bool   `json:"competitorHas"`
	Note          string `json:"note,omitempty"`
}

// MarketRadar holds five 0-10 scores.
type MarketRadar struct {
	PricingPressure     int `json:"pricingPressure"`
	FeatureCompleteness int `json:"featureCompleteness"`
	MarketPresence      int `json:"marketPresence"`
	InnovationSpeed     int `json:"innovationSpeed"`
	BrandStrength       int `json:"brandStrength"`
}

// Objection is a competitor claim paired with our rebuttal.
type Objection struct {
	Claim    string `json:"claim"`
	Rebuttal string `json:"rebuttal"`
}

// ValidTiers are the allowed tiers.
var ValidTiers = map[Tier]bool{
	TierOne:   true,
	TierTwo:   true,
	TierNiche: true,
}

// ValidThreatLevels are the allowed threat levels.
var ValidThreatLevels = map[ThreatLevel]bool{
	ThreatCritical: true,
	ThreatHigh:     true,
	ThreatMedium:   true,
	ThreatLow:      true,
}

// Score returns a pointer to v, for the optional score fields.
func Score(v int) *int {
	return &v
}

// Clone returns a deep copy of c.
func (c Competitor) Clone() Competitor {
	out := c
	out.Strengths = slices.Clone(c.Strengths)
	out.Weaknesses = slices.Clone(c.Weaknesses)
	out.MarketPresence = clonePtr(c.MarketPresence)
	out.InnovationScore = clonePtr(c.InnovationScore)
	out.RiskFactors = slices.Clone(c.RiskFactors)
	out.FeatureMatrix = slices.Clone(c.FeatureMatrix)
	out.MarketRadar = clonePtr(c.MarketRadar)
	out.KillPoints = slices.Clone(c.KillPoints)
	out.Objections = slices.Clone(c.Objections)
	out.WinThemes = slices.Clone(c.WinThemes)
	if c.Logs != nil {
		out.Logs = make([]AnalysisLog, len(c.Logs))
		for i, l := range c.Logs {
			l.KeyChanges = slices.Clone(l.KeyChanges)
			out.Logs[i] = l
		}
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
