package model

// DiscoveredCompetitor is one competitor returned by a market scan.
type DiscoveredCompetitor struct {
	Name            string   `json:"name"`
	Website         string   `json:"website"`
	Description     string   `json:"description"`
	Tier            Tier     `json:"tier"`
	Strengths       []string `json:"strengths,omitempty"`
	Weaknesses      []string `json:"weaknesses,omitempty"`
	MarketFocus     string   `json:"marketFocus,omitempty"`
	PricingModel    string   `json:"pricingModel,omitempty"`
	MarketPresence  *int     `json:"marketPresence,omitempty"`
	InnovationScore *int     `json:"innovationScore,omitempty"`
	ComparisonNotes string   `json:"comparisonNotes,omitempty"`
}

// DeepDive is the extended research payload for a single competitor.
type DeepDive struct {
	DiscoveredCompetitor

	ThreatLevel   ThreatLevel         `json:"threatLevel,omitempty"`
	RiskFactors   []string            `json:"riskFactors,omitempty"`
	FeatureMatrix []FeatureMatrixItem `json:"featureMatrix,omitempty"`
	MarketRadar   *MarketRadar        `json:"marketRadar,omitempty"`
	KillPoints    []string            `json:"killPoints,omitempty"`
	Objections    []Objection         `json:"objections,omitempty"`
	WinThemes     []string            `json:"winThemes,omitempty"`
}

// MarketSegment groups competitors under a named market segment.
type MarketSegment struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Companies   []string `json:"companies"`
}

// MarketScan is the full result of a market discovery run.
type MarketScan struct {
	Summary     string                 `json:"summary"`
	Trends      []string               `json:"trends"`
	Segments    []MarketSegment        `json:"segments"`
	Competitors []DiscoveredCompetitor `json:"competitors"`
}

// MarketOverview is the landscape from the most recent scan. It is never
// persisted.
type MarketOverview struct {
	Summary     string          `json:"summary"`
	Trends      []string        `json:"trends"`
	Segments    []MarketSegment `json:"segments"`
	Competitors []string        `json:"competitors"`
}

// NewsItem is a news headline about a competitor.
type NewsItem struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Source  string `json:"source"`
	Date    string `json:"date"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
}
