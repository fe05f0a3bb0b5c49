// Package landscape places competitors on the presence/innovation quadrant
// and maps them to market segments.
package landscape

import (
	"github.com/rcliao/compintel/internal/model"
)

// Quadrant names.
const (
	Leaders      = "Leaders"
	Disruptors   = "Disruptors"
	Contenders   = "Contenders"
	NichePlayers = "Niche Players"
)

// midpoint splits both axes and is used for missing scores.
const midpoint = 50

// Point is one competitor on the quadrant.
type Point struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Tier     model.Tier `json:"tier"`
	X        int        `json:"x"`
	Y        int        `json:"y"`
	Quadrant string     `json:"quadrant"`
}

// Quadrant plots competitors with market presence on x and innovation on y.
// A missing or zero score sits on the midpoint.
func Quadrant(competitors []model.Competitor) []Point {
	out := make([]Point, 0, len(competitors))
	for _, c := range competitors {
		x, y := axis(c.MarketPresence), axis(c.InnovationScore)
		out = append(out, Point{
			ID:       c.ID,
			Name:     c.Name,
			Tier:     c.Tier,
			X:        x,
			Y:        y,
			Quadrant: classify(x, y),
		})
	}
	return out
}

// Counts tallies points per quadrant. All four quadrants are present.
func Counts(points []Point) map[string]int {
	out := map[string]int{Leaders: 0, Disruptors: 0, Contenders: 0, NichePlayers: 0}
	for _, p := range points {
		out[p.Quadrant]++
	}
	return out
}

// SegmentOf returns the names of the overview segments that list name.
func SegmentOf(overview model.MarketOverview, name string) []string {
	var out []string
	for _, seg := range overview.Segments {
		for _, company := range seg.Companies {
			if company == name {
				out = append(out, seg.Name)
				break
			}
		}
	}
	return out
}

func axis(v *int) int {
	if v == nil || *v == 0 {
		return midpoint
	}
	return *v
}

func classify(x, y int) string {
	switch {
	case x >= midpoint && y >= midpoint:
		return Leaders
	case y >= midpoint:
		return Disruptors
	case x >= midpoint:
		return Contenders
	default:
		return NichePlayers
	}
}
