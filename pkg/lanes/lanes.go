// Package lanes assigns vertical routing corridors to referenced labels.
//
// Labels are visited in first-seen reference order. The n-th resolved label
// (counting from zero) gets
//
//	x = left edge of its definition's box − Margin − n×Gap
//
// clamped to MinX. Unresolved labels get no lane. [Config.Gutter] returns the
// box offset that keeps every lane above MinX, so with a gutter of that size
// the lanes are strictly decreasing and never clamp.
package lanes

import (
	"github.com/LMascagni/simasm/pkg/refgraph"
)

// Config holds lane spacing.
type Config struct {
	Margin float64
	Gap    float64
	MinX   float64
}

// DefaultConfig returns the standard lane spacing.
func DefaultConfig() Config {
	return Config{Margin: 16, Gap: 10, MinX: 6}
}

// Gutter returns the smallest box left edge that fits n lanes without
// clamping, plus one margin of breathing room on the far side.
func (c Config) Gutter(n int) float64 {
	return c.MinX + 2*c.Margin + float64(max(n-1, 0))*c.Gap
}

// Lane is the corridor of one label.
type Lane struct {
	Label     string  `json:"label"`
	X         float64 `json:"x"`
	Discovery int     `json:"discovery"`
}

// Set is the result of an allocation.
type Set struct {
	Lanes   []Lane
	byLabel map[string]int
}

// Lane returns the lane of label.
func (s *Set) Lane(label string) (Lane, bool) {
	i, ok := s.byLabel[label]
	if !ok {
		return Lane{}, false
	}
	return s.Lanes[i], true
}

// Len returns the number of lanes.
func (s *Set) Len() int { return len(s.Lanes) }

// BoxLocator reports the left edge of a section's box.
type BoxLocator interface {
	BoxLeft(section int) (float64, bool)
}

// Count returns how many lanes Allocate will produce for g.
func Count(g *refgraph.Graph) int {
	n := 0
	for _, name := range g.Order {
		if g.Resolved(name) {
			n++
		}
	}
	return n
}

// Allocate assigns a lane to every resolved label of g.
func Allocate(g *refgraph.Graph, boxes BoxLocator, cfg Config) *Set {
	s := &Set{byLabel: make(map[string]int)}
	for _, name := range g.Order {
		def, ok := g.Definitions[name]
		if !ok {
			continue
		}
		left, ok := boxes.BoxLeft(def.Section)
		if !ok {
			continue
		}
		d := len(s.Lanes)
		x := left - cfg.Margin - float64(d)*cfg.Gap
		if d > 0 {
			x = min(x, s.Lanes[d-1].X-cfg.Gap)
		}
		s.byLabel[name] = d
		s.Lanes = append(s.Lanes, Lane{Label: name, X: max(x, cfg.MinX), Discovery: d})
	}
	return s
}
