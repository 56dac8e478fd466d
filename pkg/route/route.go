// Package route computes orthogonal connector paths from label references to
// their definitions.
//
// Every path has four waypoints and three segments: horizontal from the
// reference anchor to the lane, vertical along the lane, horizontal into the
// definition anchor. Anchors sit [Config.Inset] pixels inside the left edge of
// the token's bounding box, at its vertical midpoint.
package route

import (
	"math"

	"github.com/LMascagni/simasm/pkg/errors"
	"github.com/LMascagni/simasm/pkg/lanes"
	"github.com/LMascagni/simasm/pkg/layout"
	"github.com/LMascagni/simasm/pkg/refgraph"
)

// Config tunes anchor placement and overlap avoidance.
type Config struct {
	Inset float64
	// Offset shifts the vertical segment of the i-th reference to a label by
	// a multiple of Offset when another reference to that label sits within
	// Near pixels vertically. The shift wraps once it would exceed MaxOffset,
	// which must stay below the lane gap.
	Offset    float64
	MaxOffset float64
	Near      float64
}

// DefaultConfig returns the standard routing parameters for the default
// lane gap and line height.
func DefaultConfig() Config {
	return Config{Inset: 2, Offset: 3, MaxOffset: 6, Near: 20}
}

// Point is a waypoint.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Path is a routed connector.
type Path struct {
	Label     string              `json:"label"`
	Ref       refgraph.Reference  `json:"ref"`
	Def       refgraph.Definition `json:"def"`
	Lane      lanes.Lane          `json:"lane"`
	SameBox   bool                `json:"same_box"`
	Waypoints []Point             `json:"waypoints"`
}

// From returns the reference anchor.
func (p Path) From() Point { return p.Waypoints[0] }

// To returns the definition anchor.
func (p Path) To() Point { return p.Waypoints[len(p.Waypoints)-1] }

// Segments returns the number of segments.
func (p Path) Segments() int { return len(p.Waypoints) - 1 }

// Locator returns the bounding box of a label token by anchor key.
type Locator interface {
	Anchor(key string) (layout.Rect, bool)
}

// AnchorPoint returns the connection point of r.
func AnchorPoint(r layout.Rect, inset float64) Point {
	return Point{X: r.X + inset, Y: r.MidY()}
}

// Route returns one path per reference whose label has a lane, in lane order
// and then reference order. It fails when a token has no geometry.
func Route(g *refgraph.Graph, ls *lanes.Set, loc Locator, cfg Config) ([]Path, error) {
	var paths []Path
	for _, lane := range ls.Lanes {
		def := g.Definitions[lane.Label]
		dr, ok := loc.Anchor(def.AnchorKey())
		if !ok {
			return nil, errors.New(errors.ErrCodeLayoutFailed, "no geometry for definition %s", def.AnchorKey())
		}
		to := AnchorPoint(dr, cfg.Inset)

		refs := g.References[lane.Label]
		from := make([]Point, len(refs))
		for i, ref := range refs {
			rr, ok := loc.Anchor(ref.AnchorKey)
			if !ok {
				return nil, errors.New(errors.ErrCodeLayoutFailed, "no geometry for reference %s", ref.AnchorKey)
			}
			from[i] = AnchorPoint(rr, cfg.Inset)
		}

		for i, ref := range refs {
			x := lane.X
			if crowded(from, i, cfg.Near) {
				x += offset(ref.Index, cfg)
			}
			paths = append(paths, Path{
				Label:   lane.Label,
				Ref:     ref,
				Def:     def,
				Lane:    lane,
				SameBox: ref.Section == def.Section,
				Waypoints: []Point{
					from[i],
					{X: x, Y: from[i].Y},
					{X: x, Y: to.Y},
					to,
				},
			})
		}
	}
	return paths, nil
}

func crowded(from []Point, i int, near float64) bool {
	for j, p := range from {
		if j != i && math.Abs(p.Y-from[i].Y) < near {
			return true
		}
	}
	return false
}

func offset(index int, cfg Config) float64 {
	if cfg.Offset <= 0 {
		return 0
	}
	steps := int(cfg.MaxOffset/cfg.Offset) + 1
	return float64(index%steps) * cfg.Offset
}
