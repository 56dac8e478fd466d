package route

import (
	"testing"

	"github.com/LMascagni/simasm/pkg/lanes"
	"github.com/LMascagni/simasm/pkg/layout"
	"github.com/LMascagni/simasm/pkg/refgraph"
	"github.com/LMascagni/simasm/pkg/section"
	"github.com/LMascagni/simasm/pkg/source"
	"github.com/LMascagni/simasm/pkg/token"
)

const scenario = "; --- INIT ---\nSTART: LDWI R0, 5\n JMP START\n; --- LOOP ---\n JMP START"

type chart struct {
	graph *refgraph.Graph
	geom  *layout.Geometry
	lanes *lanes.Set
}

func prepare(text string) chart {
	secs := token.TokenizeAll(section.Extract(source.New("t.asm", text)))
	g := refgraph.Build(secs)
	lc := lanes.DefaultConfig()
	cfg := layout.DefaultConfig()
	cfg.Left = lc.Gutter(lanes.Count(g))
	geom := layout.Compute(secs, layout.CellMeasurer{Width: 7}, cfg)
	return chart{graph: g, geom: geom, lanes: lanes.Allocate(g, geom, lc)}
}

func TestRouteScenario(t *testing.T) {
	c := prepare(scenario)
	paths, err := Route(c.graph, c.lanes, c.geom, DefaultConfig())
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(paths))
	}
	if !paths[0].SameBox || paths[1].SameBox {
		t.Errorf("SameBox = %v, %v, want true, false", paths[0].SameBox, paths[1].SameBox)
	}
	for i, p := range paths {
		if p.Lane.Label != "START" {
			t.Errorf("path %d lane = %q", i, p.Lane.Label)
		}
	}
}

func TestRouteEndpointsAndSegments(t *testing.T) {
	c := prepare("; --- A ---\nTOP: HLT\n JMP TOP\n JMPZ TOP ; tight\n CALL SUB\n; --- B ---\nSUB: RET\n JMP TOP")
	cfg := DefaultConfig()
	paths, err := Route(c.graph, c.lanes, c.geom, cfg)
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if len(paths) != 4 {
		t.Fatalf("got %d paths, want 4", len(paths))
	}

	for i, p := range paths {
		rr, _ := c.geom.Anchor(p.Ref.AnchorKey)
		dr, _ := c.geom.Anchor(p.Def.AnchorKey())
		if p.From() != AnchorPoint(rr, cfg.Inset) {
			t.Errorf("path %d starts at %v, want reference anchor %v", i, p.From(), AnchorPoint(rr, cfg.Inset))
		}
		if p.To() != AnchorPoint(dr, cfg.Inset) {
			t.Errorf("path %d ends at %v, want definition anchor %v", i, p.To(), AnchorPoint(dr, cfg.Inset))
		}
		if p.Segments() != 3 {
			t.Errorf("path %d has %d segments, want 3", i, p.Segments())
		}
		w := p.Waypoints
		if w[0].Y != w[1].Y || w[1].X != w[2].X || w[2].Y != w[3].Y {
			t.Errorf("path %d is not orthogonal: %v", i, w)
		}
	}
}

func TestRouteOffsetsNearbyReferences(t *testing.T) {
	c := prepare("; --- A ---\nL: HLT\n JMP L\n JMP L\n; --- B ---\n\n\n\n\n JMP L")
	cfg := DefaultConfig()
	paths, err := Route(c.graph, c.lanes, c.geom, cfg)
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	lane, _ := c.lanes.Lane("L")

	want := []float64{lane.X, lane.X + cfg.Offset, lane.X}
	for i, p := range paths {
		if p.Waypoints[1].X != want[i] {
			t.Errorf("path %d vertical x = %v, want %v", i, p.Waypoints[1].X, want[i])
		}
		if p.Waypoints[1].X-lane.X >= lanes.DefaultConfig().Gap {
			t.Errorf("path %d offset reaches the next lane", i)
		}
	}
}

func TestRouteOffsetsThreeCrowdedReferences(t *testing.T) {
	c := prepare("; --- A ---\nL: HLT\n JMP L\n JMP L\n JMP L\n JMP L")
	cfg := DefaultConfig()
	paths, err := Route(c.graph, c.lanes, c.geom, cfg)
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	lane, _ := c.lanes.Lane("L")

	want := []float64{lane.X, lane.X + 3, lane.X + 6, lane.X}
	if len(paths) != len(want) {
		t.Fatalf("got %d paths, want %d", len(paths), len(want))
	}
	for i, p := range paths {
		if p.Waypoints[1].X != want[i] {
			t.Errorf("path %d vertical x = %v, want %v", i, p.Waypoints[1].X, want[i])
		}
	}
}

func TestRouteUnresolved(t *testing.T) {
	c := prepare("; --- A ---\n JMP GOTOX")
	paths, err := Route(c.graph, c.lanes, c.geom, DefaultConfig())
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("got %d paths, want 0", len(paths))
	}
}

type emptyLocator struct{}

func (emptyLocator) Anchor(string) (layout.Rect, bool) { return layout.Rect{}, false }

func TestRouteMissingGeometry(t *testing.T) {
	c := prepare(scenario)
	if _, err := Route(c.graph, c.lanes, emptyLocator{}, DefaultConfig()); err == nil {
		t.Error("expected error when geometry is missing")
	}
}

func TestRouteIdempotent(t *testing.T) {
	run := func() []Path {
		c := prepare(scenario)
		paths, err := Route(c.graph, c.lanes, c.geom, DefaultConfig())
		if err != nil {
			t.Fatalf("Route: %v", err)
		}
		return paths
	}
	first, second := run(), run()

	if len(first) != len(second) {
		t.Fatalf("path counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].From() != second[i].From() || first[i].To() != second[i].To() ||
			first[i].Lane != second[i].Lane || first[i].SameBox != second[i].SameBox {
			t.Errorf("path %d differs between runs", i)
		}
	}
}
