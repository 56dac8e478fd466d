package chart

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/LMascagni/simasm/pkg/lanes"
	"github.com/LMascagni/simasm/pkg/layout"
	"github.com/LMascagni/simasm/pkg/markup"
	"github.com/LMascagni/simasm/pkg/refgraph"
	"github.com/LMascagni/simasm/pkg/route"
	"github.com/LMascagni/simasm/pkg/section"
	"github.com/LMascagni/simasm/pkg/source"
	"github.com/LMascagni/simasm/pkg/token"
)

const scenario = "; --- INIT ---\nSTART: LDWI R0, 5\n JMP START\n; --- LOOP ---\n JMP START"

func build(t *testing.T, text string) Chart {
	t.Helper()
	secs := token.TokenizeAll(section.Extract(source.New("t.asm", text)))
	g := refgraph.Build(secs)
	lc := lanes.DefaultConfig()
	cfg := layout.DefaultConfig()
	cfg.Left = lc.Gutter(lanes.Count(g))
	geom := layout.Compute(secs, layout.CellMeasurer{Width: 7}, cfg)
	ls := lanes.Allocate(g, geom, lc)
	paths, err := route.Route(g, ls, geom, route.DefaultConfig())
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	return Chart{Title: "t.asm", Geometry: geom, Graph: g, Lanes: ls.Lanes, Paths: paths}
}

func classes(t *testing.T, c Chart, tag string) []string {
	t.Helper()
	var out []string
	for _, n := range markup.Find(Surface(c), tag) {
		v, _ := markup.GetAttr(n, "class")
		out = append(out, v)
	}
	return out
}

func TestSurfaceScenario(t *testing.T) {
	c := build(t, scenario)

	got := classes(t, c, "path")
	var conns []string
	for _, cl := range got {
		if strings.HasPrefix(cl, "connector") {
			conns = append(conns, cl)
		}
	}
	want := []string{"connector same-box", "connector cross-box"}
	if len(conns) != len(want) {
		t.Fatalf("connectors = %v, want %v", conns, want)
	}
	for i := range want {
		if conns[i] != want[i] {
			t.Errorf("connector %d class = %q, want %q", i, conns[i], want[i])
		}
	}

	if n := len(markup.Find(Surface(c), "marker")); n != 3 {
		t.Errorf("got %d markers, want 3", n)
	}
	if n := len(classes(t, c, "line")); n != 1 {
		t.Errorf("got %d flow arrows, want 1", n)
	}
}

func TestSurfaceTokens(t *testing.T) {
	c := build(t, "; --- A ---\nL: HLT\n JMP L\n JMP GOTOX")
	svg := Surface(c)

	var ref, unresolved, hover bool
	for _, n := range markup.Find(svg, "tspan") {
		cls, _ := markup.GetAttr(n, "class")
		label, _ := markup.GetAttr(n, "data-label")
		switch {
		case cls == "tok-label-ref" && label == "L":
			target, _ := markup.GetAttr(n, "data-target")
			ref = target == "1"
		case cls == "tok-label-ref unresolved" && label == "GOTOX":
			unresolved = true
		case cls == "tok-instruction":
			hover = hover || len(markup.Find(n, "title")) == 1
		}
	}
	if !ref {
		t.Error("reference to L should target line 1")
	}
	if !unresolved {
		t.Error("GOTOX should be styled as an unresolved reference")
	}
	if !hover {
		t.Error("instructions should carry a hover title")
	}
}

func TestSurfaceTokensPinned(t *testing.T) {
	c := build(t, "; --- A ---\nL: HLT\n\tJMP  L ; back\n JMP GOTOX")

	var want []string
	for _, b := range c.Geometry.Boxes {
		for _, l := range b.Lines {
			for _, tb := range l.Tokens {
				if tb.Kind != token.Space {
					want = append(want, markup.Num(tb.Rect.X))
				}
			}
		}
	}

	spans := markup.Find(Surface(c), "tspan")
	if len(spans) != len(want) {
		t.Fatalf("got %d tspans, want %d", len(spans), len(want))
	}
	for i, n := range spans {
		x, ok := markup.GetAttr(n, "x")
		if !ok || x != want[i] {
			t.Errorf("tspan %d x = %q (set %v), want %q", i, x, ok, want[i])
		}
	}
}

func TestRenderHTMLEmbeddedFont(t *testing.T) {
	c := build(t, scenario)
	plain, err := RenderHTML(c)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	embedded, err := RenderHTML(c, WithEmbeddedFont())
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if strings.Contains(string(plain), "@font-face") {
		t.Error("font embedded without WithEmbeddedFont")
	}
	if !strings.Contains(string(embedded), "@font-face") || !strings.Contains(string(embedded), "data:font/ttf;base64,") {
		t.Error("WithEmbeddedFont did not inline the font")
	}
}

func TestRenderHTML(t *testing.T) {
	c := build(t, scenario)
	out, err := RenderHTML(c,
		WithEndpoints("/api/jump", "/api/resize"),
		WithLiveReload("/api/revision", "abc", 500*time.Millisecond))
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	s := string(out)
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>t.asm</title>",
		`"jump":"/api/jump"`,
		`"pollMs":500`,
		"jumpToLine",
		`class="connector same-box"`,
		`data-line="0"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	a, err := RenderHTML(build(t, scenario))
	if err != nil {
		t.Fatal(err)
	}
	b, err := RenderHTML(build(t, scenario))
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Error("two renders of the same input differ")
	}
}

func TestRenderSVGStandalone(t *testing.T) {
	out, err := RenderSVG(build(t, scenario))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	s := string(out)
	if !strings.HasPrefix(s, "<svg") || !strings.Contains(s, `xmlns="http://www.w3.org/2000/svg"`) {
		t.Errorf("not a standalone svg: %.80s", s)
	}
	if !strings.Contains(s, "<style>") {
		t.Error("standalone svg should carry its stylesheet")
	}
}

func TestRenderPlaceholder(t *testing.T) {
	out, err := RenderPlaceholder("", section.MarkerExample)
	if err != nil {
		t.Fatalf("RenderPlaceholder: %v", err)
	}
	s := string(out)
	for _, want := range []string{"No sections found", "; --- SECTION NAME ---", DefaultTitle} {
		if !strings.Contains(s, want) {
			t.Errorf("placeholder missing %q", want)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(build(t, scenario))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	var out struct {
		Boxes []json.RawMessage `json:"boxes"`
		Lanes []lanes.Lane      `json:"lanes"`
		Paths []struct {
			SameBox   bool          `json:"same_box"`
			Waypoints []route.Point `json:"waypoints"`
		} `json:"paths"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if len(out.Boxes) != 2 || len(out.Lanes) != 1 || len(out.Paths) != 2 {
		t.Errorf("boxes=%d lanes=%d paths=%d, want 2 1 2", len(out.Boxes), len(out.Lanes), len(out.Paths))
	}
	if len(out.Paths) == 2 && (!out.Paths[0].SameBox || out.Paths[1].SameBox) {
		t.Errorf("same_box flags = %v, %v", out.Paths[0].SameBox, out.Paths[1].SameBox)
	}
}

func TestRenderJSONEmpty(t *testing.T) {
	data, err := RenderJSON(Chart{})
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	if !strings.Contains(string(data), `"paths": []`) {
		t.Errorf("empty chart should list no paths: %s", data)
	}
}
