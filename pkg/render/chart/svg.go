package chart

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/LMascagni/simasm/pkg/fonts"
	"github.com/LMascagni/simasm/pkg/isa"
	"github.com/LMascagni/simasm/pkg/layout"
	"github.com/LMascagni/simasm/pkg/markup"
	"github.com/LMascagni/simasm/pkg/route"
	"github.com/LMascagni/simasm/pkg/token"
)

// Marker ids for arrowheads.
const (
	MarkerSameBox  = "arrow-same-box"
	MarkerCrossBox = "arrow-cross-box"
	MarkerFlow     = "arrow-flow"
)

var (
	el    = markup.El
	attrs = markup.Attrs
	num   = markup.Num
)

// Surface builds the complete <svg> drawing surface for c. It is rebuilt
// from nothing on every call.
func Surface(c Chart) *html.Node {
	g := c.Geometry
	if g == nil {
		g = &layout.Geometry{}
	}

	svg := el("svg", attrs(
		"class", "chart",
		"viewBox", "0 0 "+num(g.Width)+" "+num(g.Height),
		"width", num(g.Width),
		"height", num(g.Height),
		"font-family", fonts.FallbackFontFamily,
		"font-size", num(c.fontSize()),
	))
	markup.Append(svg,
		defs(),
		sections(c, g),
		flow(g),
		connectors(c.Paths),
	)
	return svg
}

func defs() *html.Node {
	return el("defs", nil,
		arrowhead(MarkerSameBox, "arrowhead same-box"),
		arrowhead(MarkerCrossBox, "arrowhead cross-box"),
		arrowhead(MarkerFlow, "arrowhead flow"),
	)
}

func arrowhead(id, class string) *html.Node {
	return el("marker", attrs(
		"id", id,
		"viewBox", "0 0 10 10",
		"refX", "9",
		"refY", "5",
		"markerWidth", "6",
		"markerHeight", "6",
		"orient", "auto-start-reverse",
	), el("path", attrs("d", "M0,0 L10,5 L0,10 z", "class", class)))
}

func sections(c Chart, g *layout.Geometry) *html.Node {
	group := el("g", attrs("class", "sections"))
	for _, b := range g.Boxes {
		group.AppendChild(box(c, b))
	}
	return group
}

func box(c Chart, b layout.Box) *html.Node {
	r, h := b.Rect, b.Header
	n := el("g", attrs("class", "section", "data-section", markup.Int(b.Section)),
		el("rect", attrs("class", "box",
			"x", num(r.X), "y", num(r.Y), "width", num(r.W), "height", num(r.H), "rx", "8")),
		el("rect", attrs("class", "box-header", "data-line", markup.Int(b.MarkerLine),
			"x", num(h.X), "y", num(h.Y), "width", num(h.W), "height", num(h.H), "rx", "6")),
		el("text", attrs("class", "section-name", "data-line", markup.Int(b.MarkerLine),
			"x", num(h.MidX()), "y", num(h.MidY()+c.fontSize()/3), "text-anchor", "middle"),
			markup.Text(b.Name)),
	)
	for _, l := range b.Lines {
		n.AppendChild(line(c, b, l))
	}
	return n
}

func line(c Chart, b layout.Box, l layout.LineBox) *html.Node {
	x := l.Rect.X
	if len(l.Tokens) > 0 {
		x = l.Tokens[0].Rect.X
	}
	n := el("text", attrs("class", "code-line", "data-line", markup.Int(l.DocLine),
		"x", num(x), "y", num(l.Baseline), "xml:space", "preserve"))
	for _, t := range l.Tokens {
		n.AppendChild(span(c, b.Section, t))
	}
	return n
}

func span(c Chart, section int, t layout.TokenBox) *html.Node {
	text := markup.Text(layout.ExpandTabs(t.Text))
	if t.Kind == token.Space {
		return text
	}

	// Every token sits at its measured x, whatever face the viewer uses.
	a := attrs("class", "tok-"+t.Kind.String(), "x", num(t.Rect.X))
	if key := token.AnchorKey(t.Kind, section, t.Line, t.Col); key != "" {
		a = append(a, markup.Attr("id", key), markup.Attr("data-label", t.Label))
	}
	n := el("tspan", a, text)

	switch t.Kind {
	case token.Instruction:
		if in, ok := isa.Lookup(t.Text); ok {
			n.AppendChild(el("title", nil, markup.Text(isa.Hover(in))))
		}
	case token.LabelRef:
		if c.Graph == nil {
			break
		}
		if line, ok := c.Graph.Lookup(t.Label); ok {
			markup.SetAttr(n, "data-target", markup.Int(line))
		} else {
			markup.SetAttr(n, "class", "tok-label-ref unresolved")
		}
	}
	return n
}

func flow(g *layout.Geometry) *html.Node {
	group := el("g", attrs("class", "flow"))
	for _, f := range g.Connectors {
		group.AppendChild(el("line", attrs("class", "flow-arrow",
			"x1", num(f.X), "y1", num(f.Y1), "x2", num(f.X), "y2", num(f.Y2),
			"marker-end", "url(#"+MarkerFlow+")")))
	}
	return group
}

func connectors(paths []route.Path) *html.Node {
	group := el("g", attrs("class", "connectors"))
	for _, p := range paths {
		kind, marker := "cross-box", MarkerCrossBox
		if p.SameBox {
			kind, marker = "same-box", MarkerSameBox
		}
		group.AppendChild(el("path", attrs(
			"class", "connector "+kind,
			"d", pathData(p.Waypoints),
			"data-label", p.Label,
			"data-from", p.Ref.AnchorKey,
			"data-to", p.Def.AnchorKey(),
			"marker-end", "url(#"+marker+")",
		)))
	}
	return group
}

func pathData(pts []route.Point) string {
	var b strings.Builder
	for i, p := range pts {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString(" L")
		}
		b.WriteString(num(p.X))
		b.WriteString(",")
		b.WriteString(num(p.Y))
	}
	return b.String()
}
