package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/LMascagni/simasm/pkg/refgraph"
	"github.com/LMascagni/simasm/pkg/token"
)

// Options configures section graph rendering.
type Options struct {
	// Detailed adds line counts and defined labels to node labels.
	// When false, only the section name is shown.
	Detailed bool
}

// Edge is a control transfer between two sections.
type Edge struct {
	From, To int
	// Labels are the target names, sorted. Empty for fallthrough.
	Labels      []string
	Fallthrough bool
}

// Edges derives the section graph: fallthrough edges between consecutive
// sections, then one edge per (source, target) pair of resolved references.
func Edges(sections []token.Section, g *refgraph.Graph) []Edge {
	var edges []Edge
	for i := 1; i < len(sections); i++ {
		edges = append(edges, Edge{From: sections[i-1].Index, To: sections[i].Index, Fallthrough: true})
	}

	type pair struct{ from, to int }
	jumps := make(map[pair][]string)
	var order []pair
	for _, name := range g.Order {
		def, ok := g.Definitions[name]
		if !ok {
			continue
		}
		for _, ref := range g.References[name] {
			p := pair{ref.Section, def.Section}
			if _, seen := jumps[p]; !seen {
				order = append(order, p)
			}
			if !slices.Contains(jumps[p], name) {
				jumps[p] = append(jumps[p], name)
			}
		}
	}
	for _, p := range order {
		labels := jumps[p]
		slices.Sort(labels)
		edges = append(edges, Edge{From: p.from, To: p.to, Labels: labels})
	}
	return edges
}

// ToDOT converts the section graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(sections []token.Section, g *refgraph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=\"#f0f8ff\", color=\"#336699\", fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#336699\", fontname=\"Helvetica\", fontsize=11];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, s := range sections {
		fmt.Fprintf(&buf, "  %s [label=%q];\n", nodeID(s.Index), fmtLabel(s, g, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, e := range Edges(sections, g) {
		if e.Fallthrough {
			fmt.Fprintf(&buf, "  %s -> %s [style=dashed];\n", nodeID(e.From), nodeID(e.To))
			continue
		}
		fmt.Fprintf(&buf, "  %s -> %s [label=%q];\n", nodeID(e.From), nodeID(e.To), strings.Join(e.Labels, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(i int) string {
	return "s" + strconv.Itoa(i)
}

func fmtLabel(s token.Section, g *refgraph.Graph, detailed bool) string {
	if !detailed {
		return s.Name
	}

	parts := []string{fmt.Sprintf("lines: %d", len(s.Lines))}
	var defs []string
	for _, name := range definedIn(g, s.Index) {
		defs = append(defs, name+":")
	}
	if len(defs) > 0 {
		parts = append(parts, strings.Join(defs, " "))
	}
	return s.Name + "\n" + strings.Join(parts, "\n")
}

func definedIn(g *refgraph.Graph, section int) []string {
	var names []string
	for name, d := range g.Definitions {
		if d.Section == section {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
