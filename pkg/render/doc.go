// Package render groups the output renderers for SIMASM charts.
//
// # Flowchart
//
// The [chart] subpackage draws the full flowchart: one box per section,
// syntax-highlighted code lines, and routed reference connectors. It emits
// an interactive HTML document, a standalone SVG, or a JSON model.
//
//	html, err := chart.RenderHTML(c, chart.WithEndpoints("/api/jump", "/api/resize"))
//
// # Section Graph
//
// The [nodelink] subpackage collapses each section to a node and renders the
// control transfers between sections with Graphviz.
//
//	dot := nodelink.ToDOT(sections, graph, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [chart]: github.com/LMascagni/simasm/pkg/render/chart
// [nodelink]: github.com/LMascagni/simasm/pkg/render/nodelink
package render
