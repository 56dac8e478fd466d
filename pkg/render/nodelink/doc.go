// Package nodelink renders the section graph of a SIMASM program as a
// node-link diagram.
//
// # Overview
//
// Where the flowchart shows every line and every connector, the section
// graph collapses each section to a single node. Fallthrough from one section
// to the next is drawn as a dashed edge; jumps and calls whose target label
// is defined in another (or the same) section are drawn as solid edges
// labelled with the target names.
//
// # Usage
//
//	dot := nodelink.ToDOT(sections, graph, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is required.
package nodelink
