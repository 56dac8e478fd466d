// Package pkg holds the libraries behind simasm, a flow chart renderer for
// SIMASM assembly.
//
// # Overview
//
// A SIMASM source file is split into sections by marker comments of the form
// "; --- NAME ---". Each section becomes a box in the chart, and every jump,
// call or data reference to a label becomes an orthogonal connector from the
// referencing line to the defining line.
//
// # Architecture
//
// The data flow through simasm:
//
//	source text
//	     ↓
//	[section] split at markers
//	     ↓
//	[token] classify lines (labels, mnemonics, operands, comments)
//	     ↓
//	[refgraph] link references to label definitions
//	     ↓
//	[layout] + [lanes] + [route] measure boxes and route connectors
//	     ↓
//	[render] HTML, SVG, JSON, DOT or Graphviz section graph
//
// [pipeline] runs the whole sequence. [scheduler] and [session] keep a chart
// live while its source changes, and [server] exposes sessions over HTTP.
// Clicks in the chart become [navigate] messages.
//
// # Quick Start
//
//	doc, _ := source.ReadFile("countdown.asm")
//	runner := pipeline.NewRunner(nil)
//	opts := pipeline.DefaultOptions()
//	res, _ := runner.Run(ctx, doc, opts)
//	out, _ := runner.Render(ctx, res, opts)
//	os.WriteFile("countdown.html", out[pipeline.FormatHTML], 0o644)
//
// [section]: github.com/LMascagni/simasm/pkg/section
// [token]: github.com/LMascagni/simasm/pkg/token
// [refgraph]: github.com/LMascagni/simasm/pkg/refgraph
// [layout]: github.com/LMascagni/simasm/pkg/layout
// [lanes]: github.com/LMascagni/simasm/pkg/lanes
// [route]: github.com/LMascagni/simasm/pkg/route
// [render]: github.com/LMascagni/simasm/pkg/render
// [pipeline]: github.com/LMascagni/simasm/pkg/pipeline
// [scheduler]: github.com/LMascagni/simasm/pkg/scheduler
// [session]: github.com/LMascagni/simasm/pkg/session
// [server]: github.com/LMascagni/simasm/pkg/server
// [navigate]: github.com/LMascagni/simasm/pkg/navigate
package pkg
