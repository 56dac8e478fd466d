package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/LMascagni/simasm/pkg/lanes"
	"github.com/LMascagni/simasm/pkg/layout"
	"github.com/LMascagni/simasm/pkg/observability"
	"github.com/LMascagni/simasm/pkg/refgraph"
	"github.com/LMascagni/simasm/pkg/route"
	"github.com/LMascagni/simasm/pkg/section"
	"github.com/LMascagni/simasm/pkg/source"
	"github.com/LMascagni/simasm/pkg/token"
)

// Runner executes pipeline runs. It holds no per-document state, so one
// Runner can serve several views.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger falls back to log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Run extracts, links, measures and routes doc. A document without section
// markers is not an error: the result is empty and renders as a placeholder.
func (r *Runner) Run(ctx context.Context, doc *source.Document, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	res := &Result{Path: doc.Path}

	start := time.Now()
	res.Sections = section.Extract(doc)
	res.Tokens = token.TokenizeAll(res.Sections)
	res.Graph = refgraph.Build(res.Tokens)
	res.Stats.ExtractTime = time.Since(start)
	observability.Pipeline().OnExtract(ctx, doc.Path, len(res.Sections), res.Stats.ExtractTime)

	r.Logger.Debug("extracted sections",
		"path", doc.Path,
		"sections", len(res.Sections),
		"duration", res.Stats.ExtractTime)
	for _, d := range res.Graph.Duplicates {
		r.Logger.Debug("label redefined, last definition wins", "label", d.Name, "line", d.DocLine)
	}

	start = time.Now()
	err := r.layout(res, opts)
	res.Stats.LayoutTime = time.Since(start)
	observability.Pipeline().OnLayout(ctx, doc.Path, res.Stats.Lanes, res.Stats.Paths, res.Stats.LayoutTime, err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	r.Logger.Debug("computed layout",
		"lanes", res.Stats.Lanes,
		"paths", res.Stats.Paths,
		"unresolved", res.Stats.Unresolved,
		"duration", res.Stats.LayoutTime)
	return res, nil
}

func (r *Runner) layout(res *Result, opts Options) error {
	g := res.Graph

	cfg := opts.Layout
	cfg.Left = max(cfg.Left, opts.Lanes.Gutter(lanes.Count(g)))
	res.Geometry = layout.Compute(res.Tokens, opts.Measurer, cfg)
	res.Lanes = lanes.Allocate(g, res.Geometry, opts.Lanes)

	paths, err := route.Route(g, res.Lanes, res.Geometry, opts.Route)
	if err != nil {
		return err
	}
	res.Paths = paths

	res.Stats = Stats{
		Sections:    len(res.Sections),
		Definitions: len(g.Definitions),
		References:  countRefs(g),
		Routable:    g.Routable(),
		Lanes:       res.Lanes.Len(),
		Paths:       len(paths),
		Unresolved:  len(g.Unresolved()),
		Duplicates:  len(g.Duplicates),
		ExtractTime: res.Stats.ExtractTime,
	}
	return nil
}

func countRefs(g *refgraph.Graph) int {
	n := 0
	for _, refs := range g.References {
		n += len(refs)
	}
	return n
}
