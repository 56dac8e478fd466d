package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/LMascagni/simasm/pkg/cache"
	"github.com/LMascagni/simasm/pkg/observability"
	"github.com/LMascagni/simasm/pkg/render/chart"
	"github.com/LMascagni/simasm/pkg/render/nodelink"
	"github.com/LMascagni/simasm/pkg/section"
)

const graphTTL = 7 * 24 * time.Hour

// Render generates output artifacts in the requested formats. An empty
// result renders the no-sections placeholder for HTML and an empty chart for
// the other formats.
func (r *Runner) Render(ctx context.Context, res *Result, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	c := res.Chart(opts.Title, opts.Layout.FontSize)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		start := time.Now()
		data, err := renderFormat(ctx, res, c, format, opts)
		observability.Pipeline().OnRender(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	r.Logger.Debug("rendered outputs", "formats", opts.Formats)
	return artifacts, nil
}

func renderFormat(ctx context.Context, res *Result, c chart.Chart, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatHTML:
		if res.Empty() {
			return chart.RenderPlaceholder(c.Title, section.MarkerExample, opts.ChartOptions...)
		}
		return chart.RenderHTML(c, opts.ChartOptions...)
	case FormatSVG:
		return chart.RenderSVG(c, opts.ChartOptions...)
	case FormatJSON:
		return chart.RenderJSON(c)
	case FormatDOT:
		return []byte(nodelink.ToDOT(res.Tokens, res.Graph, nodelink.Options{Detailed: opts.Detailed})), nil
	case FormatGraph:
		return renderGraph(ctx, res, opts)
	}
	return nil, ValidateFormat(format)
}

// renderGraph runs Graphviz on the section graph. Output is cached by DOT text.
func renderGraph(ctx context.Context, res *Result, opts Options) ([]byte, error) {
	dot := nodelink.ToDOT(res.Tokens, res.Graph, nodelink.Options{Detailed: opts.Detailed})
	key := cache.Key("graph", dot)
	if data, hit, err := opts.Cache.Get(ctx, key); err == nil && hit {
		opts.Logger.Debug("section graph cache hit", "key", key[:14])
		return data, nil
	}
	data, err := nodelink.RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	if err := opts.Cache.Set(ctx, key, data, graphTTL); err != nil {
		opts.Logger.Warn("section graph cache write failed", "error", err)
	}
	return data, nil
}
