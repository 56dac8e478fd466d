// Package pipeline runs the SIMASM chart pipeline.
//
// This package implements the complete extract → tokenize → link → layout →
// route → render sequence used by the CLI, the live server and the render
// scheduler. Every run recomputes everything from the source text.
//
// # Architecture
//
// The stages run strictly in order:
//
//  1. Extract: split the source into sections ([section.Extract])
//  2. Tokenize: classify every line ([token.TokenizeAll])
//  3. Link: build the reference graph ([refgraph.Build])
//  4. Layout: measure boxes, allocate lanes and route connectors
//  5. Render: serialize the result (HTML, SVG, JSON, DOT, section graph)
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{Formats: []string{"html"}}
//	result, err := runner.Run(ctx, doc, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	artifacts, err := runner.Render(ctx, result, opts)
//
// [section.Extract]: github.com/LMascagni/simasm/pkg/section.Extract
// [token.TokenizeAll]: github.com/LMascagni/simasm/pkg/token.TokenizeAll
// [refgraph.Build]: github.com/LMascagni/simasm/pkg/refgraph.Build
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/LMascagni/simasm/pkg/cache"
	"github.com/LMascagni/simasm/pkg/errors"
	"github.com/LMascagni/simasm/pkg/lanes"
	"github.com/LMascagni/simasm/pkg/layout"
	"github.com/LMascagni/simasm/pkg/refgraph"
	"github.com/LMascagni/simasm/pkg/render/chart"
	"github.com/LMascagni/simasm/pkg/route"
	"github.com/LMascagni/simasm/pkg/section"
	"github.com/LMascagni/simasm/pkg/token"
)

// Format constants for output formats.
const (
	FormatHTML  = "html"
	FormatSVG   = "svg"
	FormatJSON  = "json"
	FormatDOT   = "dot"
	FormatGraph = "graph"
)

// Formats lists the supported output formats in presentation order.
var Formats = []string{FormatHTML, FormatSVG, FormatJSON, FormatDOT, FormatGraph}

// Extensions maps formats to output file extensions.
var Extensions = map[string]string{
	FormatHTML:  ".html",
	FormatSVG:   ".svg",
	FormatJSON:  ".json",
	FormatDOT:   ".dot",
	FormatGraph: ".graph.svg",
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options contains all configuration for a pipeline run.
type Options struct {
	Title   string
	Layout  layout.Config
	Lanes   lanes.Config
	Route   route.Config
	Formats []string
	// Detailed adds line counts and labels to section graph nodes.
	Detailed bool
	// Chart options applied to HTML and SVG output.
	ChartOptions []chart.Option

	// Measurer measures text; a Go Mono measurer at Layout.FontSize is used
	// when nil.
	Measurer layout.Measurer
	// Cache stores section graph SVGs; caching is off when nil.
	Cache  cache.Cache
	Logger *log.Logger

	validated bool
	closer    io.Closer
}

// DefaultOptions returns options with the standard metrics.
func DefaultOptions() Options {
	return Options{
		Layout:  layout.DefaultConfig(),
		Lanes:   lanes.DefaultConfig(),
		Route:   route.DefaultConfig(),
		Formats: []string{FormatHTML},
	}
}

// ValidateAndSetDefaults checks formats and fills in the measurer and logger.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Layout == (layout.Config{}) {
		o.Layout = layout.DefaultConfig()
	}
	if o.Lanes == (lanes.Config{}) {
		o.Lanes = lanes.DefaultConfig()
	}
	if o.Route == (route.Config{}) {
		o.Route = route.DefaultConfig()
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatHTML}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Cache == nil {
		o.Cache = cache.NewNullCache()
	}
	if o.Measurer == nil {
		m, err := layout.NewFontMeasurer(o.Layout.FontSize)
		if err != nil {
			return fmt.Errorf("font: %w", err)
		}
		o.Measurer = m
		o.closer = m
	}
	o.validated = true
	return nil
}

// Close releases the measurer created by ValidateAndSetDefaults. A measurer
// supplied by the caller is left open. Copies of o share the measurer, so
// call Close once, after the last Run or Render.
func (o *Options) Close() error {
	if o.closer == nil {
		return nil
	}
	err := o.closer.Close()
	o.closer = nil
	return err
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Path     string
	Sections []section.Section
	Tokens   []token.Section
	Graph    *refgraph.Graph
	Geometry *layout.Geometry
	Lanes    *lanes.Set
	Paths    []route.Path
	Stats    Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Sections    int
	Definitions int
	References  int
	Routable    int
	Lanes       int
	Paths       int
	Unresolved  int
	Duplicates  int
	ExtractTime time.Duration
	LayoutTime  time.Duration
}

// Empty reports whether the source had no section markers.
func (r *Result) Empty() bool {
	return len(r.Sections) == 0
}

// Chart returns the drawable model of the result.
func (r *Result) Chart(title string, fontSize float64) chart.Chart {
	if title == "" {
		title = r.Path
	}
	c := chart.Chart{
		Title:    title,
		Geometry: r.Geometry,
		Graph:    r.Graph,
		Paths:    r.Paths,
		FontSize: fontSize,
	}
	if r.Lanes != nil {
		c.Lanes = r.Lanes.Lanes
	}
	return c
}
