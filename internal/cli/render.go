package cli

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LMascagni/simasm/pkg/pipeline"
	"github.com/LMascagni/simasm/pkg/render/chart"
	"github.com/LMascagni/simasm/pkg/section"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string   // output file (single format), base path (several), or "-" for stdout
	formats   []string // html, svg, json, dot, graph
	title     string   // document title, defaults to the file name
	detailed  bool     // line counts and labels in section graph nodes
	embedFont bool     // inline the measuring font into HTML and SVG
	noCache   bool     // skip the section graph cache
}

func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a SIMASM source file as a flow chart",
		Long: `Render a SIMASM source file as a flow chart.

Formats:
  html   self-contained interactive document (default)
  svg    the chart surface alone
  json   section boxes, lanes and connector paths
  dot    section graph in Graphviz DOT
  graph  section graph rendered to SVG by Graphviz`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: asmFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (several), - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(pipeline.Formats, ", ")+" (comma-separated)")
	cmd.Flags().StringVar(&opts.title, "title", "", "document title (default: file name)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show line counts and labels in the section graph")
	cmd.Flags().BoolVar(&opts.embedFont, "embed-font", true, "embed the Go Mono font used for measuring in HTML and SVG output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the section graph cache")

	return cmd
}

// parseFormats parses the --format flag. Empty means html.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatHTML}
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(strings.ToLower(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// basePath derives the base output path. A known output extension on output
// is stripped; an empty output uses the input without its extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	exts := slices.Collect(maps.Values(pipeline.Extensions))
	slices.SortFunc(exts, func(a, b string) int { return len(b) - len(a) })
	for _, ext := range exts {
		if strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// outputPaths maps each format to its destination.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + pipeline.Extensions[f]
	}
	return paths
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	doc, err := readSource(input)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	popts := cfg.PipelineOptions()
	popts.Formats = opts.formats
	popts.Detailed = opts.detailed
	popts.Logger = c.Logger
	popts.Title = opts.title
	if popts.Title == "" {
		popts.Title = filepath.Base(input)
	}
	if slices.Contains(opts.formats, pipeline.FormatGraph) {
		cc, err := newCache(opts.noCache)
		if err != nil {
			return err
		}
		defer cc.Close()
		popts.Cache = cc
	}
	if opts.embedFont {
		popts.ChartOptions = append(popts.ChartOptions, chart.WithEmbeddedFont())
	}

	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	defer popts.Close()

	runner := c.newRunner()
	res, err := runner.Run(ctx, doc, popts)
	if err != nil {
		return err
	}
	artifacts, err := runner.Render(ctx, res, popts)
	if err != nil {
		return err
	}

	paths := outputPaths(opts.output, input, opts.formats)
	toStdout := false
	for _, f := range opts.formats {
		if err := writeArtifact(paths[f], artifacts[f]); err != nil {
			return fmt.Errorf("write %s: %w", f, err)
		}
		toStdout = toStdout || paths[f] == "-"
	}
	if toStdout {
		prog.done(fmt.Sprintf("Rendered %s", input))
		return nil
	}

	printSuccess("Rendered %s", input)
	for _, f := range opts.formats {
		printFile(paths[f])
	}
	fmt.Println(formatStats(res.Stats))
	reportDiagnostics(res)
	if res.Empty() {
		printNextStep("Add a section marker", section.MarkerExample)
	}
	return nil
}

func writeArtifact(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// reportDiagnostics warns about unresolved references and redefined labels.
func reportDiagnostics(res *pipeline.Result) {
	if res.Graph == nil {
		return
	}
	for _, name := range res.Graph.Unresolved() {
		printWarning("unresolved reference %s", name)
	}
	for _, d := range res.Graph.Duplicates {
		printWarning("label %s redefined; line %d is ignored", d.Name, d.DocLine+1)
	}
}
