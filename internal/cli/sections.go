package cli

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/LMascagni/simasm/pkg/outline"
	"github.com/LMascagni/simasm/pkg/refgraph"
	"github.com/LMascagni/simasm/pkg/section"
	"github.com/LMascagni/simasm/pkg/token"
)

// sectionRow summarizes one section.
type sectionRow struct {
	Name   string   `json:"name"`
	Marker int      `json:"marker"`
	Start  int      `json:"start"`
	End    int      `json:"end"`
	Labels []string `json:"labels"`
	Data   int      `json:"data"`
	Jumps  int      `json:"jumps"`
	// Targets lists the sections this one jumps into, by name.
	Targets []string `json:"targets"`
}

func (c *CLI) sectionsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:               "sections [file]",
		Short:             "List the sections of a SIMASM source file",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: asmFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readSource(args[0])
			if err != nil {
				return err
			}
			sections := section.Extract(doc)
			rows := summarize(sections, outline.Build(doc))
			c.Logger.Debug("summarized sections", "path", args[0], "sections", len(rows))

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			if len(rows) == 0 {
				printWarning("No sections found in %s", args[0])
				printNextStep("Add a section marker", section.MarkerExample)
				return nil
			}
			fmt.Fprintln(out, sectionTable(rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

// summarize joins extracted sections with their outline symbols and
// reference graph edges.
func summarize(sections []section.Section, symbols []outline.Symbol) []sectionRow {
	tokens := token.TokenizeAll(sections)
	g := refgraph.Build(tokens)

	rows := make([]sectionRow, len(sections))
	for i, s := range sections {
		rows[i] = sectionRow{
			Name:    s.Name,
			Marker:  s.MarkerLine,
			Start:   s.StartLine,
			End:     s.EndLine,
			Labels:  []string{},
			Targets: []string{},
		}
	}

	for _, e := range outline.Flatten(symbols) {
		if e.Kind == outline.Section {
			continue
		}
		i := slices.IndexFunc(sections, func(s section.Section) bool { return s.Contains(e.Line) })
		if i < 0 {
			continue
		}
		switch e.Kind {
		case outline.Label:
			rows[i].Labels = append(rows[i].Labels, e.Name)
		case outline.Data:
			rows[i].Data++
		}
	}

	seen := make(map[[2]int]bool)
	for _, name := range g.Order {
		def, ok := g.Definitions[name]
		for _, ref := range g.References[name] {
			rows[ref.Section].Jumps++
			if !ok || def.Section == ref.Section || seen[[2]int{ref.Section, def.Section}] {
				continue
			}
			seen[[2]int{ref.Section, def.Section}] = true
			rows[ref.Section].Targets = append(rows[ref.Section].Targets, sections[def.Section].Name)
		}
	}
	return rows
}

func sectionTable(rows []sectionRow) string {
	data := make([][]string, len(rows))
	for i, r := range rows {
		lines := "empty"
		if r.End >= r.Start {
			lines = fmt.Sprintf("%d-%d", r.Start+1, r.End+1)
		}
		data[i] = []string{
			strconv.Itoa(i + 1),
			r.Name,
			lines,
			orDash(strings.Join(r.Labels, ", ")),
			strconv.Itoa(r.Jumps),
			orDash(strings.Join(r.Targets, ", ")),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Section", "Lines", "Labels", "Jumps", "Jumps into").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col == 1:
				return StyleTitle
			case col == 0 || col == 2:
				return StyleDim
			}
			return StyleValue
		}).
		Render()
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
