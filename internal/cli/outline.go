package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/LMascagni/simasm/pkg/navigate"
	"github.com/LMascagni/simasm/pkg/outline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

func (c *CLI) outlineCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "outline [file]",
		Short: "Browse sections, labels and data declarations",
		Long: `Browse the outline of a SIMASM source file.

Pick a symbol to send a jumpToLine message for its line to the configured
navigator. With --plain the outline is printed instead.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: asmFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readSource(args[0])
			if err != nil {
				return err
			}
			entries := outline.Flatten(outline.Build(doc))
			if len(entries) == 0 {
				printWarning("No symbols in %s", args[0])
				return nil
			}
			if plain {
				for _, e := range entries {
					fmt.Fprintln(cmd.OutOrStdout(), formatEntry(e))
				}
				return nil
			}

			final, err := tea.NewProgram(NewOutlineModel(entries), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			m := final.(OutlineModel)
			if m.Selected == nil {
				return nil
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			nav, err := c.newNavigator(cmd, cfg, cmd.OutOrStdout(), doc.Path)
			if err != nil {
				return err
			}
			defer nav.Close()
			return navigate.Deliver(cmd.Context(), nav, navigate.JumpToLine(m.Selected.Line))
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the outline instead of opening the picker")
	return cmd
}

// =============================================================================
// OutlineModel - Interactive symbol selection
// =============================================================================

// OutlineModel is the bubbletea model for picking an outline symbol.
type OutlineModel struct {
	Entries  []outline.Entry
	Cursor   int
	Selected *outline.Entry
	Height   int
	Offset   int
}

// NewOutlineModel creates a new outline model.
func NewOutlineModel(entries []outline.Entry) OutlineModel {
	return OutlineModel{Entries: entries, Height: 15}
}

func (m OutlineModel) Init() tea.Cmd {
	return nil
}

func (m OutlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "tab":
			// next section
			for i := m.Cursor + 1; i < len(m.Entries); i++ {
				if m.Entries[i].Kind == outline.Section {
					m.Cursor = i
					if m.Cursor >= m.Offset+m.Height {
						m.Offset = m.Cursor - m.Height + 1
					}
					break
				}
			}
		case "enter":
			e := m.Entries[m.Cursor]
			m.Selected = &e
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m OutlineModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Outline"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  tab next section  ⏎ jump  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Entries))
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := cursor + formatEntry(m.Entries[i])
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case m.Entries[i].Kind == outline.Data:
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))
	return b.String()
}

// formatEntry renders an entry as "indent name  kind:line" with a 1-based line.
func formatEntry(e outline.Entry) string {
	return fmt.Sprintf("%s%-24s %s:%d", strings.Repeat("  ", e.Depth), e.Name, e.Kind, e.Line+1)
}
