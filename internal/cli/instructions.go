package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/LMascagni/simasm/pkg/isa"
)

func (c *CLI) instructionsCommand() *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:     "instructions [mnemonic...]",
		Aliases: []string{"isa"},
		Short:   "Print the SIMASM instruction reference",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) > 0 {
				for _, m := range args {
					in, ok := isa.Lookup(m)
					if !ok {
						return fmt.Errorf("unknown instruction: %s", m)
					}
					fmt.Fprintln(out, isa.Hover(in))
					fmt.Fprintln(out, StyleDim.Render("Encoding: "+in.MachineCode))
				}
				return nil
			}

			groups, err := selectGroups(group)
			if err != nil {
				return err
			}
			for _, g := range groups {
				fmt.Fprintln(out, StyleTitle.Render(string(g)))
				fmt.Fprintln(out, instructionTable(isa.ByGroup(g)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&group, "group", "g", "", "only show one group: transfer, alu, io, flow")
	return cmd
}

var groupNames = map[string]isa.Group{
	"transfer": isa.GroupTransfer,
	"alu":      isa.GroupALU,
	"io":       isa.GroupIO,
	"flow":     isa.GroupFlow,
}

func selectGroups(name string) ([]isa.Group, error) {
	if name == "" {
		return isa.Groups, nil
	}
	g, ok := groupNames[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown group: %s (must be transfer, alu, io or flow)", name)
	}
	return []isa.Group{g}, nil
}

func instructionTable(ins []isa.Instruction) string {
	rows := make([][]string, len(ins))
	for i, in := range ins {
		args := "—"
		if in.Operands() {
			args = in.Arguments
		}
		rows[i] = []string{in.Mnemonic, args, in.Description, in.Flags}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Mnemonic", "Arguments", "Description", "Flags").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col == 0 && ins[row].Jump:
				return StyleWarning.Bold(true)
			case col == 0:
				return StyleTitle
			case col == 3:
				return StyleDim
			}
			return StyleValue
		}).
		Render()
}
