package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	pkgio "github.com/AlyamanMas/crate2nix/pkg/io"
	"github.com/AlyamanMas/crate2nix/pkg/resolve"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectCommand creates the inspect command for browsing descriptor sets.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "Browse a descriptor set interactively",
		Long: `Browse a generated descriptor set in an interactive crate list.

Navigate with the arrow keys, press enter to show a crate's details.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			derivations, err := pkgio.Import(args[0])
			if err != nil {
				return err
			}
			if len(derivations) == 0 {
				printInfo("No crates in %s", args[0])
				return nil
			}

			model := newCrateListModel(derivations)
			final, err := tea.NewProgram(model).Run()
			if err != nil {
				return fmt.Errorf("run inspector: %w", err)
			}

			if m, ok := final.(crateListModel); ok && m.Selected != nil {
				printCrateDetails(m.Selected)
			}
			return nil
		},
	}
}

// crateListModel is the bubbletea model for interactive crate browsing.
type crateListModel struct {
	Crates   []*resolve.CrateDerivation
	Cursor   int
	Selected *resolve.CrateDerivation
	Height   int
	Offset   int
}

// newCrateListModel creates a new crate list model.
func newCrateListModel(crates []*resolve.CrateDerivation) crateListModel {
	return crateListModel{
		Crates: crates,
		Cursor: 0,
		Height: 15,
		Offset: 0,
	}
}

func (m crateListModel) Init() tea.Cmd {
	return nil
}

func (m crateListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Crates)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = m.Crates[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m crateListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Crates"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Crates) {
		end = len(m.Crates)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		d := m.Crates[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		kind := crateKind(d)
		workspace := ""
		if d.IsRootOrWorkspaceMember {
			workspace = "✓"
		}

		deps := fmt.Sprintf("%d", len(d.Dependencies))
		if n := len(d.BuildDependencies); n > 0 {
			deps += fmt.Sprintf(" +%d build", n)
		}

		rows = append(rows, []string{cursor, d.CrateName, d.Version, d.Edition, kind, workspace, deps})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Crate", "Version", "Edition", "Kind", "Workspace", "Deps").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Crates) {
				return lipgloss.NewStyle()
			}

			base := lipgloss.NewStyle()
			if actualIdx == m.Cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			if m.Crates[actualIdx].IsRootOrWorkspaceMember {
				return base.Foreground(colorGreen)
			}
			return base.Foreground(colorGray)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Crates))))

	return b.String()
}

// crateKind summarizes what a crate builds.
func crateKind(d *resolve.CrateDerivation) string {
	switch {
	case d.ProcMacro:
		return "proc-macro"
	case d.LibPath != "" && d.HasBin:
		return "lib+bin"
	case d.HasBin:
		return "bin"
	default:
		return "lib"
	}
}

// printCrateDetails prints the full record for one crate.
func printCrateDetails(d *resolve.CrateDerivation) {
	fmt.Println(StyleTitle.Render(d.CrateName))
	fmt.Println()

	printKeyValue("Package ID", string(d.PackageID))
	printKeyValue("Version", d.Version)
	printKeyValue("Edition", d.Edition)
	if len(d.Authors) > 0 {
		printKeyValue("Authors", strings.Join(d.Authors, ", "))
	}
	printKeyValue("Source", d.SourceDirectory)
	if d.Sha256 != "" {
		printKeyValue("Sha256", d.Sha256)
	}
	if d.LibPath != "" {
		printKeyValue("Lib", d.LibPath)
	}
	if d.Build != "" {
		printKeyValue("Build script", d.Build)
	}
	printKeyValue("Kind", crateKind(d))
	printKeyValue("Workspace", fmt.Sprintf("%t", d.IsRootOrWorkspaceMember))
	if len(d.Features) > 0 {
		printKeyValue("Features", strings.Join(d.Features, ", "))
	}

	printDependencyList("Dependencies", d.Dependencies)
	printDependencyList("Build dependencies", d.BuildDependencies)
}

func printDependencyList(title string, deps []resolve.ResolvedDependency) {
	if len(deps) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(StyleHighlight.Render(title))
	for _, dep := range deps {
		line := string(dep.PackageID)
		if dep.Target != nil {
			line += " " + StyleDim.Render("["+*dep.Target+"]")
		}
		fmt.Println("  " + StyleValue.Render(line))
	}
}
