package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"os"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

func colorEnabled() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func style(s lipgloss.Style, text string) string {
	if !colorEnabled() {
		return text
	}
	return s.Render(text)
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "workflowcore",
		Short: "Validate Petri nets, project them to DAGs, and execute DAGs",
	}

	root.AddCommand(newValidateCommand())
	root.AddCommand(newProjectCommand())
	root.AddCommand(newRunCommand())
	root.AddCommand(newVersionCommand())

	return root
}
