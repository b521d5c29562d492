package commands

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"
)

// appFs backs every file the commands read.
var appFs = afero.NewOsFs()

// Styles for human-facing messages. Colors are dropped when w is not a
// terminal.
type Styles struct {
	Title   lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Muted   lipgloss.Style
}

func newStyles(w io.Writer) *Styles {
	r := lipgloss.NewRenderer(w)
	return &Styles{
		Title:   r.NewStyle().Bold(true),
		Error:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Success: r.NewStyle().Foreground(lipgloss.Color("10")),
		Muted:   r.NewStyle().Faint(true),
	}
}
