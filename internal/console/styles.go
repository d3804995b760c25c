package console

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title   lipgloss.Style
	section lipgloss.Style
	number  lipgloss.Style
	header  lipgloss.Style
	label   lipgloss.Style
	success lipgloss.Style
	info    lipgloss.Style
	warn    lipgloss.Style
	err     lipgloss.Style
}

// newStyles binds every style to a renderer for out, so colour is only
// emitted when out is a terminal that supports it.
func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		section: r.NewStyle().Foreground(lipgloss.Color("3")),
		number:  r.NewStyle().Foreground(lipgloss.Color("4")),
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("5")),
		label:   r.NewStyle().Foreground(lipgloss.Color("4")),
		success: r.NewStyle().Foreground(lipgloss.Color("2")),
		info:    r.NewStyle().Foreground(lipgloss.Color("6")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("3")),
		err:     r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}
