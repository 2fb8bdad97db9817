package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette holds the styles shared by every view in the catalog browser.
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

var styles = Palette{
	title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).MarginBottom(1),
	ok:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575")),
	err:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5F87")),
	warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")),
	help: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.AdaptiveColor{
		Light: "#909090",
		Dark:  "#626262",
	}),
}
