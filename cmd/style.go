package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	keyword = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#04B575")).
		Render

	paragraph = lipgloss.NewStyle().
		Width(78).
		Padding(0, 0, 0, 2).
		Render

	faint = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"}).
		Render

	okMark   = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Render("✓")
	skipMark = lipgloss.NewStyle().Foreground(lipgloss.Color("#EE6FF8")).Render("↷")
	failMark = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Render("✗")
	planMark = lipgloss.NewStyle().Foreground(lipgloss.Color("#5A56E0")).Render("•")

	heading = lipgloss.NewStyle().Bold(true).Render
)

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
