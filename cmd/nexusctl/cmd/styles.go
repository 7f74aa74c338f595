package cmd

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha accents.
const (
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorRed      lipgloss.Color = "#f38ba8"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorOverlay  lipgloss.Color = "#7f849c"
	colorLavender lipgloss.Color = "#b4befe"
)

var (
	okStyle      = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	errStyle     = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	nameStyle    = lipgloss.NewStyle().Foreground(colorBlue).Bold(true)
	typeStyle    = lipgloss.NewStyle().Foreground(colorOverlay)
	bindingStyle = lipgloss.NewStyle().Foreground(colorYellow)
	branchStyle  = lipgloss.NewStyle().Foreground(colorLavender)
)
