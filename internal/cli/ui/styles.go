package ui

import "github.com/charmbracelet/lipgloss"

// Styles defines all lipgloss styles used in the CLI
var Styles = struct {
	Bold lipgloss.Style
}{
	Bold: lipgloss.NewStyle().Bold(true),
}
