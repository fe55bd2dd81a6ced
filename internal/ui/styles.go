package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/freakms/ha-firecalltracking/internal/classify"
)

// Colors used in the application.
var (
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
)

// HeaderStyle for the card title line.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Padding(0, 1).
	MarginBottom(1)

// SelectedRow style for the currently highlighted incident.
var SelectedRow = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// NormalRow style for unselected incidents.
var NormalRow = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// MetaText style for timestamps and unit lines.
var MetaText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ActiveBadge style for the "Einsatz aktiv" indicator.
var ActiveBadge = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("196")).
	Padding(0, 1)

// ErrorStyle for the source-not-found panel.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)

// EmptyStyle for the no-incidents panel.
var EmptyStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ThemeStyle returns the foreground style for an incident's theme color.
func ThemeStyle(theme classify.Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Color)).Bold(true)
}

// ThemeGlyph maps an icon identifier to its terminal glyph.
func ThemeGlyph(theme classify.Theme) string {
	switch theme.Icon {
	case "mdi:fire":
		return "▲"
	case "mdi:car-emergency":
		return "◆"
	case "mdi:hazard-lights":
		return "⚠"
	default:
		return "●"
	}
}
