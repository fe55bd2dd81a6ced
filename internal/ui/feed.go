package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/freakms/ha-firecalltracking/internal/render"
)

// RenderFeed renders a view into the terminal representation.
// Pure: same view and geometry always produce the same string.
func RenderFeed(view render.View, showHeader bool, width, height int) string {
	var b strings.Builder

	if showHeader && view.Title != "" {
		b.WriteString(HeaderStyle.Render(view.Title))
		b.WriteString("\n")
	}

	switch view.Kind {
	case render.ViewError:
		b.WriteString(ErrorStyle.Render("Entität nicht gefunden: " + view.MissingEntityID))
		b.WriteString("\n")
	case render.ViewEmpty:
		b.WriteString(EmptyStyle.Render("Keine Einsätze"))
		b.WriteString("\n")
	case render.ViewList:
		for _, row := range view.Rows {
			b.WriteString(renderRow(row, false, width))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// RenderFeedWithCursor renders the list view with the row at cursor
// highlighted. Non-list views ignore the cursor.
func RenderFeedWithCursor(view render.View, showHeader bool, cursor, width, height int) string {
	if view.Kind != render.ViewList {
		return RenderFeed(view, showHeader, width, height)
	}

	var b strings.Builder
	if showHeader && view.Title != "" {
		b.WriteString(HeaderStyle.Render(view.Title))
		b.WriteString("\n")
	}

	// Reserve header and status bar space, two lines per incident row.
	maxRows := (height - 3) / 2
	if maxRows < 1 {
		maxRows = 1
	}

	offset := 0
	if cursor >= maxRows {
		offset = cursor - maxRows + 1
	}

	for i := offset; i < len(view.Rows) && i < offset+maxRows; i++ {
		b.WriteString(renderRow(view.Rows[i], i == cursor, width))
		b.WriteString("\n")
	}

	return b.String()
}

// renderRow renders one incident as a keyword line plus a meta line.
func renderRow(row render.Row, selected bool, width int) string {
	glyph := ThemeStyle(row.Theme).Render(ThemeGlyph(row.Theme))

	keyword := row.Keyword
	maxKeyword := width - 12
	if maxKeyword < 20 {
		maxKeyword = 20
	}
	if utf8.RuneCountInString(keyword) > maxKeyword {
		runes := []rune(keyword)
		keyword = string(runes[:maxKeyword-1]) + "…"
	}

	rowStyle := NormalRow
	if selected {
		rowStyle = SelectedRow
	}

	line := fmt.Sprintf("%s %s", glyph, rowStyle.Render(keyword))
	if row.Time != "" {
		line += " " + MetaText.Render(row.Time)
	}

	meta := "  " + MetaText.Render(row.Vehicles)
	if row.HasUnit {
		meta += MetaText.Render(" · " + row.Unit)
	}

	return line + "\n" + meta
}

// RenderStatusBar renders the bottom status bar with key hints and state.
func RenderStatusBar(count24h int, active bool, width int, loading bool, errText string) string {
	var left string
	switch {
	case loading:
		left = " Lade... "
	case errText != "":
		left = " " + errText + " "
	default:
		left = fmt.Sprintf(" Einsätze (24h): %d ", count24h)
	}

	if active {
		left += ActiveBadge.Render("Einsatz aktiv") + " "
	}

	keys := []string{
		StatusBarKey.Render("j/k") + StatusBarText.Render(":nav"),
		StatusBarKey.Render("r") + StatusBarText.Render(":refresh"),
		StatusBarKey.Render("q") + StatusBarText.Render(":quit"),
	}
	keyHints := strings.Join(keys, " ")

	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(keyHints)
	padding := width - leftWidth - rightWidth
	if padding < 0 {
		padding = 0
	}

	bar := left + strings.Repeat(" ", padding) + keyHints
	return StatusBar.Width(width).Render(bar)
}
