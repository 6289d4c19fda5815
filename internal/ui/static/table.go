// Package static provides non-interactive terminal output components.
package static

import (
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

// RenderTable creates a formatted table with proper column alignment.
// Headers and rows are rendered using lipgloss/table which automatically
// calculates column widths based on content. No borders are rendered.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var output strings.Builder

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	output.WriteString(t.String())
	output.WriteString("\n")

	return output.String()
}

// RenderList renders name/description pairs, one per line, with the
// descriptions aligned in a muted column.
func RenderList(items [][2]string) string {
	if len(items) == 0 {
		return ""
	}
	width := 0
	for _, item := range items {
		width = max(width, lipgloss.Width(item[0]))
	}

	var b strings.Builder
	muted := lipgloss.NewStyle().Faint(true)
	for _, item := range items {
		b.WriteString(item[0])
		if item[1] != "" {
			b.WriteString(strings.Repeat(" ", width-lipgloss.Width(item[0])+2))
			b.WriteString(muted.Render(item[1]))
		}
		b.WriteString("\n")
	}
	return b.String()
}
