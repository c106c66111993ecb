package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// alignColumns renders two-column rows with the left column padded to the
// widest entry.
func alignColumns(rows [][2]string, indent string, gap int, left, right lipgloss.Style) string {
	if len(rows) == 0 {
		return ""
	}

	width := 0
	for _, row := range rows {
		if w := lipgloss.Width(row[0]); w > width {
			width = w
		}
	}

	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(indent)
		sb.WriteString(left.Render(row[0]))
		sb.WriteString(strings.Repeat(" ", width-lipgloss.Width(row[0])+gap))
		sb.WriteString(right.Render(row[1]))
		sb.WriteByte('\n')
	}
	return sb.String()
}
