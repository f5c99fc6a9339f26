package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// tableGap separates columns.
const tableGap = "  "

// writeTable prints headers and rows as left-aligned columns. Column widths
// are display widths, so wide runes and styled cells stay aligned. The last
// cell of a row is never padded.
func writeTable(out io.Writer, headers []string, rows [][]string) error {
	lines := rows
	if len(headers) > 0 {
		lines = append([][]string{headers}, rows...)
	}

	var widths []int
	for _, row := range lines {
		for i, cell := range row {
			if i == len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	for _, row := range lines {
		for i, cell := range row {
			b.WriteString(cell)
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)))
				b.WriteString(tableGap)
			}
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(out, b.String())
	return err
}
