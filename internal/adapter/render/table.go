// Package render writes coverage reports for humans and for machines.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/specvital/agent-coverage/internal/domain/coverage"
)

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// TableRenderer implements coverage.Renderer with box-drawn grids.
type TableRenderer struct{}

// NewTableRenderer creates a new TableRenderer.
func NewTableRenderer() *TableRenderer {
	return &TableRenderer{}
}

// Render writes the title followed by each table under its message line.
func (r *TableRenderer) Render(w io.Writer, report *coverage.Report) error {
	var b strings.Builder
	b.WriteString(report.Title())
	for _, t := range report.Tables() {
		b.WriteString("\n")
		b.WriteString(t.Message)
		b.WriteString("\n")
		b.WriteString(Grid(t))
	}
	b.WriteString("\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write table report: %w", err)
	}
	return nil
}

// Grid draws t with a separator under every row.
func Grid(t coverage.Table) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(true).
		StyleFunc(func(row, col int) lipgloss.Style { return cellStyle }).
		Headers(t.Headers...).
		Rows(t.Rows...).
		String()
}
