package coverage

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	coverageMessage = "Coverage status:"
	missingMessage  = "Features do not have testcases:"
	miscMessage     = "Miscellaneous testcases available:"
)

// FeatureCoverage is one row of the coverage table.
type FeatureCoverage struct {
	Feature  string
	Declared int
	Tested   int
	// Percentage is Tested*100/Declared; +Inf or NaN when nothing is declared.
	Percentage float64
}

// CategoryList is a named column of identifiers.
type CategoryList struct {
	Category string
	Items    []string
}

// Report is the result of matching a manifest against a test inventory.
type Report struct {
	Agent         string
	Coverage      []FeatureCoverage
	Missing       []CategoryList
	Miscellaneous []CategoryList
}

// Table is a titled grid ready for rendering. Rows all have len(Headers) cells.
type Table struct {
	Message string
	Headers []string
	Rows    [][]string
}

// Title returns the report heading line.
func (r *Report) Title() string {
	return "Test coverage report for " + r.Agent
}

// Tables lays the report out as the coverage, missing tests and miscellaneous tables.
func (r *Report) Tables() []Table {
	coverage := Table{
		Message: coverageMessage,
		Headers: []string{"Feature", "Percentage (%)"},
		Rows:    make([][]string, 0, len(r.Coverage)),
	}
	for _, c := range r.Coverage {
		coverage.Rows = append(coverage.Rows, []string{c.Feature, FormatPercentage(c.Percentage)})
	}

	return []Table{
		coverage,
		columnsTable(missingMessage, r.Missing),
		columnsTable(miscMessage, r.Miscellaneous),
	}
}

func columnsTable(message string, lists []CategoryList) Table {
	headers := make([]string, 0, len(lists))
	cols := make([][]string, 0, len(lists))
	for _, l := range lists {
		headers = append(headers, HeaderName(l.Category))
		cols = append(cols, l.Items)
	}
	return Table{Message: message, Headers: headers, Rows: PadColumns(cols...)}
}

// PadColumns transposes columns into rows, filling short columns with empty strings.
func PadColumns(cols ...[]string) [][]string {
	height := 0
	for _, c := range cols {
		height = max(height, len(c))
	}
	rows := make([][]string, height)
	for i := range rows {
		row := make([]string, len(cols))
		for j, c := range cols {
			if i < len(c) {
				row[j] = c[i]
			}
		}
		rows[i] = row
	}
	return rows
}

// HeaderName turns a category key into a column header: "config_sources" becomes "ConfigSources".
func HeaderName(category string) string {
	caser := cases.Title(language.Und)
	parts := strings.Split(category, "_")
	for i, p := range parts {
		parts[i] = caser.String(p)
	}
	return strings.Join(parts, "")
}

// FormatPercentage prints p with up to six significant digits: 50, 33.3333, inf.
func FormatPercentage(p float64) string {
	switch {
	case math.IsInf(p, 1):
		return "inf"
	case math.IsInf(p, -1):
		return "-inf"
	case math.IsNaN(p):
		return "nan"
	}
	return strconv.FormatFloat(p, 'g', 6, 64)
}
