package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/specvital/agent-coverage/internal/domain/coverage"
)

// JSONRenderer implements coverage.Renderer as indented JSON.
type JSONRenderer struct{}

// NewJSONRenderer creates a new JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

type reportDTO struct {
	Agent         string               `json:"agent"`
	Coverage      []featureCoverageDTO `json:"coverage"`
	Missing       map[string][]string  `json:"missing"`
	Miscellaneous map[string][]string  `json:"miscellaneous"`
}

// Percentage is a string because encoding/json rejects Inf and NaN.
type featureCoverageDTO struct {
	Feature    string `json:"feature"`
	Declared   int    `json:"declared"`
	Tested     int    `json:"tested"`
	Percentage string `json:"percentage"`
}

func (r *JSONRenderer) Render(w io.Writer, report *coverage.Report) error {
	dto := reportDTO{
		Agent:         report.Agent,
		Coverage:      make([]featureCoverageDTO, 0, len(report.Coverage)),
		Missing:       listsToMap(report.Missing),
		Miscellaneous: listsToMap(report.Miscellaneous),
	}
	for _, c := range report.Coverage {
		dto.Coverage = append(dto.Coverage, featureCoverageDTO{
			Feature:    c.Feature,
			Declared:   c.Declared,
			Tested:     c.Tested,
			Percentage: coverage.FormatPercentage(c.Percentage),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dto); err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}
	return nil
}

func listsToMap(lists []coverage.CategoryList) map[string][]string {
	m := make(map[string][]string, len(lists))
	for _, l := range lists {
		items := l.Items
		if items == nil {
			items = []string{}
		}
		m[l.Category] = items
	}
	return m
}
