// Package report turns an ordered finding list into consumable output: a JSON
// array, JSON Lines, or template-rendered text and HTML documents. The engine
// itself mandates no serialization format; everything here is presentation.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goliatone/go-formdebug/pkg/finding"
)

// Report pairs the findings of one analysis run with severity totals.
type Report struct {
	Findings []finding.Finding `json:"findings"`
	Summary  finding.Count     `json:"summary"`
}

// New builds a report from a finding list, computing the summary. The slice
// is kept as-is: emission order is part of the engine contract.
func New(findings []finding.Finding) Report {
	if findings == nil {
		findings = []finding.Finding{}
	}
	return Report{
		Findings: findings,
		Summary:  finding.CountBySeverity(findings),
	}
}

// HasSeverity reports whether the run produced a finding at or above the
// given severity, which drives the CLI exit code.
func (r Report) HasSeverity(threshold finding.Severity) bool {
	return finding.HasSeverity(r.Findings, threshold)
}

// WriteJSON serialises the full report as an indented JSON document.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("report: encode json: %w", err)
	}
	return nil
}

// WriteJSONLines serialises one finding per line, for streaming consumers.
func (r Report) WriteJSONLines(w io.Writer) error {
	enc := json.NewEncoder(w)
	for _, f := range r.Findings {
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("report: encode finding: %w", err)
		}
	}
	return nil
}

// WriteText renders the plain-text report through a throwaway renderer.
// Callers needing theming or a custom template set should hold a Renderer.
func (r Report) WriteText(w io.Writer, options ...RendererOption) error {
	renderer, err := NewRenderer(options...)
	if err != nil {
		return err
	}
	_, err = renderer.Text(r, w)
	return err
}

// WriteHTML renders the HTML report through a throwaway renderer.
func (r Report) WriteHTML(w io.Writer, options ...RendererOption) error {
	renderer, err := NewRenderer(options...)
	if err != nil {
		return err
	}
	_, err = renderer.HTML(r, w)
	return err
}
