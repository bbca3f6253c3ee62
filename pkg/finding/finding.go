// Package finding defines the defect report type emitted by rule modules and
// small helpers for counting, filtering, and ordering findings. Severity is a
// closed enum with a total ordering so formatters can sort for display without
// changing the engine's emission order.
package finding

import (
	"fmt"
	"sort"
	"strings"
)

// Severity classifies how strongly a finding blocks correct form operation.
type Severity string

const (
	// SeverityError marks defects that make the form unusable, such as a
	// required field that can never be rendered.
	SeverityError Severity = "error"
	// SeverityWarning marks suspicious but survivable defects.
	SeverityWarning Severity = "warning"
	// SeverityInfo marks advisory notes, such as missing optional metadata.
	SeverityInfo Severity = "info"
)

// severityRank orders severities from most to least severe.
var severityRank = map[Severity]int{
	SeverityError:   0,
	SeverityWarning: 1,
	SeverityInfo:    2,
}

// Valid reports whether the severity is one of the known values.
func (s Severity) Valid() bool {
	_, ok := severityRank[s]
	return ok
}

// Rank returns the sort rank for the severity; lower is more severe. Unknown
// severities sort after every known value.
func (s Severity) Rank() int {
	rank, ok := severityRank[s]
	if !ok {
		return len(severityRank)
	}
	return rank
}

// AtLeast reports whether s is at least as severe as threshold.
func (s Severity) AtLeast(threshold Severity) bool {
	return s.Rank() <= threshold.Rank()
}

// ParseSeverity converts a string into a Severity, accepting any casing.
func ParseSeverity(raw string) (Severity, error) {
	s := Severity(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("finding: unknown severity %q", raw)
	}
	return s, nil
}

// Finding is one reported defect from a rule module. Findings are created
// fresh on every run and never mutated or deduplicated by the engine.
type Finding struct {
	// Rule names the rule module that emitted the finding.
	Rule string `json:"rule"`
	// Severity classifies the finding.
	Severity Severity `json:"severity"`
	// Title is a short, one-line description.
	Title string `json:"title"`
	// Explanation describes the defect and its consequence in prose.
	Explanation string `json:"explanation"`
	// JSONPaths locate the offending config elements using dot/bracket paths
	// such as "steps[0].fields[2].validation".
	JSONPaths []string `json:"jsonPaths,omitempty"`
	// ReproducerState captures the runtime values that triggered the finding.
	ReproducerState map[string]any `json:"reproducerState,omitempty"`
	// FixGuidance lists actionable remediation steps in suggested order.
	FixGuidance []string `json:"fixGuidance,omitempty"`
}

// Count tallies findings by severity.
type Count struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
}

// Total returns the number of counted findings.
func (c Count) Total() int {
	return c.Errors + c.Warnings + c.Infos
}

// CountBySeverity tallies the findings in a single pass.
func CountBySeverity(findings []Finding) Count {
	var count Count
	for _, f := range findings {
		switch f.Severity {
		case SeverityError:
			count.Errors++
		case SeverityWarning:
			count.Warnings++
		case SeverityInfo:
			count.Infos++
		}
	}
	return count
}

// HasSeverity reports whether any finding is at least as severe as threshold.
func HasSeverity(findings []Finding, threshold Severity) bool {
	for _, f := range findings {
		if f.Severity.AtLeast(threshold) {
			return true
		}
	}
	return false
}

// SortStable orders a copy of findings by severity (most severe first) while
// preserving the engine's emission order within each severity band. The input
// slice is left untouched.
func SortStable(findings []Finding) []Finding {
	out := append([]Finding(nil), findings...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.Rank() < out[j].Severity.Rank()
	})
	return out
}
