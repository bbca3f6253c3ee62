// Package rules implements the static-analysis checks the debugger runs over
// a form configuration and a simulated runtime snapshot. Each rule is a pure
// evaluation: identical inputs produce identical findings in identical order,
// keyed by source traversal order (steps as declared, fields within a step as
// declared). Rules never mutate their inputs and treat absent optional config
// properties as "not applicable" rather than as defects.
package rules

import (
	"github.com/goliatone/go-formdebug/pkg/finding"
	"github.com/goliatone/go-formdebug/pkg/formconfig"
	"github.com/goliatone/go-formdebug/pkg/invariants"
	"github.com/goliatone/go-formdebug/pkg/runstate"
)

// Context carries the immutable inputs shared by every rule evaluation.
type Context struct {
	Config     formconfig.FormConfig
	State      runstate.State
	Invariants invariants.Invariants
}

// Rule is a single analysis check. Name identifies the rule in findings and
// CLI selection; Evaluate returns zero or more findings and never fails for
// missing optional configuration.
type Rule interface {
	Name() string
	Evaluate(ctx Context) []finding.Finding
}

// RuleFunc adapts a named function into a Rule.
type RuleFunc struct {
	RuleName string
	Fn       func(ctx Context) []finding.Finding
}

// Name returns the rule's identifier.
func (r RuleFunc) Name() string { return r.RuleName }

// Evaluate delegates to the wrapped function.
func (r RuleFunc) Evaluate(ctx Context) []finding.Finding {
	return r.Fn(ctx)
}
