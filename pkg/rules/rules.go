// Package rules re-exports the rule engine so callers depend on a stable
// public surface while the checks themselves live in internal/rules.
package rules

import internalrules "github.com/goliatone/go-formdebug/internal/rules"

// Context carries the immutable inputs shared by every rule evaluation.
type Context = internalrules.Context

// Rule is a single analysis check.
type Rule = internalrules.Rule

// RuleFunc adapts a named function into a Rule.
type RuleFunc = internalrules.RuleFunc

// Runner invokes rules in a fixed order and concatenates their findings.
type Runner = internalrules.Runner

// Option customises runner construction.
type Option = internalrules.Option

// NewRunner constructs a runner carrying the five built-in rules unless
// options say otherwise.
func NewRunner(options ...Option) *Runner {
	return internalrules.NewRunner(options...)
}

// WithRules replaces the default rule set with an explicit ordered list.
func WithRules(rules ...Rule) Option {
	return internalrules.WithRules(rules...)
}

// WithExtraRules appends rules after the default set.
func WithExtraRules(rules ...Rule) Option {
	return internalrules.WithExtraRules(rules...)
}

// DefaultRules returns the built-in rules in canonical execution order.
func DefaultRules() []Rule {
	return internalrules.DefaultRules()
}

// ImpossibleCombo detects values and validation declarations that cannot
// legally co-occur.
func ImpossibleCombo() Rule { return internalrules.ImpossibleCombo() }

// MutuallyExclusive detects conflicting intents and broken field references.
func MutuallyExclusive() Rule { return internalrules.MutuallyExclusive() }

// RequiredHidden detects required fields the snapshot hides.
func RequiredHidden() Rule { return internalrules.RequiredHidden() }

// SchemaDrift cross-checks produced payloads against the payload contract.
func SchemaDrift() Rule { return internalrules.SchemaDrift() }

// VersionBreak classifies version drift and checks structural completeness.
func VersionBreak() Rule { return internalrules.VersionBreak() }
