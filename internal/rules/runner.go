package rules

import "github.com/goliatone/go-formdebug/pkg/finding"

// Option customises runner construction.
type Option func(*Runner)

// WithRules replaces the default rule set with an explicit ordered list.
func WithRules(rules ...Rule) Option {
	return func(r *Runner) {
		r.rules = append([]Rule(nil), rules...)
	}
}

// WithExtraRules appends rules after the default set, preserving order.
func WithExtraRules(rules ...Rule) Option {
	return func(r *Runner) {
		r.extra = append(r.extra, rules...)
	}
}

// Runner invokes rules in a fixed order and concatenates their findings.
// Rule order is preserved across the output; within a rule the module's own
// emission order is preserved. The runner performs no deduplication: two
// rules may legitimately flag the same field for different reasons.
type Runner struct {
	rules []Rule
	extra []Rule
}

// NewRunner constructs a runner. Without options it carries the five built-in
// rules in their canonical order.
func NewRunner(options ...Option) *Runner {
	r := &Runner{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.rules == nil {
		r.rules = DefaultRules()
	}
	r.rules = append(r.rules, r.extra...)
	r.extra = nil
	return r
}

// DefaultRules returns the built-in rules in their canonical execution order.
func DefaultRules() []Rule {
	return []Rule{
		ImpossibleCombo(),
		MutuallyExclusive(),
		RequiredHidden(),
		SchemaDrift(),
		VersionBreak(),
	}
}

// Names lists the configured rule names in execution order.
func (r *Runner) Names() []string {
	names := make([]string, 0, len(r.rules))
	for _, rule := range r.rules {
		names = append(names, rule.Name())
	}
	return names
}

// Run evaluates every rule against the same context and concatenates the
// findings. A rule that panics indicates a caller contract violation (for
// example a config mutated mid-run); the panic is deliberately not recovered.
func (r *Runner) Run(ctx Context) []finding.Finding {
	var findings []finding.Finding
	for _, rule := range r.rules {
		findings = append(findings, rule.Evaluate(ctx)...)
	}
	return findings
}
