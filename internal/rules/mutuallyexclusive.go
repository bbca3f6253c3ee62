package rules

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formdebug/pkg/finding"
	"github.com/goliatone/go-formdebug/pkg/formconfig"
)

const ruleMutuallyExclusive = "mutually-exclusive"

// exclusivePairs are name conventions that encode an exclusive-or intent.
// Matching is case-insensitive on the whole field name.
var exclusivePairs = [][2]string{
	{"subscribe", "unsubscribe"},
	{"accept", "decline"},
	{"optin", "optout"},
	{"enable", "disable"},
	{"approve", "reject"},
}

// MutuallyExclusive detects conflicting boolean intents in runtime state,
// visibility groups that can surface opposite choices at once, and the static
// referential defects that break conditional fields outright: dangling or
// self-referential showIf/dependency targets and duplicate field names.
func MutuallyExclusive() Rule {
	return RuleFunc{RuleName: ruleMutuallyExclusive, Fn: evaluateMutuallyExclusive}
}

func evaluateMutuallyExclusive(ctx Context) []finding.Finding {
	var findings []finding.Finding

	for stepIdx, step := range ctx.Config.Steps {
		findings = append(findings, exclusiveValueConflicts(ctx, step, stepIdx)...)
		findings = append(findings, exclusiveTriggerCollisions(step, stepIdx)...)
		findings = append(findings, brokenReferences(step, stepIdx)...)
		findings = append(findings, duplicateNames(step, stepIdx)...)
	}

	return findings
}

// exclusivePairIndices returns the positions of a known exclusive pair inside
// the step, or ok=false when none is declared.
func exclusivePairIndices(step formconfig.Step) (int, int, bool) {
	for _, pair := range exclusivePairs {
		first, second := -1, -1
		for idx, field := range step.Fields {
			switch {
			case strings.EqualFold(field.Name, pair[0]):
				first = idx
			case strings.EqualFold(field.Name, pair[1]):
				second = idx
			}
		}
		if first >= 0 && second >= 0 {
			return first, second, true
		}
	}
	return 0, 0, false
}

func exclusiveValueConflicts(ctx Context, step formconfig.Step, stepIdx int) []finding.Finding {
	first, second, ok := exclusivePairIndices(step)
	if !ok {
		return nil
	}

	a, b := step.Fields[first], step.Fields[second]
	valueA, okA := ctx.State.Value(a.Name)
	valueB, okB := ctx.State.Value(b.Name)
	if !okA || !okB || !truthy(valueA) || !truthy(valueB) {
		return nil
	}

	return []finding.Finding{{
		Rule:     ruleMutuallyExclusive,
		Severity: finding.SeverityWarning,
		Title:    fmt.Sprintf("%q and %q are both set", a.Name, b.Name),
		Explanation: fmt.Sprintf(
			"Fields %q and %q encode opposite intents but are simultaneously enabled in the current state. Whichever the submit handler reads last wins, which is almost certainly not what the user meant.",
			a.Name, b.Name),
		JSONPaths: []string{
			formconfig.FieldPath(stepIdx, first),
			formconfig.FieldPath(stepIdx, second),
		},
		ReproducerState: ctx.State.CopyValues(),
		FixGuidance: []string{
			fmt.Sprintf("Model %q/%q as a single radio group so only one can be selected.", a.Name, b.Name),
			"Or add dependencies that reset one field when the other is enabled.",
		},
	}}
}

// exclusiveTriggerCollisions groups fields by their showIf trigger and
// comparison value. A group that contains a known exclusive pair means both
// halves become visible together on the same trigger state.
func exclusiveTriggerCollisions(step formconfig.Step, stepIdx int) []finding.Finding {
	type member struct {
		idx   int
		field formconfig.Field
	}
	groups := make(map[string][]member)
	var keys []string

	for idx, field := range step.Fields {
		if field.ShowIf == nil || field.ShowIf.Field == "" {
			continue
		}
		key := field.ShowIf.Field + "\x00" + stringify(field.ShowIf.Value)
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], member{idx: idx, field: field})
	}

	var findings []finding.Finding
	for _, key := range keys {
		members := groups[key]
		if len(members) < 2 {
			continue
		}
		for _, pair := range exclusivePairs {
			first, second := -1, -1
			for _, m := range members {
				switch {
				case strings.EqualFold(m.field.Name, pair[0]):
					first = m.idx
				case strings.EqualFold(m.field.Name, pair[1]):
					second = m.idx
				}
			}
			if first < 0 || second < 0 {
				continue
			}
			trigger := step.Fields[first].ShowIf
			findings = append(findings, finding.Finding{
				Rule:     ruleMutuallyExclusive,
				Severity: finding.SeverityWarning,
				Title:    fmt.Sprintf("%q and %q become visible together", step.Fields[first].Name, step.Fields[second].Name),
				Explanation: fmt.Sprintf(
					"Both fields share the trigger %q with comparison value %v, so the form shows two opposite choices at the same time. Users can set both, producing contradictory state.",
					trigger.Field, trigger.Value),
				JSONPaths: []string{
					formconfig.FieldChildPath(stepIdx, first, "showIf"),
					formconfig.FieldChildPath(stepIdx, second, "showIf"),
				},
				FixGuidance: []string{
					"Invert one condition so the fields are alternatives, not siblings.",
					"Or collapse the pair into one select/radio field.",
				},
			})
		}
	}
	return findings
}

func brokenReferences(step formconfig.Step, stepIdx int) []finding.Finding {
	var findings []finding.Finding

	for idx, field := range step.Fields {
		if c := field.ShowIf; c != nil && c.Field != "" {
			switch {
			case c.Field == field.Name:
				findings = append(findings, selfReferenceFinding(step, stepIdx, idx, "showIf.field",
					"a field cannot gate its own visibility; it would never appear once hidden"))
			case !step.HasField(c.Field):
				findings = append(findings, referenceFinding(step, stepIdx, idx, "showIf.field", c.Field,
					"the condition can never evaluate, so the field is stuck in its initial visibility"))
			}
		}
		if d := field.Dependency; d != nil && d.Parent != "" {
			switch {
			case d.Parent == field.Name:
				findings = append(findings, selfReferenceFinding(step, stepIdx, idx, "dependency.parent",
					"a field cannot depend on itself; reset/disable behaviour would loop"))
			case !step.HasField(d.Parent):
				findings = append(findings, referenceFinding(step, stepIdx, idx, "dependency.parent", d.Parent,
					"the declared reset/disable behaviour can never fire"))
			}
		}
	}

	return findings
}

func selfReferenceFinding(step formconfig.Step, stepIdx, fieldIdx int, property, consequence string) finding.Finding {
	field := step.Fields[fieldIdx]
	return finding.Finding{
		Rule:     ruleMutuallyExclusive,
		Severity: finding.SeverityError,
		Title:    fmt.Sprintf("%s of %q references itself", property, field.Name),
		Explanation: fmt.Sprintf(
			"Field %q declares %s = %q, pointing at itself: %s.",
			field.Name, property, field.Name, consequence),
		JSONPaths: []string{formconfig.FieldChildPath(stepIdx, fieldIdx, property)},
		FixGuidance: []string{
			fmt.Sprintf("Point %s at a different sibling in step %q, or remove it.", property, step.ID),
		},
	}
}

func referenceFinding(step formconfig.Step, stepIdx, fieldIdx int, property, target, consequence string) finding.Finding {
	field := step.Fields[fieldIdx]
	return finding.Finding{
		Rule:     ruleMutuallyExclusive,
		Severity: finding.SeverityError,
		Title:    fmt.Sprintf("%s of %q references %q", property, field.Name, target),
		Explanation: fmt.Sprintf(
			"Field %q declares %s = %q but no such sibling exists in step %q (cross-step references are unsupported): %s.",
			field.Name, property, target, step.ID, consequence),
		JSONPaths: []string{formconfig.FieldChildPath(stepIdx, fieldIdx, property)},
		FixGuidance: []string{
			fmt.Sprintf("Add a field named %q to step %q, or point %s at an existing sibling.", target, step.ID, property),
		},
	}
}

func duplicateNames(step formconfig.Step, stepIdx int) []finding.Finding {
	index := make(map[string][]int)
	var order []string
	for idx, field := range step.Fields {
		if field.Name == "" {
			continue
		}
		if _, seen := index[field.Name]; !seen {
			order = append(order, field.Name)
		}
		index[field.Name] = append(index[field.Name], idx)
	}

	var findings []finding.Finding
	for _, name := range order {
		positions := index[name]
		if len(positions) < 2 {
			continue
		}
		paths := make([]string, 0, len(positions))
		for _, pos := range positions {
			paths = append(paths, formconfig.FieldPath(stepIdx, pos))
		}
		findings = append(findings, finding.Finding{
			Rule:     ruleMutuallyExclusive,
			Severity: finding.SeverityError,
			Title:    fmt.Sprintf("Duplicate field name %q in step %q", name, step.ID),
			Explanation: fmt.Sprintf(
				"Step %q declares %d fields named %q. They share one state entry, so every change overwrites the others and the form state is silently corrupted.",
				step.ID, len(positions), name),
			JSONPaths: paths,
			FixGuidance: []string{
				fmt.Sprintf("Rename the duplicates so every field in step %q has a unique name.", step.ID),
			},
		})
	}
	return findings
}
