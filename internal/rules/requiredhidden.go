package rules

import (
	"fmt"

	"github.com/goliatone/go-formdebug/pkg/finding"
	"github.com/goliatone/go-formdebug/pkg/formconfig"
)

const ruleRequiredHidden = "required-hidden"

// RequiredHidden flags required fields the snapshot hides. A hidden required
// field cannot be filled because it is never rendered, yet validation blocks
// submission because it stays empty; the form deadlocks.
func RequiredHidden() Rule {
	return RuleFunc{RuleName: ruleRequiredHidden, Fn: evaluateRequiredHidden}
}

func evaluateRequiredHidden(ctx Context) []finding.Finding {
	var findings []finding.Finding

	for stepIdx, step := range ctx.Config.Steps {
		for fieldIdx, field := range step.Fields {
			if field.Validation == nil || !field.Validation.Required {
				continue
			}
			if !ctx.State.HiddenExplicitly(field.Name) {
				continue
			}
			findings = append(findings, requiredHiddenFinding(ctx, stepIdx, fieldIdx, field))
		}
	}

	return findings
}

func requiredHiddenFinding(ctx Context, stepIdx, fieldIdx int, field formconfig.Field) finding.Finding {
	explanation := fmt.Sprintf(
		"Field %q is required but hidden in the current state. It can never be filled because it is not rendered, yet required validation will block submission because it is empty.",
		field.Name)

	paths := []string{formconfig.FieldChildPath(stepIdx, fieldIdx, "validation.required")}
	guidance := []string{
		fmt.Sprintf("Drop validation.required from %q if the field is genuinely optional when hidden.", field.Name),
	}

	if c := field.ShowIf; c != nil {
		trigger, _ := ctx.State.Value(c.Field)
		explanation += fmt.Sprintf(
			" The hide comes from showIf {field: %q, operator: %q, value: %v}; the triggering field currently holds %v.",
			c.Field, c.Operator, c.Value, trigger)
		paths = append(paths, formconfig.FieldChildPath(stepIdx, fieldIdx, "showIf"))
		guidance = append(guidance,
			fmt.Sprintf("Invert the showIf operator so %q is visible in this state.", field.Name),
			fmt.Sprintf("Supply a defaultValue for %q that satisfies validation while hidden.", field.Name),
			fmt.Sprintf("Make the triggering field %q always visible and required itself so the condition is always decidable.", c.Field),
		)
	} else {
		guidance = append(guidance,
			fmt.Sprintf("Remove the visibility override hiding %q, since it declares no showIf of its own.", field.Name))
	}

	return finding.Finding{
		Rule:            ruleRequiredHidden,
		Severity:        finding.SeverityError,
		Title:           fmt.Sprintf("Required field %q is hidden", field.Name),
		Explanation:     explanation,
		JSONPaths:       paths,
		ReproducerState: ctx.State.CopyValues(),
		FixGuidance:     guidance,
	}
}
