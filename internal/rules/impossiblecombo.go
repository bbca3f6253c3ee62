package rules

import (
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formdebug/pkg/finding"
	"github.com/goliatone/go-formdebug/pkg/formconfig"
)

const ruleImpossibleCombo = "impossible-combo"

// ImpossibleCombo detects values that cannot legally occur given declared
// validation, plus validation declarations that contradict the field type
// itself. State-driven checks fire only when the snapshot carries a value;
// static checks run on the bare config.
func ImpossibleCombo() Rule {
	return RuleFunc{RuleName: ruleImpossibleCombo, Fn: evaluateImpossibleCombo}
}

func evaluateImpossibleCombo(ctx Context) []finding.Finding {
	var findings []finding.Finding

	for stepIdx, step := range ctx.Config.Steps {
		for fieldIdx, field := range step.Fields {
			findings = append(findings, comboRangeViolation(ctx, stepIdx, fieldIdx, field)...)
			findings = append(findings, comboOptOutContradiction(ctx, step, stepIdx, fieldIdx, field)...)
			findings = append(findings, comboStaticMismatches(stepIdx, fieldIdx, field)...)
		}
	}

	return findings
}

// comboRangeViolation flags a runtime value outside the field's declared
// min/max bounds. The value can never validate, so submission is impossible.
func comboRangeViolation(ctx Context, stepIdx, fieldIdx int, field formconfig.Field) []finding.Finding {
	v := field.Validation
	if v == nil || (v.Min == nil && v.Max == nil) {
		return nil
	}

	raw, ok := ctx.State.Value(field.Name)
	if !ok {
		return nil
	}
	value, ok := coerceNumber(raw)
	if !ok {
		return nil
	}

	belowMin := v.Min != nil && value < *v.Min
	aboveMax := v.Max != nil && value > *v.Max
	if !belowMin && !aboveMax {
		return nil
	}

	bound, boundKey, limit := "minimum", "min", 0.0
	if belowMin {
		limit = *v.Min
	} else {
		bound, boundKey = "maximum", "max"
		limit = *v.Max
	}

	guidance := []string{
		fmt.Sprintf("Clamp or reject %q values outside the declared bounds before they reach state.", field.Name),
	}
	if v.Min != nil && v.Max != nil {
		guidance = append(guidance, fmt.Sprintf("Keep %q between %v and %v, or widen validation.min/validation.max if the bounds are wrong.", field.Name, *v.Min, *v.Max))
	} else {
		guidance = append(guidance, fmt.Sprintf("Adjust validation.%s on %q if %v is actually a legal value.", boundKey, field.Name, value))
	}

	return []finding.Finding{{
		Rule:     ruleImpossibleCombo,
		Severity: finding.SeverityError,
		Title:    fmt.Sprintf("Value of %q violates its declared %s", field.Name, bound),
		Explanation: fmt.Sprintf(
			"Field %q holds %v but declares a %s of %v. The value can never pass validation, so the form cannot be submitted while it is set.",
			field.Name, raw, bound, limit),
		JSONPaths:       []string{formconfig.FieldChildPath(stepIdx, fieldIdx, "validation")},
		ReproducerState: ctx.State.CopyValues(),
		FixGuidance:     guidance,
	}}
}

// optOutMarkers are naming conventions for boolean opt-out toggles. A truthy
// toggle alongside a populated counterpart field is self-contradictory.
var optOutMarkers = []string{"optout", "opt_out", "opt-out"}

func comboOptOutContradiction(ctx Context, step formconfig.Step, stepIdx, fieldIdx int, field formconfig.Field) []finding.Finding {
	lower := strings.ToLower(field.Name)
	stem := ""
	for _, marker := range optOutMarkers {
		if strings.HasSuffix(lower, marker) && len(lower) > len(marker) {
			stem = strings.Trim(lower[:len(lower)-len(marker)], "_-")
			break
		}
	}
	if stem == "" {
		return nil
	}

	toggled, ok := ctx.State.Value(field.Name)
	if !ok || !truthy(toggled) {
		return nil
	}

	for siblingIdx, sibling := range step.Fields {
		if !strings.EqualFold(sibling.Name, stem) {
			continue
		}
		value, ok := ctx.State.Value(sibling.Name)
		if !ok || !truthy(value) {
			continue
		}
		return []finding.Finding{{
			Rule:     ruleImpossibleCombo,
			Severity: finding.SeverityWarning,
			Title:    fmt.Sprintf("%q is set while %q opts out", sibling.Name, field.Name),
			Explanation: fmt.Sprintf(
				"Field %q carries %v while %q is enabled. Collecting a value the user opted out of is contradictory and usually points at stale state or a missing reset dependency.",
				sibling.Name, value, field.Name),
			JSONPaths: []string{
				formconfig.FieldPath(stepIdx, siblingIdx),
				formconfig.FieldPath(stepIdx, fieldIdx),
			},
			ReproducerState: ctx.State.CopyValues(),
			FixGuidance: []string{
				fmt.Sprintf("Add a dependency on %q that resets %q when the opt-out is enabled.", field.Name, sibling.Name),
				fmt.Sprintf("Hide %q with showIf while %q is true.", sibling.Name, field.Name),
			},
		}}
	}
	return nil
}

func comboStaticMismatches(stepIdx, fieldIdx int, field formconfig.Field) []finding.Finding {
	var findings []finding.Finding

	if v := field.Validation; v != nil {
		if v.Email && field.Type != formconfig.FieldTypeEmail {
			findings = append(findings, finding.Finding{
				Rule:     ruleImpossibleCombo,
				Severity: finding.SeverityWarning,
				Title:    fmt.Sprintf("Email validation on non-email field %q", field.Name),
				Explanation: fmt.Sprintf(
					"Field %q declares validation.email but its type is %q. Browsers will not apply email input semantics and the validator may disagree with the rendered control.",
					field.Name, field.Type),
				JSONPaths: []string{formconfig.FieldChildPath(stepIdx, fieldIdx, "validation.email")},
				FixGuidance: []string{
					fmt.Sprintf("Change %q to \"type\": \"email\".", field.Name),
					"Or drop validation.email and rely on a pattern instead.",
				},
			})
		}

		if v.Pattern != "" && field.Type == formconfig.FieldTypeNumber {
			findings = append(findings, finding.Finding{
				Rule:     ruleImpossibleCombo,
				Severity: finding.SeverityWarning,
				Title:    fmt.Sprintf("Pattern validation on number field %q", field.Name),
				Explanation: fmt.Sprintf(
					"Field %q is numeric but declares the pattern %q. Patterns only apply to string inputs; on a number field the pattern is silently ignored or coerces the value to text.",
					field.Name, v.Pattern),
				JSONPaths: []string{formconfig.FieldChildPath(stepIdx, fieldIdx, "validation.pattern")},
				FixGuidance: []string{
					"Replace the pattern with validation.min/validation.max bounds.",
					fmt.Sprintf("Or change %q to a text type if the pattern is intentional.", field.Name),
				},
			})
		}

		if v.Pattern != "" && (v.MinLength != nil || v.MaxLength != nil) {
			findings = append(findings, finding.Finding{
				Rule:     ruleImpossibleCombo,
				Severity: finding.SeverityInfo,
				Title:    fmt.Sprintf("Pattern and length constraints overlap on %q", field.Name),
				Explanation: fmt.Sprintf(
					"Field %q combines a pattern with minLength/maxLength. The constraints can disagree about which inputs are legal; encode the length bounds inside the pattern or drop one side.",
					field.Name),
				JSONPaths: []string{formconfig.FieldChildPath(stepIdx, fieldIdx, "validation")},
				FixGuidance: []string{
					fmt.Sprintf("Fold the length bounds into the pattern, e.g. %q.", lengthBoundedPattern(v)),
				},
			})
		}

		if v.Required {
			if s, ok := field.DefaultValue.(string); ok && s == "" {
				findings = append(findings, finding.Finding{
					Rule:     ruleImpossibleCombo,
					Severity: finding.SeverityWarning,
					Title:    fmt.Sprintf("Required field %q defaults to an empty string", field.Name),
					Explanation: fmt.Sprintf(
						"Field %q is required but declares defaultValue \"\". The empty default makes the field look populated at initial render while still failing required validation on submit.",
						field.Name),
					JSONPaths: []string{formconfig.FieldChildPath(stepIdx, fieldIdx, "defaultValue")},
					FixGuidance: []string{
						"Remove the defaultValue so the field renders as untouched.",
						"Or supply a meaningful non-empty default.",
					},
				})
			}
		}
	}

	if field.Label != "" {
		cleaned := strings.TrimSpace(labelPolicy().Sanitize(field.Label))
		if cleaned != strings.TrimSpace(field.Label) {
			findings = append(findings, finding.Finding{
				Rule:     ruleImpossibleCombo,
				Severity: finding.SeverityInfo,
				Title:    fmt.Sprintf("Label of %q contains markup", field.Name),
				Explanation: fmt.Sprintf(
					"The label of %q does not survive strict HTML sanitisation (%q becomes %q). Renderers that escape labels will show the raw markup to users.",
					field.Name, field.Label, cleaned),
				JSONPaths: []string{formconfig.FieldChildPath(stepIdx, fieldIdx, "label")},
				FixGuidance: []string{
					"Use plain text in labels; move rich content into a description or help text slot.",
				},
			})
		}
	}

	return findings
}

func lengthBoundedPattern(v *formconfig.Validation) string {
	lo, hi := "0", ""
	if v.MinLength != nil {
		lo = fmt.Sprint(*v.MinLength)
	}
	if v.MaxLength != nil {
		hi = fmt.Sprint(*v.MaxLength)
	}
	body := strings.Trim(v.Pattern, "^$")
	return fmt.Sprintf("^(?=.{%s,%s}$)%s$", lo, hi, body)
}

var (
	labelPolicyOnce sync.Once
	labelSanitizer  *bluemonday.Policy
)

func labelPolicy() *bluemonday.Policy {
	labelPolicyOnce.Do(func() {
		labelSanitizer = bluemonday.StrictPolicy()
	})
	return labelSanitizer
}
