package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formdebug/pkg/dotpath"
	"github.com/goliatone/go-formdebug/pkg/finding"
)

const ruleSchemaDrift = "schema-drift"

var knownMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "PATCH": true, "DELETE": true,
}

var mutatingMethods = map[string]bool{
	"POST": true, "PUT": true, "PATCH": true,
}

// placeholderHosts are substrings that mark an endpoint as scaffolding that
// was never replaced with a real URL.
var placeholderHosts = []string{
	"example.com", "example.org", "your-api", "yourdomain", "placeholder",
	"changeme", "api.example",
}

// SchemaDrift cross-checks the payload the form actually produces against the
// payload contract the target API expects, and sanity-checks the declared
// submission config.
func SchemaDrift() Rule {
	return RuleFunc{RuleName: ruleSchemaDrift, Fn: evaluateSchemaDrift}
}

func evaluateSchemaDrift(ctx Context) []finding.Finding {
	var findings []finding.Finding
	findings = append(findings, driftRequiredPaths(ctx)...)
	findings = append(findings, driftTypeMismatches(ctx)...)
	findings = append(findings, submitConfigChecks(ctx)...)
	return findings
}

func driftRequiredPaths(ctx Context) []finding.Finding {
	// A nil value map means no state was supplied at all; without a simulated
	// payload every required path would trip, so only the static checks run.
	if ctx.State.Values == nil {
		return nil
	}

	var findings []finding.Finding

	for _, path := range ctx.Invariants.PayloadSchema.Required {
		value, resolved := dotpath.Resolve(ctx.State.Values, path)
		if resolved && !dotpath.IsEmpty(value) {
			continue
		}

		guidance := []string{
			fmt.Sprintf("Populate %q before submission or mark it optional in the payload contract.", path),
		}
		if suggestion := suggestField(ctx, path); suggestion != "" {
			guidance = append(guidance, fmt.Sprintf("The form field %q looks like the source for this path; check its name and mapping.", suggestion))
		}

		findings = append(findings, finding.Finding{
			Rule:     ruleSchemaDrift,
			Severity: finding.SeverityError,
			Title:    fmt.Sprintf("Required payload path %q is missing", path),
			Explanation: fmt.Sprintf(
				"The payload contract requires %q but the value derived from the current state is missing or empty. The API will reject the submission.",
				path),
			JSONPaths:       []string{path},
			ReproducerState: ctx.State.CopyValues(),
			FixGuidance:     guidance,
		})
	}

	return findings
}

// suggestField matches a payload path's last segment against declared field
// names, so a missing "user.email" points at an "email" form field.
func suggestField(ctx Context, path string) string {
	last := strings.ToLower(dotpath.LastSegment(path))
	for _, name := range ctx.Config.FieldNames() {
		if strings.ToLower(name) == last {
			return name
		}
	}
	return ""
}

func driftTypeMismatches(ctx Context) []finding.Finding {
	types := ctx.Invariants.PayloadSchema.Types
	if len(types) == 0 {
		return nil
	}

	paths := make([]string, 0, len(types))
	for path := range types {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var findings []finding.Finding
	for _, path := range paths {
		expected := types[path]
		value, resolved := dotpath.Resolve(ctx.State.Values, path)
		if !resolved || value == nil {
			continue
		}
		actual := dotpath.TypeName(value)
		if actual == expected {
			continue
		}

		findings = append(findings, finding.Finding{
			Rule:     ruleSchemaDrift,
			Severity: finding.SeverityWarning,
			Title:    fmt.Sprintf("Type drift at payload path %q", path),
			Explanation: fmt.Sprintf(
				"The payload contract expects %s at %q but the state holds %v (%s). Strict APIs will reject the payload; lenient ones will coerce it unpredictably.",
				expected, path, value, actual),
			JSONPaths:       []string{path},
			ReproducerState: ctx.State.CopyValues(),
			FixGuidance: []string{
				fmt.Sprintf("Coerce %q to %s before building the payload (e.g. parse the input in the field's change handler).", path, expected),
				fmt.Sprintf("Or update the contract if %s is actually correct.", actual),
			},
		})
	}

	return findings
}

func submitConfigChecks(ctx Context) []finding.Finding {
	submit := ctx.Config.Submit
	if submit == nil {
		return []finding.Finding{{
			Rule:     ruleSchemaDrift,
			Severity: finding.SeverityWarning,
			Title:    "No submitConfig declared",
			Explanation: "The configuration declares no submitConfig, so the form collects values it can never deliver. " +
				"If submission is handled elsewhere this is fine; otherwise the form is a dead end.",
			JSONPaths:   []string{"submitConfig"},
			FixGuidance: []string{"Add a submitConfig with endpoint and method."},
		}}
	}

	var findings []finding.Finding
	method := strings.ToUpper(strings.TrimSpace(submit.Method))

	if method != "" && !knownMethods[method] {
		findings = append(findings, finding.Finding{
			Rule:     ruleSchemaDrift,
			Severity: finding.SeverityError,
			Title:    fmt.Sprintf("Unknown HTTP method %q", submit.Method),
			Explanation: fmt.Sprintf(
				"submitConfig.method %q is not a recognised HTTP method; the submission request cannot be constructed.",
				submit.Method),
			JSONPaths:   []string{"submitConfig.method"},
			FixGuidance: []string{"Use one of GET, POST, PUT, PATCH, DELETE."},
		})
	}

	endpoint := strings.ToLower(submit.Endpoint)
	for _, marker := range placeholderHosts {
		if strings.Contains(endpoint, marker) {
			findings = append(findings, finding.Finding{
				Rule:     ruleSchemaDrift,
				Severity: finding.SeverityError,
				Title:    "Submit endpoint looks like a placeholder",
				Explanation: fmt.Sprintf(
					"submitConfig.endpoint %q contains %q, which marks scaffolding that was never replaced. Submissions will go nowhere.",
					submit.Endpoint, marker),
				JSONPaths:   []string{"submitConfig.endpoint"},
				FixGuidance: []string{"Point the endpoint at the real API base URL for this environment."},
			})
			break
		}
	}

	if mutatingMethods[method] {
		if _, ok := submit.Header("Content-Type"); !ok {
			findings = append(findings, finding.Finding{
				Rule:     ruleSchemaDrift,
				Severity: finding.SeverityWarning,
				Title:    fmt.Sprintf("%s submission without a Content-Type header", method),
				Explanation: fmt.Sprintf(
					"submitConfig uses %s but declares no Content-Type header. Servers commonly reject or misparse bodies with a missing or defaulted content type.",
					method),
				JSONPaths:   []string{"submitConfig.headers"},
				FixGuidance: []string{`Add "Content-Type": "application/json" (or the type the API expects).`},
			})
		}
	}

	if submit.Transitions != nil && strings.TrimSpace(submit.Transitions.OnSuccess) == "" {
		findings = append(findings, finding.Finding{
			Rule:     ruleSchemaDrift,
			Severity: finding.SeverityInfo,
			Title:    "stateTransitions has no onSuccess handler",
			Explanation: "submitConfig.stateTransitions is declared but names no onSuccess transition. " +
				"After a successful submission the form stays where it is, which users read as a failure.",
			JSONPaths:   []string{"submitConfig.stateTransitions.onSuccess"},
			FixGuidance: []string{"Name the step or route to transition to on success."},
		})
	}

	return findings
}
