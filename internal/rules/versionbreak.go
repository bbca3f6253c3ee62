package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formdebug/pkg/dotpath"
	"github.com/goliatone/go-formdebug/pkg/finding"
	"github.com/goliatone/go-formdebug/pkg/formconfig"
)

const ruleVersionBreak = "version-break"

// VersionBreak compares the config's declared version against the expected
// current version and classifies the drift, then runs structural completeness
// checks on the document: missing identifiers, metadata, and empty step or
// field sequences are reported as findings rather than crashes.
func VersionBreak() Rule {
	return RuleFunc{RuleName: ruleVersionBreak, Fn: evaluateVersionBreak}
}

func evaluateVersionBreak(ctx Context) []finding.Finding {
	var findings []finding.Finding
	findings = append(findings, versionDrift(ctx)...)
	findings = append(findings, structuralChecks(ctx.Config)...)
	return findings
}

// semver holds the numeric components of a major.minor.patch string. Missing
// components parse as zero.
type semver struct {
	major, minor, patch int
}

func parseSemver(raw string) (semver, bool) {
	parts := strings.SplitN(strings.TrimSpace(raw), ".", 3)
	var out [3]int
	for idx, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return semver{}, false
		}
		out[idx] = n
	}
	return semver{major: out[0], minor: out[1], patch: out[2]}, true
}

func versionDrift(ctx Context) []finding.Finding {
	expected := strings.TrimSpace(ctx.Invariants.Versioning.CurrentVersion)
	declared := ctx.Config.Version()

	if declared == "" {
		if ctx.Config.Metadata == nil {
			// structural checks already flag the missing metadata block
			return nil
		}
		return []finding.Finding{{
			Rule:     ruleVersionBreak,
			Severity: finding.SeverityInfo,
			Title:    "Config declares no version",
			Explanation: "metadata.version is empty, so compatibility with the deployed schema cannot be checked. " +
				"Version the config to make drift detectable.",
			JSONPaths:   []string{"metadata.version"},
			FixGuidance: []string{versionFix(expected)},
		}}
	}

	if expected == "" || declared == expected {
		return nil
	}

	declaredVer, okDeclared := parseSemver(declared)
	expectedVer, okExpected := parseSemver(expected)
	if !okDeclared || !okExpected {
		return []finding.Finding{{
			Rule:     ruleVersionBreak,
			Severity: finding.SeverityWarning,
			Title:    fmt.Sprintf("Unparseable version drift: %q vs %q", declared, expected),
			Explanation: fmt.Sprintf(
				"The config declares version %q while %q is expected, and at least one side is not a major.minor.patch string, so the drift cannot be classified.",
				declared, expected),
			JSONPaths:   []string{"metadata.version"},
			FixGuidance: []string{"Use semantic major.minor.patch version strings in both the config and the invariants."},
		}}
	}

	switch {
	case declaredVer.major != expectedVer.major:
		return []finding.Finding{breakingDrift(ctx, declared, expected)}
	case declaredVer.minor != expectedVer.minor:
		return []finding.Finding{{
			Rule:     ruleVersionBreak,
			Severity: finding.SeverityInfo,
			Title:    fmt.Sprintf("Non-breaking version drift: %s vs %s", declared, expected),
			Explanation: fmt.Sprintf(
				"The config declares %s while the deployment expects %s. The minor difference should be compatible, but review the changelog before shipping.",
				declared, expected),
			JSONPaths:   []string{"metadata.version"},
			FixGuidance: []string{versionFix(expected)},
		}}
	default:
		// patch-only drift is negligible
		return nil
	}
}

func breakingDrift(ctx Context, declared, expected string) finding.Finding {
	explanation := fmt.Sprintf(
		"The config declares %s while the deployment expects %s. A major version difference implies the payload contract changed shape.",
		declared, expected)

	// concrete evidence: contract-required leaf names that no declared field covers
	declaredNames := make(map[string]bool)
	for _, name := range ctx.Config.FieldNames() {
		declaredNames[strings.ToLower(name)] = true
	}
	var missing []string
	for _, path := range ctx.Invariants.PayloadSchema.Required {
		if !declaredNames[strings.ToLower(dotpath.LastSegment(path))] {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		explanation += fmt.Sprintf(
			" The current contract requires %s, which no declared field provides.",
			strings.Join(missing, ", "))
	}

	guidance := []string{versionFix(expected)}
	for _, rule := range ctx.Invariants.Versioning.BreakingRules {
		guidance = append(guidance, fmt.Sprintf("%s: %s", rule.Path, rule.Note))
	}

	return finding.Finding{
		Rule:        ruleVersionBreak,
		Severity:    finding.SeverityWarning,
		Title:       fmt.Sprintf("Breaking version drift: %s vs %s", declared, expected),
		Explanation: explanation,
		JSONPaths:   []string{"metadata.version"},
		FixGuidance: guidance,
	}
}

func versionFix(expected string) string {
	if expected == "" {
		return "Set metadata.version to the schema version this config was authored against."
	}
	return fmt.Sprintf("Migrate the config and set metadata.version to %q.", expected)
}

func structuralChecks(cfg formconfig.FormConfig) []finding.Finding {
	var findings []finding.Finding

	if strings.TrimSpace(cfg.ID) == "" {
		findings = append(findings, structural(finding.SeverityError, "Config has no id",
			"The top-level id is missing. Configs without identifiers cannot be referenced, cached, or migrated reliably.",
			"id", "Give the config a stable unique id."))
	}

	if cfg.Metadata == nil {
		findings = append(findings, structural(finding.SeverityWarning, "Config has no metadata block",
			"The metadata block (title, version, tags) is missing entirely, so the config cannot be labelled or version-checked.",
			"metadata", "Add a metadata block with at least title and version."))
	} else if strings.TrimSpace(cfg.Metadata.Title) == "" {
		findings = append(findings, structural(finding.SeverityInfo, "Config metadata has no title",
			"metadata.title is empty; tooling and listings will show the raw id instead of a human-readable name.",
			"metadata.title", "Add a title to the metadata block."))
	}

	switch {
	case cfg.Steps == nil:
		findings = append(findings, structural(finding.SeverityError, "Config has no steps",
			"The steps sequence is missing. A form without steps renders nothing and can never collect input.",
			"steps", "Declare at least one step with fields."))
	case len(cfg.Steps) == 0:
		findings = append(findings, structural(finding.SeverityError, "Config declares an empty steps array",
			"steps is declared but empty. A form without steps renders nothing and can never collect input.",
			"steps", "Declare at least one step with fields."))
	default:
		for stepIdx, step := range cfg.Steps {
			if strings.TrimSpace(step.ID) == "" {
				findings = append(findings, structural(finding.SeverityWarning,
					fmt.Sprintf("Step at index %d has no id", stepIdx),
					"Steps without ids cannot be targeted by transitions or analytics and make duplicate detection unreliable.",
					formconfig.StepPath(stepIdx)+".id", "Give every step a unique id."))
			}
			switch {
			case step.Fields == nil:
				findings = append(findings, structural(finding.SeverityError,
					fmt.Sprintf("Step %q has no fields", stepLabel(step, stepIdx)),
					"The fields sequence is missing; the step renders as an empty page.",
					formconfig.StepPath(stepIdx)+".fields", "Declare the step's fields or remove the step."))
			case len(step.Fields) == 0:
				findings = append(findings, structural(finding.SeverityWarning,
					fmt.Sprintf("Step %q declares an empty fields array", stepLabel(step, stepIdx)),
					"fields is declared but empty; the step renders as an empty page users must still click through.",
					formconfig.StepPath(stepIdx)+".fields", "Add fields to the step or remove it."))
			}
		}
	}

	return findings
}

func structural(severity finding.Severity, title, explanation, path, fix string) finding.Finding {
	return finding.Finding{
		Rule:        ruleVersionBreak,
		Severity:    severity,
		Title:       title,
		Explanation: explanation,
		JSONPaths:   []string{path},
		FixGuidance: []string{fix},
	}
}

func stepLabel(step formconfig.Step, idx int) string {
	if strings.TrimSpace(step.ID) != "" {
		return step.ID
	}
	return fmt.Sprintf("#%d", idx)
}
