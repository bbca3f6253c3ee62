package rules

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdebug/pkg/finding"
	"github.com/goliatone/go-formdebug/pkg/formconfig"
	"github.com/goliatone/go-formdebug/pkg/runstate"
)

func TestRunnerDefaultOrder(t *testing.T) {
	t.Parallel()

	runner := NewRunner()
	want := []string{
		"impossible-combo",
		"mutually-exclusive",
		"required-hidden",
		"schema-drift",
		"version-break",
	}
	if diff := cmp.Diff(want, runner.Names()); diff != "" {
		t.Fatalf("rule order mismatch (-want +got):\n%s", diff)
	}
}

func TestRunnerConcatenatesWithoutDeduplication(t *testing.T) {
	t.Parallel()

	emit := func(name, title string) Rule {
		return RuleFunc{RuleName: name, Fn: func(Context) []finding.Finding {
			return []finding.Finding{{Rule: name, Severity: finding.SeverityInfo, Title: title}}
		}}
	}

	runner := NewRunner(WithRules(
		emit("first", "shared title"),
		emit("second", "shared title"),
	))

	findings := runner.Run(Context{})
	if len(findings) != 2 {
		t.Fatalf("want both findings kept, got %+v", findings)
	}
	if findings[0].Rule != "first" || findings[1].Rule != "second" {
		t.Fatalf("rule order not preserved: %+v", findings)
	}
}

func TestRunnerDeterministic(t *testing.T) {
	t.Parallel()

	ctx := Context{
		Config: formconfig.FormConfig{
			Steps: []formconfig.Step{{
				ID: "s",
				Fields: []formconfig.Field{
					{Name: "city", Type: formconfig.FieldTypeText},
					{Name: "city", Type: formconfig.FieldTypeText},
					{
						Name:       "age",
						Type:       formconfig.FieldTypeNumber,
						Validation: &formconfig.Validation{Required: true, Min: floatPtr(0)},
					},
				},
			}},
		},
		State: runstate.State{
			Values:     map[string]any{"age": -5},
			Visibility: map[string]bool{"age": false},
		},
	}

	runner := NewRunner()
	first := runner.Run(ctx)
	second := runner.Run(ctx)

	if len(first) == 0 {
		t.Fatalf("fixture should produce findings")
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("runs diverged (-first +second):\n%s", diff)
	}
}

func TestRunnerWithExtraRules(t *testing.T) {
	t.Parallel()

	custom := RuleFunc{RuleName: "house-style", Fn: func(Context) []finding.Finding {
		return []finding.Finding{{Rule: "house-style", Severity: finding.SeverityInfo, Title: "custom"}}
	}}

	runner := NewRunner(WithExtraRules(custom))
	names := runner.Names()
	if names[len(names)-1] != "house-style" {
		t.Fatalf("extra rules append after the defaults: %v", names)
	}

	findings := runner.Run(Context{Config: cleanConfig()})
	last := findings[len(findings)-1]
	if last.Rule != "house-style" {
		t.Fatalf("custom rule findings come last: %+v", findings)
	}
}
