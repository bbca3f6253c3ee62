package rules

import (
	"strings"
	"testing"

	"github.com/goliatone/go-formdebug/pkg/finding"
	"github.com/goliatone/go-formdebug/pkg/formconfig"
	"github.com/goliatone/go-formdebug/pkg/runstate"
)

func TestMutuallyExclusiveCleanConfig(t *testing.T) {
	t.Parallel()

	findings := MutuallyExclusive().Evaluate(cleanContext())
	if len(findings) != 0 {
		t.Fatalf("expected no findings, got %+v", findings)
	}
}

func TestMutuallyExclusiveBrokenDependencyReference(t *testing.T) {
	t.Parallel()

	ctx := Context{
		Config: formconfig.FormConfig{
			Steps: []formconfig.Step{{
				ID: "prefs",
				Fields: []formconfig.Field{{
					Name:       "city",
					Type:       formconfig.FieldTypeSelect,
					Dependency: &formconfig.Dependency{Parent: "missingField", Reset: true},
				}},
			}},
		},
	}

	findings := MutuallyExclusive().Evaluate(ctx)
	if len(findings) != 1 {
		t.Fatalf("want exactly one finding, got %d: %+v", len(findings), findings)
	}
	got := findings[0]
	if got.Severity != finding.SeverityError {
		t.Fatalf("broken references are errors, got %s", got.Severity)
	}
	if !strings.Contains(got.Explanation, "missingField") {
		t.Fatalf("explanation should name the missing target: %s", got.Explanation)
	}
	if got.JSONPaths[0] != "steps[0].fields[0].dependency.parent" {
		t.Fatalf("unexpected path %v", got.JSONPaths)
	}
}

func TestMutuallyExclusiveBrokenShowIfReference(t *testing.T) {
	t.Parallel()

	ctx := Context{
		Config: formconfig.FormConfig{
			Steps: []formconfig.Step{{
				ID: "prefs",
				Fields: []formconfig.Field{{
					Name:   "state",
					Type:   formconfig.FieldTypeSelect,
					ShowIf: &formconfig.Condition{Field: "country", Operator: "equals", Value: "US"},
				}},
			}},
		},
	}

	findings := MutuallyExclusive().Evaluate(ctx)
	if len(findings) != 1 || findings[0].Severity != finding.SeverityError {
		t.Fatalf("want one error, got %+v", findings)
	}
}

func TestMutuallyExclusiveSelfReference(t *testing.T) {
	t.Parallel()

	ctx := Context{
		Config: formconfig.FormConfig{
			Steps: []formconfig.Step{{
				ID: "prefs",
				Fields: []formconfig.Field{{
					Name:   "toggle",
					Type:   formconfig.FieldTypeCheckbox,
					ShowIf: &formconfig.Condition{Field: "toggle", Operator: "equals", Value: true},
				}},
			}},
		},
	}

	findings := MutuallyExclusive().Evaluate(ctx)
	if len(findings) != 1 || findings[0].Severity != finding.SeverityError {
		t.Fatalf("want one error for self-reference, got %+v", findings)
	}
	if !strings.Contains(findings[0].Explanation, "pointing at itself") {
		t.Fatalf("explanation should call out the self-reference, got %q", findings[0].Explanation)
	}
	if strings.Contains(findings[0].Explanation, "no such sibling") {
		t.Fatalf("self-reference should not claim a missing sibling, got %q", findings[0].Explanation)
	}
}

func TestMutuallyExclusiveDuplicateFieldNames(t *testing.T) {
	t.Parallel()

	ctx := Context{
		Config: formconfig.FormConfig{
			Steps: []formconfig.Step{{
				ID: "address",
				Fields: []formconfig.Field{
					{Name: "city", Type: formconfig.FieldTypeText},
					{Name: "zip", Type: formconfig.FieldTypeText},
					{Name: "city", Type: formconfig.FieldTypeSelect},
				},
			}},
		},
	}

	findings := MutuallyExclusive().Evaluate(ctx)
	if len(findings) != 1 {
		t.Fatalf("want exactly one finding, got %d: %+v", len(findings), findings)
	}
	got := findings[0]
	if got.Severity != finding.SeverityError {
		t.Fatalf("duplicates are errors, got %s", got.Severity)
	}
	wantPaths := []string{"steps[0].fields[0]", "steps[0].fields[2]"}
	if len(got.JSONPaths) != 2 || got.JSONPaths[0] != wantPaths[0] || got.JSONPaths[1] != wantPaths[1] {
		t.Fatalf("want both duplicate positions %v, got %v", wantPaths, got.JSONPaths)
	}
}

func TestMutuallyExclusiveBothTogglesSet(t *testing.T) {
	t.Parallel()

	ctx := Context{
		Config: formconfig.FormConfig{
			Steps: []formconfig.Step{{
				ID: "prefs",
				Fields: []formconfig.Field{
					{Name: "subscribe", Type: formconfig.FieldTypeCheckbox},
					{Name: "unsubscribe", Type: formconfig.FieldTypeCheckbox},
				},
			}},
		},
		State: runstate.State{Values: map[string]any{
			"subscribe":   true,
			"unsubscribe": true,
		}},
	}

	findings := MutuallyExclusive().Evaluate(ctx)
	if len(findings) != 1 || findings[0].Severity != finding.SeverityWarning {
		t.Fatalf("want one warning, got %+v", findings)
	}

	// only one toggle set is legitimate
	ctx.State.Values["unsubscribe"] = false
	if extra := MutuallyExclusive().Evaluate(ctx); len(extra) != 0 {
		t.Fatalf("single toggle flagged: %+v", extra)
	}
}

func TestMutuallyExclusiveTriggerCollision(t *testing.T) {
	t.Parallel()

	ctx := Context{
		Config: formconfig.FormConfig{
			Steps: []formconfig.Step{{
				ID: "review",
				Fields: []formconfig.Field{
					{Name: "mode", Type: formconfig.FieldTypeSelect},
					{
						Name:   "accept",
						Type:   formconfig.FieldTypeCheckbox,
						ShowIf: &formconfig.Condition{Field: "mode", Operator: "equals", Value: "review"},
					},
					{
						Name:   "decline",
						Type:   formconfig.FieldTypeCheckbox,
						ShowIf: &formconfig.Condition{Field: "mode", Operator: "equals", Value: "review"},
					},
				},
			}},
		},
	}

	findings := MutuallyExclusive().Evaluate(ctx)
	if len(findings) != 1 || findings[0].Severity != finding.SeverityWarning {
		t.Fatalf("want one warning, got %+v", findings)
	}
	if len(findings[0].JSONPaths) != 2 {
		t.Fatalf("collision should reference both showIf paths: %v", findings[0].JSONPaths)
	}

	// different comparison values cannot collide
	ctx.Config.Steps[0].Fields[2].ShowIf.Value = "audit"
	if extra := MutuallyExclusive().Evaluate(ctx); len(extra) != 0 {
		t.Fatalf("disjoint trigger values flagged: %+v", extra)
	}
}
