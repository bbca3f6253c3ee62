package formdebug_test

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	formdebug "github.com/goliatone/go-formdebug"
	"github.com/goliatone/go-formdebug/pkg/finding"
	"github.com/goliatone/go-formdebug/pkg/testsupport"
)

const cleanConfigJSON = `{
  "id": "signup-form",
  "metadata": {"title": "Signup", "version": "1.0.0"},
  "steps": [
    {
      "id": "account",
      "title": "Account",
      "fields": [
        {"name": "email", "type": "email", "label": "Email", "validation": {"required": true, "email": true}},
        {"name": "country", "type": "select", "label": "Country", "options": [{"value": "us", "label": "US"}]}
      ]
    }
  ],
  "submitConfig": {
    "endpoint": "https://api.acme.dev/signup",
    "method": "POST",
    "headers": {"Content-Type": "application/json"},
    "stateTransitions": {"onSuccess": "done"}
  }
}`

const brokenConfigJSON = `{
  "id": "signup-form",
  "metadata": {"title": "Signup", "version": "1.0.0"},
  "steps": [
    {
      "id": "account",
      "title": "Account",
      "fields": [
        {"name": "email", "type": "email", "label": "Email", "validation": {"required": true, "email": true}},
        {"name": "age", "type": "number", "label": "Age", "validation": {"min": 18, "max": 99}}
      ]
    }
  ],
  "submitConfig": {
    "endpoint": "https://api.acme.dev/signup",
    "method": "POST",
    "headers": {"Content-Type": "application/json"},
    "stateTransitions": {"onSuccess": "done"}
  }
}`

const brokenStateJSON = `{
  "values": {"email": "a@b.co", "age": 12},
  "visibility": {"email": false, "age": true}
}`

const invariantsJSON = `{
  "payloadSchema": {
    "required": ["email", "referrer"],
    "types": {"email": "string", "age": "number"}
  },
  "versioning": {"currentVersion": "1.0.0"}
}`

func TestAnalyzeFilesCleanRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configPath := testsupport.WriteFixture(t, dir, "config.json", cleanConfigJSON)
	statePath := testsupport.WriteFixture(t, dir, "state.json", `{"values": {"email": "a@b.co"}, "visibility": {"email": true}}`)
	invPath := testsupport.WriteFixture(t, dir, "invariants.json", `{
  "payloadSchema": {"required": ["email"], "types": {"email": "string"}},
  "versioning": {"currentVersion": "1.0.0"}
}`)

	result, err := formdebug.AnalyzeFiles(testsupport.Context(), configPath,
		formdebug.WithStateFile(statePath),
		formdebug.WithInvariantsFile(invPath),
	)
	if err != nil {
		t.Fatalf("AnalyzeFiles: %v", err)
	}

	if len(result.Findings) != 0 {
		t.Fatalf("expected clean run, got %d findings: %+v", len(result.Findings), result.Findings)
	}
	if result.Config.ID != "signup-form" {
		t.Fatalf("config id %q, want %q", result.Config.ID, "signup-form")
	}
	if result.Report.Summary.Total() != 0 {
		t.Fatalf("expected empty summary, got %+v", result.Report.Summary)
	}
}

func TestAnalyzeFilesBrokenRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configPath := testsupport.WriteFixture(t, dir, "config.json", brokenConfigJSON)
	statePath := testsupport.WriteFixture(t, dir, "state.json", brokenStateJSON)
	invPath := testsupport.WriteFixture(t, dir, "invariants.json", invariantsJSON)

	result, err := formdebug.AnalyzeFiles(testsupport.Context(), configPath,
		formdebug.WithStateFile(statePath),
		formdebug.WithInvariantsFile(invPath),
	)
	if err != nil {
		t.Fatalf("AnalyzeFiles: %v", err)
	}

	byRule := map[string][]formdebug.Finding{}
	for _, f := range result.Findings {
		byRule[f.Rule] = append(byRule[f.Rule], f)
	}

	// age=12 sits below the declared minimum of 18.
	combos := byRule["impossible-combo"]
	if len(combos) != 1 || combos[0].Severity != formdebug.SeverityError {
		t.Fatalf("impossible-combo findings: %+v", combos)
	}

	// email is required yet the state hides it.
	hidden := byRule["required-hidden"]
	if len(hidden) != 1 || hidden[0].Severity != formdebug.SeverityError {
		t.Fatalf("required-hidden findings: %+v", hidden)
	}

	// the payload contract requires "referrer" which no field produces.
	drift := byRule["schema-drift"]
	if len(drift) != 1 || drift[0].Severity != formdebug.SeverityError {
		t.Fatalf("schema-drift findings: %+v", drift)
	}
	if diff := cmp.Diff([]string{"referrer"}, drift[0].JSONPaths); diff != "" {
		t.Fatalf("schema-drift paths (-want +got):\n%s", diff)
	}
}

func TestAnalyzeFilesOrderGroupedByRule(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configPath := testsupport.WriteFixture(t, dir, "config.json", brokenConfigJSON)
	statePath := testsupport.WriteFixture(t, dir, "state.json", brokenStateJSON)
	invPath := testsupport.WriteFixture(t, dir, "invariants.json", invariantsJSON)

	result, err := formdebug.AnalyzeFiles(testsupport.Context(), configPath,
		formdebug.WithStateFile(statePath),
		formdebug.WithInvariantsFile(invPath),
	)
	if err != nil {
		t.Fatalf("AnalyzeFiles: %v", err)
	}

	order := []string{"impossible-combo", "mutually-exclusive", "required-hidden", "schema-drift", "version-break"}
	rank := map[string]int{}
	for i, name := range order {
		rank[name] = i
	}

	last := -1
	for _, f := range result.Findings {
		r, ok := rank[f.Rule]
		if !ok {
			t.Fatalf("unexpected rule %q", f.Rule)
		}
		if r < last {
			t.Fatalf("findings not grouped in runner order: %q after rank %d", f.Rule, last)
		}
		last = r
	}
}

func TestAnalyzeFilesMissingOptionalInputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configPath := testsupport.WriteFixture(t, dir, "config.json", cleanConfigJSON)

	result, err := formdebug.AnalyzeFiles(testsupport.Context(), configPath)
	if err != nil {
		t.Fatalf("AnalyzeFiles: %v", err)
	}

	// Without state or invariants only structural and static checks run; the
	// clean config should still pass them all.
	if len(result.Findings) != 0 {
		t.Fatalf("expected no findings, got: %+v", result.Findings)
	}
}

func TestAnalyzeFilesConfigLoadError(t *testing.T) {
	t.Parallel()

	_, err := formdebug.AnalyzeFiles(testsupport.Context(), filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error for missing config")
	}
}

func TestAnalyzeFilesOpenAPIInvariants(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configPath := testsupport.WriteFixture(t, dir, "config.json", cleanConfigJSON)
	openapiPath := testsupport.WriteFixture(t, dir, "api.json", `{
  "openapi": "3.0.3",
  "info": {"title": "Signup API", "version": "1.0.0"},
  "paths": {
    "/signup": {
      "post": {
        "operationId": "createSignup",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["email"],
                "properties": {
                  "email": {"type": "string"},
                  "country": {"type": "string"}
                }
              }
            }
          }
        },
        "responses": {"201": {"description": "created"}}
      }
    }
  }
}`)

	result, err := formdebug.AnalyzeFiles(testsupport.Context(), configPath,
		formdebug.WithOpenAPIFile(openapiPath),
		formdebug.WithOperationID("createSignup"),
	)
	if err != nil {
		t.Fatalf("AnalyzeFiles: %v", err)
	}

	if got := result.Invariants.Versioning.CurrentVersion; got != "1.0.0" {
		t.Fatalf("derived version %q, want %q", got, "1.0.0")
	}
	if len(result.Findings) != 0 {
		t.Fatalf("expected no findings, got: %+v", result.Findings)
	}
}

func TestAnalyzeWithExtraRules(t *testing.T) {
	t.Parallel()

	custom := formdebug.NewRunner(formdebug.WithExtraRules(markerRule{}))

	findings := custom.Run(formdebug.Context{})
	if len(findings) == 0 {
		t.Fatal("expected findings from extra rule")
	}
	lastFinding := findings[len(findings)-1]
	if lastFinding.Rule != "marker" {
		t.Fatalf("expected extra rule to run last, got %q", lastFinding.Rule)
	}
}

type markerRule struct{}

func (markerRule) Name() string { return "marker" }

func (markerRule) Evaluate(formdebug.Context) []finding.Finding {
	return []finding.Finding{{Rule: "marker", Severity: finding.SeverityInfo, Title: "marker"}}
}
