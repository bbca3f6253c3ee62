package finding

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSeverityOrdering(t *testing.T) {
	t.Parallel()

	if !SeverityError.AtLeast(SeverityWarning) {
		t.Fatalf("error should outrank warning")
	}
	if !SeverityWarning.AtLeast(SeverityWarning) {
		t.Fatalf("severity should be at least itself")
	}
	if SeverityInfo.AtLeast(SeverityError) {
		t.Fatalf("info should not outrank error")
	}
	if Severity("fatal").Valid() {
		t.Fatalf("unknown severity reported valid")
	}
}

func TestParseSeverity(t *testing.T) {
	t.Parallel()

	got, err := ParseSeverity(" Warning ")
	if err != nil {
		t.Fatalf("parse severity: %v", err)
	}
	if got != SeverityWarning {
		t.Fatalf("want warning, got %s", got)
	}

	if _, err := ParseSeverity("critical"); err == nil {
		t.Fatalf("expected error for unknown severity")
	}
}

func TestCountBySeverity(t *testing.T) {
	t.Parallel()

	findings := []Finding{
		{Severity: SeverityError},
		{Severity: SeverityWarning},
		{Severity: SeverityWarning},
		{Severity: SeverityInfo},
	}

	count := CountBySeverity(findings)
	want := Count{Errors: 1, Warnings: 2, Infos: 1}
	if diff := cmp.Diff(want, count); diff != "" {
		t.Fatalf("count mismatch (-want +got):\n%s", diff)
	}
	if count.Total() != 4 {
		t.Fatalf("want total 4, got %d", count.Total())
	}
}

func TestHasSeverity(t *testing.T) {
	t.Parallel()

	findings := []Finding{
		{Severity: SeverityInfo},
		{Severity: SeverityWarning},
	}

	if HasSeverity(findings, SeverityError) {
		t.Fatalf("no error findings expected")
	}
	if !HasSeverity(findings, SeverityWarning) {
		t.Fatalf("warning findings should satisfy warning threshold")
	}
}

func TestSortStablePreservesEmissionOrderWithinSeverity(t *testing.T) {
	t.Parallel()

	findings := []Finding{
		{Severity: SeverityInfo, Title: "first info"},
		{Severity: SeverityError, Title: "first error"},
		{Severity: SeverityInfo, Title: "second info"},
		{Severity: SeverityError, Title: "second error"},
	}

	sorted := SortStable(findings)

	wantTitles := []string{"first error", "second error", "first info", "second info"}
	for i, title := range wantTitles {
		if sorted[i].Title != title {
			t.Fatalf("position %d: want %q, got %q", i, title, sorted[i].Title)
		}
	}

	// input must not be reordered
	if findings[0].Title != "first info" {
		t.Fatalf("SortStable mutated its input")
	}
}
