// Package testsupport centralises fixture loading and comparison helpers
// shared by the analyzer's test suites.
package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdebug/pkg/formconfig"
	"github.com/goliatone/go-formdebug/pkg/invariants"
	"github.com/goliatone/go-formdebug/pkg/runstate"
)

// MustLoadConfig reads a form configuration fixture, failing the test on any
// parse error so contract tests stay concise.
func MustLoadConfig(t *testing.T, path string) formconfig.FormConfig {
	t.Helper()

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

// LoadConfig returns a parsed configuration without requiring testing.T,
// allowing callers to wire fixtures in setup functions.
func LoadConfig(path string) (formconfig.FormConfig, error) {
	if path == "" {
		return formconfig.FormConfig{}, errors.New("testsupport: config path is required")
	}
	cfg, err := formconfig.Load(path)
	if err != nil {
		return formconfig.FormConfig{}, fmt.Errorf("testsupport: load config: %w", err)
	}
	return cfg, nil
}

// MustLoadState reads a simulated runtime state fixture.
func MustLoadState(t *testing.T, path string) runstate.State {
	t.Helper()

	state, err := runstate.Load(path)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	return state
}

// MustLoadInvariants reads a payload invariants fixture.
func MustLoadInvariants(t *testing.T, path string) invariants.Invariants {
	t.Helper()

	inv, err := invariants.Load(path)
	if err != nil {
		t.Fatalf("load invariants: %v", err)
	}
	return inv
}

// WriteFixture drops content into dir under name and returns the full path.
func WriteFixture(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an
// io.Writer, returning both the string result and the writer contents so
// tests can assert the renderer returns and writes the same payload.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
