// Package formdebug statically analyzes declarative form configurations
// against a simulated runtime state and payload invariants, reporting
// logical contradictions before they reach production.
package formdebug

import (
	"context"
	"fmt"
	"os"

	"github.com/goliatone/go-formdebug/pkg/finding"
	"github.com/goliatone/go-formdebug/pkg/formconfig"
	"github.com/goliatone/go-formdebug/pkg/invariants"
	"github.com/goliatone/go-formdebug/pkg/report"
	"github.com/goliatone/go-formdebug/pkg/rules"
	"github.com/goliatone/go-formdebug/pkg/runstate"
)

// Finding is a single diagnostic emitted by a rule; alias exported via the
// root package for convenience.
type Finding = finding.Finding

// Severity orders findings from informational to blocking.
type Severity = finding.Severity

// Severity levels re-exported from pkg/finding.
const (
	SeverityError   = finding.SeverityError
	SeverityWarning = finding.SeverityWarning
	SeverityInfo    = finding.SeverityInfo
)

// FormConfig aliases the parsed form document.
type FormConfig = formconfig.FormConfig

// State aliases the simulated runtime snapshot.
type State = runstate.State

// Invariants aliases the backend payload contract.
type Invariants = invariants.Invariants

// Context carries everything a rule may inspect during one run.
type Context = rules.Context

// Rule is the contract every analysis module satisfies.
type Rule = rules.Rule

// Runner evaluates rules in a fixed order.
type Runner = rules.Runner

// Report pairs findings with severity totals for output.
type Report = report.Report

// NewRunner exposes the rule runner constructor from the top-level module.
func NewRunner(options ...rules.Option) *rules.Runner {
	return rules.NewRunner(options...)
}

// WithRules replaces the default rule set on a runner.
func WithRules(selected ...rules.Rule) rules.Option {
	return rules.WithRules(selected...)
}

// WithExtraRules appends custom rules after the built-in set.
func WithExtraRules(extra ...rules.Rule) rules.Option {
	return rules.WithExtraRules(extra...)
}

// Analyze runs the default rules over an already-loaded configuration,
// state, and invariants. It is the simplest entry point for callers that
// manage their own loading.
func Analyze(cfg formconfig.FormConfig, state runstate.State, inv invariants.Invariants, options ...rules.Option) []finding.Finding {
	runner := rules.NewRunner(options...)
	return runner.Run(rules.Context{
		Config:     cfg,
		State:      state,
		Invariants: inv,
	})
}

// FileOption configures AnalyzeFiles.
type FileOption func(*fileConfig)

type fileConfig struct {
	statePath      string
	invariantsPath string
	openapiPath    string
	operationID    string
	runnerOptions  []rules.Option
}

// WithStateFile loads the simulated runtime state from a JSON or YAML file.
func WithStateFile(path string) FileOption {
	return func(cfg *fileConfig) {
		cfg.statePath = path
	}
}

// WithInvariantsFile loads payload invariants from a JSON or YAML file.
func WithInvariantsFile(path string) FileOption {
	return func(cfg *fileConfig) {
		cfg.invariantsPath = path
	}
}

// WithOpenAPIFile derives payload invariants from an OpenAPI document.
// It is mutually exclusive with WithInvariantsFile; when both are given
// the explicit invariants file wins.
func WithOpenAPIFile(path string) FileOption {
	return func(cfg *fileConfig) {
		cfg.openapiPath = path
	}
}

// WithOperationID selects the OpenAPI operation to derive invariants from.
func WithOperationID(id string) FileOption {
	return func(cfg *fileConfig) {
		cfg.operationID = id
	}
}

// WithRunnerOptions forwards options to the underlying rule runner.
func WithRunnerOptions(options ...rules.Option) FileOption {
	return func(cfg *fileConfig) {
		cfg.runnerOptions = append(cfg.runnerOptions, options...)
	}
}

// Result is what AnalyzeFiles produces: the parsed inputs plus the ordered
// findings and a ready-to-serialize report.
type Result struct {
	Config     formconfig.FormConfig
	State      runstate.State
	Invariants invariants.Invariants
	Findings   []finding.Finding
	Report     report.Report
}

// AnalyzeFiles loads a form configuration plus optional state and
// invariants from disk, runs the default rules, and returns the findings
// bundled into a report. Missing optional inputs degrade the relevant
// rules to their structural checks rather than failing the run.
func AnalyzeFiles(ctx context.Context, configPath string, options ...FileOption) (Result, error) {
	cfg := &fileConfig{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	config, err := formconfig.Load(configPath)
	if err != nil {
		return Result{}, fmt.Errorf("formdebug: load config: %w", err)
	}

	var state runstate.State
	if cfg.statePath != "" {
		state, err = runstate.Load(cfg.statePath)
		if err != nil {
			return Result{}, fmt.Errorf("formdebug: load state: %w", err)
		}
	}

	var inv invariants.Invariants
	switch {
	case cfg.invariantsPath != "":
		inv, err = invariants.Load(cfg.invariantsPath)
		if err != nil {
			return Result{}, fmt.Errorf("formdebug: load invariants: %w", err)
		}
	case cfg.openapiPath != "":
		raw, err := os.ReadFile(cfg.openapiPath)
		if err != nil {
			return Result{}, fmt.Errorf("formdebug: read openapi document: %w", err)
		}
		inv, err = invariants.FromOpenAPI(ctx, raw, invariants.OpenAPIOptions{
			OperationID: cfg.operationID,
		})
		if err != nil {
			return Result{}, fmt.Errorf("formdebug: derive invariants: %w", err)
		}
	}

	findings := Analyze(config, state, inv, cfg.runnerOptions...)
	return Result{
		Config:     config,
		State:      state,
		Invariants: inv,
		Findings:   findings,
		Report:     report.New(findings),
	}, nil
}
