package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	formdebug "github.com/goliatone/go-formdebug"
	"github.com/goliatone/go-formdebug/pkg/finding"
	"github.com/goliatone/go-formdebug/pkg/report"
	"github.com/goliatone/go-formdebug/pkg/rules"
)

// Exit codes: 0 no findings at or above the threshold, 1 findings at or
// above the threshold, 2 usage or load error.
const (
	exitOK       = 0
	exitFindings = 1
	exitFatal    = 2
)

var ruleOrder = []string{
	"impossible-combo",
	"mutually-exclusive",
	"required-hidden",
	"schema-drift",
	"version-break",
}

var ruleConstructors = map[string]func() rules.Rule{
	"impossible-combo":   rules.ImpossibleCombo,
	"mutually-exclusive": rules.MutuallyExclusive,
	"required-hidden":    rules.RequiredHidden,
	"schema-drift":       rules.SchemaDrift,
	"version-break":      rules.VersionBreak,
}

var formats = []string{"text", "json", "jsonl", "html"}

func main() {
	var (
		statePath      = flag.String("state", "", "path to a simulated runtime state file (JSON or YAML)")
		invariantsPath = flag.String("invariants", "", "path to a payload invariants file (JSON or YAML)")
		openapiPath    = flag.String("openapi", "", "derive invariants from an OpenAPI document")
		operationID    = flag.String("operation", "", "OpenAPI operation to derive invariants from")
		format         = flag.String("format", "text", "output format: text, json, jsonl, html")
		failOn         = flag.String("fail-on", "error", "lowest severity that fails the run: error, warning, info")
		ruleList       = flag.String("rules", "", "comma-separated rules to run (default: all)")
		outputPath     = flag.String("output", "", "write the report to a file instead of stdout")
		themeName      = flag.String("theme", "", "built-in theme for html output: "+strings.Join(builtinThemeNames(), ", "))
		themeVariant   = flag.String("variant", "", "theme variant for html output")
		interactive    = flag.Bool("interactive", false, "pick rules, format, and threshold interactively")
	)

	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Usage: %s [flags] <config.(json|yaml)>\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(out, "\nAnalyze a declarative form configuration for logical contradictions.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(exitFatal)
	}
	configPath := flag.Arg(0)

	selected := ruleOrder
	if *ruleList != "" {
		selected = splitRuleList(*ruleList)
	}

	ctx := context.Background()

	if *interactive {
		choices, err := promptChoices(ctx, interactiveDefaults{
			rules:  selected,
			format: *format,
			failOn: *failOn,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "interactive setup: %v\n", err)
			os.Exit(exitFatal)
		}
		selected = choices.rules
		*format = choices.format
		*failOn = choices.failOn
	}

	threshold, err := finding.ParseSeverity(*failOn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -fail-on value: %v\n", err)
		os.Exit(exitFatal)
	}

	ruleSet, err := resolveRules(selected)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(exitFatal)
	}

	options := []formdebug.FileOption{
		formdebug.WithRunnerOptions(rules.WithRules(ruleSet...)),
	}
	if *statePath != "" {
		options = append(options, formdebug.WithStateFile(*statePath))
	}
	if *invariantsPath != "" {
		options = append(options, formdebug.WithInvariantsFile(*invariantsPath))
	}
	if *openapiPath != "" {
		options = append(options, formdebug.WithOpenAPIFile(*openapiPath))
	}
	if *operationID != "" {
		options = append(options, formdebug.WithOperationID(*operationID))
	}

	result, err := formdebug.AnalyzeFiles(ctx, configPath, options...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analyze %s: %v\n", configPath, err)
		os.Exit(exitFatal)
	}

	out := io.Writer(os.Stdout)
	if *outputPath != "" {
		file, err := os.Create(*outputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "create output: %v\n", err)
			os.Exit(exitFatal)
		}
		defer file.Close()
		out = file
	}

	if err := emit(result, *format, *themeName, *themeVariant, out); err != nil {
		fmt.Fprintf(os.Stderr, "render report: %v\n", err)
		os.Exit(exitFatal)
	}

	if result.Report.HasSeverity(threshold) {
		os.Exit(exitFindings)
	}
	os.Exit(exitOK)
}

func emit(result formdebug.Result, format, themeName, themeVariant string, out io.Writer) error {
	switch format {
	case "json":
		return result.Report.WriteJSON(out)
	case "jsonl":
		return result.Report.WriteJSONLines(out)
	case "text", "html":
		rendererOptions := []report.RendererOption{
			report.WithConfigID(result.Config.ID),
		}
		if format == "html" && themeName != "" {
			cfg, err := builtinTheme(themeName, themeVariant)
			if err != nil {
				return err
			}
			rendererOptions = append(rendererOptions, report.WithTheme(cfg))
		}
		renderer, err := report.NewRenderer(rendererOptions...)
		if err != nil {
			return err
		}
		if format == "html" {
			_, err = renderer.HTML(result.Report, out)
			return err
		}
		_, err = renderer.Text(result.Report, out)
		return err
	default:
		return fmt.Errorf("unknown format %q (expected one of %s)", format, strings.Join(formats, ", "))
	}
}

func resolveRules(names []string) ([]rules.Rule, error) {
	selected := make([]rules.Rule, 0, len(names))
	for _, name := range names {
		constructor, ok := ruleConstructors[name]
		if !ok {
			return nil, fmt.Errorf("unknown rule %q (available: %s)", name, strings.Join(ruleOrder, ", "))
		}
		selected = append(selected, constructor())
	}
	return selected, nil
}

func splitRuleList(raw string) []string {
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}
