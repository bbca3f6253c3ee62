package main

import (
	"context"
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted is returned when the user interrupts a prompt.
var ErrAborted = errors.New("formdebug-cli: aborted")

type interactiveDefaults struct {
	rules  []string
	format string
	failOn string
}

type interactiveChoices struct {
	rules  []string
	format string
	failOn string
}

// promptChoices walks the user through rule, format, and threshold
// selection. Defaults mirror whatever the flags already carry so the
// interactive flow refines rather than resets them.
func promptChoices(ctx context.Context, defaults interactiveDefaults) (interactiveChoices, error) {
	choices := interactiveChoices{}

	selectedRules, err := promptMultiSelect(ctx, "Rules to run:", ruleOrder, defaults.rules)
	if err != nil {
		return choices, err
	}
	if len(selectedRules) == 0 {
		selectedRules = ruleOrder
	}
	choices.rules = selectedRules

	format, err := promptSelect(ctx, "Output format:", formats, defaults.format)
	if err != nil {
		return choices, err
	}
	choices.format = format

	failOnWarnings, err := promptConfirm(ctx, "Fail the run on warnings too?", defaults.failOn == "warning")
	if err != nil {
		return choices, err
	}
	choices.failOn = "error"
	if failOnWarnings {
		choices.failOn = "warning"
	}

	return choices, nil
}

func promptSelect(ctx context.Context, message string, options []string, defaultValue string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Select{
		Message: message,
		Options: options,
	}
	for _, option := range options {
		if option == defaultValue {
			prompt.Default = defaultValue
			break
		}
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func promptMultiSelect(ctx context.Context, message string, options, defaults []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []string
	prompt := &survey.MultiSelect{
		Message: message,
		Options: options,
		Default: intersect(options, defaults),
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return nil, translateSurveyErr(err)
	}
	return out, nil
}

func promptConfirm(ctx context.Context, message string, defaultValue bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

// intersect keeps defaults that are actual options, preserving option order.
func intersect(options, defaults []string) []string {
	wanted := make(map[string]struct{}, len(defaults))
	for _, value := range defaults {
		wanted[value] = struct{}{}
	}
	var out []string
	for _, option := range options {
		if _, ok := wanted[option]; ok {
			out = append(out, option)
		}
	}
	return out
}
