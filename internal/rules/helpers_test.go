package rules

import (
	"github.com/goliatone/go-formdebug/pkg/formconfig"
	"github.com/goliatone/go-formdebug/pkg/invariants"
	"github.com/goliatone/go-formdebug/pkg/runstate"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

// cleanConfig is a minimal configuration no rule should flag.
func cleanConfig() formconfig.FormConfig {
	return formconfig.FormConfig{
		ID: "signup",
		Metadata: &formconfig.Metadata{
			Title:   "Signup",
			Version: "1.0.0",
		},
		Steps: []formconfig.Step{
			{
				ID:    "account",
				Title: "Account",
				Fields: []formconfig.Field{
					{
						Name:       "email",
						Type:       formconfig.FieldTypeEmail,
						Label:      "Email",
						Validation: &formconfig.Validation{Required: true, Email: true},
					},
					{
						Name: "country",
						Type: formconfig.FieldTypeSelect,
					},
				},
			},
		},
		Submit: &formconfig.SubmitConfig{
			Endpoint: "https://api.acme.dev/signup",
			Method:   "POST",
			Headers:  map[string]string{"Content-Type": "application/json"},
			Transitions: &formconfig.StateTransitions{
				OnSuccess: "confirmation",
			},
		},
	}
}

func cleanContext() Context {
	return Context{
		Config: cleanConfig(),
		State: runstate.State{
			Values:     map[string]any{"email": "ada@acme.dev", "country": "US"},
			Visibility: map[string]bool{"email": true, "country": true},
		},
		Invariants: invariants.Invariants{
			PayloadSchema: invariants.PayloadSchema{
				Required: []string{"email"},
				Types:    map[string]string{"email": "string"},
			},
			Versioning: invariants.Versioning{CurrentVersion: "1.0.0"},
		},
	}
}
