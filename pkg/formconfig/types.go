// Package formconfig defines the declarative multi-step form configuration
// consumed by the rule engine, plus loaders for JSON and YAML documents. The
// configuration is parsed once at analysis start and treated as immutable for
// the duration of a rule run.
package formconfig

import "strings"

// FieldType enumerates the input kinds a field declaration may use.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeEmail    FieldType = "email"
	FieldTypeNumber   FieldType = "number"
	FieldTypePassword FieldType = "password"
	FieldTypeTel      FieldType = "tel"
	FieldTypeURL      FieldType = "url"
	FieldTypeDate     FieldType = "date"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
)

// FormConfig is the root document describing a multi-step form.
type FormConfig struct {
	ID       string        `json:"id" yaml:"id"`
	Metadata *Metadata     `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Steps    []Step        `json:"steps" yaml:"steps"`
	Submit   *SubmitConfig `json:"submitConfig,omitempty" yaml:"submitConfig,omitempty"`
}

// Metadata carries descriptive information about the form document.
type Metadata struct {
	Title   string   `json:"title,omitempty" yaml:"title,omitempty"`
	Version string   `json:"version,omitempty" yaml:"version,omitempty"`
	Tags    []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Step groups an ordered sequence of fields under one wizard page.
type Step struct {
	ID     string  `json:"id" yaml:"id"`
	Title  string  `json:"title,omitempty" yaml:"title,omitempty"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Field declares one input inside a step. Optional behaviour (validation,
// conditional visibility, parent dependency) is nil when absent.
type Field struct {
	Name         string      `json:"name" yaml:"name"`
	Type         FieldType   `json:"type" yaml:"type"`
	Label        string      `json:"label,omitempty" yaml:"label,omitempty"`
	Validation   *Validation `json:"validation,omitempty" yaml:"validation,omitempty"`
	ShowIf       *Condition  `json:"showIf,omitempty" yaml:"showIf,omitempty"`
	Dependency   *Dependency `json:"dependency,omitempty" yaml:"dependency,omitempty"`
	DefaultValue any         `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Options      []Option    `json:"options,omitempty" yaml:"options,omitempty"`
}

// Option is one selectable choice for select/radio fields.
type Option struct {
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Value any    `json:"value" yaml:"value"`
}

// Validation declares the constraints applied to a field's value. Numeric and
// length bounds are pointers so "zero" and "unset" stay distinguishable.
type Validation struct {
	Required  bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Min       *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	MinLength *int     `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Email     bool     `json:"email,omitempty" yaml:"email,omitempty"`
	URL       bool     `json:"url,omitempty" yaml:"url,omitempty"`
}

// Condition references another field's current value to decide visibility.
type Condition struct {
	Field    string `json:"field" yaml:"field"`
	Operator string `json:"operator" yaml:"operator"`
	Value    any    `json:"value" yaml:"value"`
}

// Dependency declares a parent-child relationship between two fields.
type Dependency struct {
	Parent  string `json:"parent" yaml:"parent"`
	Reset   bool   `json:"reset,omitempty" yaml:"reset,omitempty"`
	Disable bool   `json:"disable,omitempty" yaml:"disable,omitempty"`
	Reload  bool   `json:"reload,omitempty" yaml:"reload,omitempty"`
}

// SubmitConfig describes the submission contract for the whole form.
type SubmitConfig struct {
	Endpoint    string            `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Method      string            `json:"method,omitempty" yaml:"method,omitempty"`
	Headers     map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Transitions *StateTransitions `json:"stateTransitions,omitempty" yaml:"stateTransitions,omitempty"`
}

// StateTransitions names the handlers invoked after a submission attempt.
type StateTransitions struct {
	OnSuccess string `json:"onSuccess,omitempty" yaml:"onSuccess,omitempty"`
	OnError   string `json:"onError,omitempty" yaml:"onError,omitempty"`
}

// Header looks up a submit header by case-insensitive name.
func (s *SubmitConfig) Header(name string) (string, bool) {
	if s == nil || len(s.Headers) == 0 {
		return "", false
	}
	for key, value := range s.Headers {
		if strings.EqualFold(key, name) {
			return value, true
		}
	}
	return "", false
}

// Field returns the first field with the given name declared in the step.
func (s Step) Field(name string) (Field, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// HasField reports whether a field with the given name exists in the step.
func (s Step) HasField(name string) bool {
	_, ok := s.Field(name)
	return ok
}

// FieldNames lists declared field names across all steps in traversal order,
// including duplicates.
func (c FormConfig) FieldNames() []string {
	var names []string
	for _, step := range c.Steps {
		for _, field := range step.Fields {
			names = append(names, field.Name)
		}
	}
	return names
}

// Version returns the declared metadata version, or "" when absent.
func (c FormConfig) Version() string {
	if c.Metadata == nil {
		return ""
	}
	return strings.TrimSpace(c.Metadata.Version)
}
