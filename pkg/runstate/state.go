// Package runstate models the simulated runtime snapshot supplied to the rule
// engine: current field values plus a precomputed visibility map. The engine
// never evaluates showIf conditions itself; visibility arrives resolved, either
// from the form runtime or hand-built for a reproduction scenario.
package runstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// State is an opaque snapshot of a form session. Rule modules read it but
// never mutate it. Missing value entries are treated as undefined.
type State struct {
	Values     map[string]any  `json:"values,omitempty" yaml:"values,omitempty"`
	Visibility map[string]bool `json:"visibility,omitempty" yaml:"visibility,omitempty"`
}

// Value returns the current value for a field name. The second return is
// false when the field has no entry at all.
func (s State) Value(name string) (any, bool) {
	if len(s.Values) == 0 {
		return nil, false
	}
	value, ok := s.Values[name]
	return value, ok
}

// Visible reports whether a field is visible in the snapshot. Fields without
// a visibility entry are considered visible; only an explicit false hides.
func (s State) Visible(name string) bool {
	if len(s.Visibility) == 0 {
		return true
	}
	visible, ok := s.Visibility[name]
	if !ok {
		return true
	}
	return visible
}

// HiddenExplicitly reports whether the snapshot carries an explicit false
// visibility entry for the field.
func (s State) HiddenExplicitly(name string) bool {
	visible, ok := s.Visibility[name]
	return ok && !visible
}

// CopyValues returns a shallow copy of the value map, used when attaching
// reproducer state to findings so later rule runs cannot alias it.
func (s State) CopyValues() map[string]any {
	if len(s.Values) == 0 {
		return nil
	}
	out := make(map[string]any, len(s.Values))
	for key, value := range s.Values {
		out[key] = value
	}
	return out
}

// Load reads and parses a state snapshot from disk (JSON or YAML).
func Load(path string) (State, error) {
	if strings.TrimSpace(path) == "" {
		return State{}, errors.New("runstate: state path is required")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return State{}, fmt.Errorf("runstate: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return State{}, fmt.Errorf("runstate: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes a snapshot document, accepting JSON first and YAML second.
func Parse(data []byte, source string) (State, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return State{}, fmt.Errorf("runstate: file %s is empty", source)
	}

	var state State
	if err := json.Unmarshal(data, &state); err == nil {
		return state, nil
	}
	if err := yaml.Unmarshal(data, &state); err == nil {
		return state, nil
	}
	return State{}, fmt.Errorf("runstate: parse %s: invalid JSON or YAML", source)
}
