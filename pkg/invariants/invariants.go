// Package invariants holds the caller-supplied ground truth a configuration
// is checked against: the payload contract an external API expects and the
// version the deployment currently runs. Invariants are read-only for the
// duration of a rule run.
package invariants

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Invariants bundles the reference data consumed by rule modules.
type Invariants struct {
	PayloadSchema PayloadSchema `json:"payloadSchema,omitempty" yaml:"payloadSchema,omitempty"`
	Versioning    Versioning    `json:"versioning,omitempty" yaml:"versioning,omitempty"`
}

// PayloadSchema describes the submission payload contract.
type PayloadSchema struct {
	// Required lists dot-path strings that must resolve to a non-empty value
	// in the payload derived from the runtime state.
	Required []string `json:"required,omitempty" yaml:"required,omitempty"`
	// Types maps dot-paths to the primitive type name the contract expects
	// ("string", "number", "boolean", "object", "array").
	Types map[string]string `json:"types,omitempty" yaml:"types,omitempty"`
}

// Versioning pins the expected config version and carries migration notes for
// known breaking paths.
type Versioning struct {
	CurrentVersion string         `json:"currentVersion,omitempty" yaml:"currentVersion,omitempty"`
	BreakingRules  []BreakingRule `json:"breakingRules,omitempty" yaml:"breakingRules,omitempty"`
}

// BreakingRule attaches a human-readable migration note to a config path.
type BreakingRule struct {
	Path string `json:"path" yaml:"path"`
	Note string `json:"note" yaml:"note"`
}

// Load reads and parses an invariants document from disk (JSON or YAML).
func Load(path string) (Invariants, error) {
	if strings.TrimSpace(path) == "" {
		return Invariants{}, errors.New("invariants: path is required")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return Invariants{}, fmt.Errorf("invariants: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return Invariants{}, fmt.Errorf("invariants: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes an invariants document, accepting JSON first and YAML second.
func Parse(data []byte, source string) (Invariants, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Invariants{}, fmt.Errorf("invariants: file %s is empty", source)
	}

	var inv Invariants
	if err := json.Unmarshal(data, &inv); err == nil {
		return inv, nil
	}
	if err := yaml.Unmarshal(data, &inv); err == nil {
		return inv, nil
	}
	return Invariants{}, fmt.Errorf("invariants: parse %s: invalid JSON or YAML", source)
}
