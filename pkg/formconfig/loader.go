package formconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var errEmptyDocument = errors.New("formconfig: document is empty")

// Load reads and parses a form configuration from disk. JSON and YAML are
// both accepted; syntax validation stops here, rule modules assume a parsed
// document.
func Load(path string) (FormConfig, error) {
	if strings.TrimSpace(path) == "" {
		return FormConfig{}, errors.New("formconfig: config path is required")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return FormConfig{}, fmt.Errorf("formconfig: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return FormConfig{}, fmt.Errorf("formconfig: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads a form configuration from the provided filesystem.
func LoadFS(fsys fs.FS, path string) (FormConfig, error) {
	if fsys == nil {
		return FormConfig{}, errors.New("formconfig: filesystem is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return FormConfig{}, fmt.Errorf("formconfig: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes a form configuration document. The source name is used only
// for error messages. JSON is attempted first, then YAML, matching how other
// schema documents are loaded across the module.
func Parse(data []byte, source string) (FormConfig, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return FormConfig{}, fmt.Errorf("%w (file %s)", errEmptyDocument, source)
	}

	var cfg FormConfig
	if err := json.Unmarshal(data, &cfg); err == nil {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err == nil {
		return cfg, nil
	}
	return FormConfig{}, fmt.Errorf("formconfig: parse %s: invalid JSON or YAML", source)
}
