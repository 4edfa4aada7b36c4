// Package config loads YAML configuration files with ${VAR} environment
// expansion.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Validator is implemented by config types that check their own contents
// after decoding.
type Validator interface {
	Validate() error
}

// Load decodes the YAML file at path into target. Environment references in
// the file body are expanded before decoding. When target implements
// Validator, validation failures are returned as the load error.
func Load[T any](path string, target *T) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), target); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return validate(target)
}

// LoadIfExists is Load, except a missing file leaves target untouched and
// reports found=false. Callers use it to fall back to built-in defaults;
// target is still validated in that case.
func LoadIfExists[T any](path string, target *T) (bool, error) {
	err := Load(path, target)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, validate(target)
	default:
		return false, err
	}
}

func validate(target any) error {
	if v, ok := target.(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("config: validate: %w", err)
		}
	}
	return nil
}
