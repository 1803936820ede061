// FILE: lixenwraith/bundleconf/errors.go
package bundleconf

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode wraps syntax errors reported by the TOML, JSON or YAML decoder
	ErrDecode = errors.New("invalid configuration syntax")

	// ErrStructure reports missing or malformed required sections
	ErrStructure = errors.New("invalid configuration structure")

	// ErrConfigNotFound is returned when the project file does not exist
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrValidation is the target for errors.Is on any *ValidationError
	ErrValidation = errors.New("configuration validation failed")
)

// ValidationError describes a semantic problem in one app's (or the global)
// configuration. App is empty for global settings.
type ValidationError struct {
	App     string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap lets errors.Is(err, ErrValidation) match
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func structuralf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStructure, fmt.Sprintf(format, args...))
}
