// File: lixenwraith/bundleconf/builder.go
package bundleconf

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// ValidatorFunc defines the signature for a function that can validate a Resolution.
// It receives the fully resolved *Resolution and should return an error if validation fails.
type ValidatorFunc func(res *Resolution) error

// Builder provides a fluent interface for loading and resolving a project file
type Builder struct {
	resolver   Resolver
	selector   Selector
	format     Format
	file       string
	data       []byte
	args       []string
	err        error
	validators []ValidatorFunc
}

// NewBuilder creates a new resolution builder
func NewBuilder() *Builder {
	return &Builder{
		format:     FormatAuto,
		args:       os.Args[1:],
		validators: make([]ValidatorFunc, 0),
	}
}

// WithFile sets the project file path
func (b *Builder) WithFile(path string) *Builder {
	b.file = path
	return b
}

// WithData resolves an in-memory document instead of a file
func (b *Builder) WithData(data []byte) *Builder {
	b.data = data
	return b
}

// WithFormat forces the document format instead of detecting it
func (b *Builder) WithFormat(format Format) *Builder {
	b.format = format
	return b
}

// WithArgs sets the command-line arguments used by file discovery
func (b *Builder) WithArgs(args []string) *Builder {
	b.args = args
	return b
}

// WithPlatform sets the platform to resolve for
func (b *Builder) WithPlatform(platform string) *Builder {
	b.selector.Platform = platform
	return b
}

// WithOutputFormat sets the output format to resolve for
func (b *Builder) WithOutputFormat(format string) *Builder {
	b.selector.OutputFormat = format
	return b
}

// WithCatalog sets the platform and output format catalog
func (b *Builder) WithCatalog(c Catalog) *Builder {
	b.resolver.Catalog = c
	return b
}

// WithNamespace sets the dotted path of the global settings section
func (b *Builder) WithNamespace(ns string) *Builder {
	if _, err := splitNamespace(ns); err != nil && b.err == nil {
		b.err = err
	}
	b.resolver.Namespace = ns
	return b
}

// WithLogger sets the logger used for resolution diagnostics
func (b *Builder) WithLogger(logger *log.Logger) *Builder {
	b.resolver.Logger = logger
	return b
}

// WithValidator adds a validation function that runs at the end of the build process
// Multiple validators can be added and are executed in the order they are added
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// File returns the project file path, explicit or discovered
func (b *Builder) File() string {
	return b.file
}

// Resolver returns a copy of the resolver the builder will use
func (b *Builder) Resolver() Resolver {
	return b.resolver
}

// Build loads, decodes and resolves the project file, then runs validators
func (b *Builder) Build() (*Resolution, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.selector.Platform == "" {
		return nil, errors.New("no platform selected")
	}

	var res *Resolution
	var err error
	switch {
	case b.data != nil:
		res, err = b.resolver.Parse(bytes.NewReader(b.data), b.format, b.selector)
	case b.file != "":
		if b.format == FormatAuto {
			res, err = b.resolver.LoadFile(b.file, b.selector)
		} else {
			res, err = b.loadFileAs(b.file)
		}
	default:
		return nil, fmt.Errorf("%w: no project file given", ErrConfigNotFound)
	}
	if err != nil {
		return nil, err
	}

	// Run validators
	for _, validator := range b.validators {
		if err := validator(res); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	return res, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Resolution {
	res, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("config build failed: %v", err))
	}
	return res
}

func (b *Builder) loadFileAs(path string) (*Resolution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	res, err := b.resolver.ParseBytes(data, b.format, b.selector)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// ValidateApps is a ValidatorFunc that constructs every app's typed
// configuration and reports all failures together
func ValidateApps(res *Resolution) error {
	_, err := res.AppConfigs()
	return err
}
