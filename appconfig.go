// FILE: lixenwraith/bundleconf/appconfig.go
package bundleconf

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// GlobalConfig is the typed view of the global settings section
type GlobalConfig struct {
	ProjectName string         `toml:"project_name"`
	Version     string         `toml:"version"`
	Bundle      string         `toml:"bundle"`
	URL         *url.URL       `toml:"url"`
	Author      string         `toml:"author"`
	AuthorEmail string         `toml:"author_email"`
	Extra       map[string]any `toml:",remain"`
}

func (g *GlobalConfig) String() string {
	return fmt.Sprintf("<%s v%s GlobalConfig>", g.ProjectName, g.Version)
}

// AppConfig is the typed, validated view of one app's merged configuration
type AppConfig struct {
	AppName        string         `toml:"app_name"`
	FormalName     string         `toml:"formal_name"`
	Version        string         `toml:"version"`
	Bundle         string         `toml:"bundle"`
	Description    string         `toml:"description"`
	Sources        []string       `toml:"sources"`
	Requires       []string       `toml:"requires"`
	URL            *url.URL       `toml:"url"`
	Author         string         `toml:"author"`
	AuthorEmail    string         `toml:"author_email"`
	Icon           string         `toml:"icon"`
	Splash         string         `toml:"splash"`
	DocumentTypes  map[string]any `toml:"document_type"`
	Template       string         `toml:"template"`
	TemplateBranch string         `toml:"template_branch"`
	Supported      bool           `toml:"supported"`
	Extra          map[string]any `toml:",remain"`
}

func (a *AppConfig) String() string {
	return fmt.Sprintf("<%s.%s v%s AppConfig>", a.Bundle, a.AppName, a.Version)
}

// ModuleName is the app name with '-' replaced by '_'
func (a *AppConfig) ModuleName() string {
	return strings.ReplaceAll(a.AppName, "-", "_")
}

// PackageName is the bundle with '-' replaced by '_', usable as a namespace
// identifier
func (a *AppConfig) PackageName() string {
	return strings.ReplaceAll(a.Bundle, "-", "_")
}

// SourcePaths returns the unique parent directories of the sources, in
// order. These are the import paths needed to run the app.
func (a *AppConfig) SourcePaths() []string {
	var paths []string
	seen := make(map[string]bool)
	for _, source := range a.Sources {
		path := source
		if i := strings.LastIndex(source, "/"); i >= 0 {
			path = source[:i]
		}
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}
	return paths
}

// NewGlobalConfig decodes and validates the global settings section
func NewGlobalConfig(t Tree) (*GlobalConfig, error) {
	if err := checkShape(globalSchema, "", t); err != nil {
		return nil, err
	}

	g := &GlobalConfig{}
	if err := decodeTree(t, g); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("invalid global configuration: %v", err)}
	}

	if !IsCanonicalVersion(g.Version) {
		return nil, &ValidationError{
			Field: "version",
			Message: fmt.Sprintf("Version number (%s) is not valid.\n\n"+
				"Version numbers must be PEP440 compliant; "+
				"see https://www.python.org/dev/peps/pep-0440/ for details.", g.Version),
		}
	}

	return g, nil
}

// NewAppConfig decodes and validates one app's merged configuration
func NewAppConfig(t Tree) (*AppConfig, error) {
	name := ""
	if v, ok := t[KeyAppName]; ok {
		name, _ = v.Scalar.(string)
	}

	if err := checkShape(appSchema, name, t); err != nil {
		return nil, err
	}

	a := &AppConfig{Supported: true}
	if err := decodeTree(t, a); err != nil {
		return nil, &ValidationError{App: name, Message: fmt.Sprintf("invalid configuration for %q: %v", name, err)}
	}
	if a.FormalName == "" {
		a.FormalName = a.AppName
	}
	if a.DocumentTypes == nil {
		a.DocumentTypes = make(map[string]any)
	}

	if err := a.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *AppConfig) validate() error {
	if !IsValidAppName(a.AppName) {
		return &ValidationError{
			App:   a.AppName,
			Field: "app_name",
			Message: fmt.Sprintf("%q is not a valid app name.\n\n"+
				"App names must not be reserved keywords such as 'and', 'for' and 'while'.\n"+
				"They must also be PEP508 compliant (i.e., they can only include letters,\n"+
				"numbers, '-' and '_'; must start with a letter; and cannot end with '-' or '_').",
				a.AppName),
		}
	}

	if !IsValidBundleIdentifier(a.Bundle) {
		return &ValidationError{
			App:   a.AppName,
			Field: "bundle",
			Message: fmt.Sprintf("%q is not a valid bundle identifier.\n\n"+
				"The bundle should be a reversed domain name. It must contain at least 2\n"+
				"dot-separated sections; each section may only include letters, numbers,\n"+
				"and hyphens; and each section may not contain any reserved words (like\n"+
				"'switch', or 'while').", a.Bundle),
		}
	}

	if !IsCanonicalVersion(a.Version) {
		return &ValidationError{
			App:   a.AppName,
			Field: "version",
			Message: fmt.Sprintf("Version number for %q (%s) is not valid.\n\n"+
				"Version numbers must be PEP440 compliant; "+
				"see https://www.python.org/dev/peps/pep-0440/ for details.", a.AppName, a.Version),
		}
	}

	modules := make(map[string]bool, len(a.Sources))
	for _, source := range a.Sources {
		modules[source[strings.LastIndex(source, "/")+1:]] = true
	}
	if len(modules) != len(a.Sources) {
		return &ValidationError{
			App:     a.AppName,
			Field:   "sources",
			Message: fmt.Sprintf("The `sources` list for %q contains duplicated package names.", a.AppName),
		}
	}

	if !modules[a.ModuleName()] {
		return &ValidationError{
			App:   a.AppName,
			Field: "sources",
			Message: fmt.Sprintf("The `sources` list for %q does not include a package named %q.",
				a.AppName, a.ModuleName()),
		}
	}

	return nil
}

// GlobalConfig builds the typed global configuration
func (res *Resolution) GlobalConfig() (*GlobalConfig, error) {
	return NewGlobalConfig(res.Global)
}

// AppConfig builds the typed configuration of one app
func (res *Resolution) AppConfig(name string) (*AppConfig, error) {
	t, ok := res.Apps[name]
	if !ok {
		return nil, fmt.Errorf("app %q is not defined", name)
	}
	return NewAppConfig(t)
}

// AppConfigs builds every app's typed configuration independently. Apps that
// fail validation are left out of the returned map and their errors are
// joined, so one invalid app does not hide the others.
func (res *Resolution) AppConfigs() (map[string]*AppConfig, error) {
	configs := make(map[string]*AppConfig, len(res.Apps))
	var errs []error

	for _, name := range res.AppNames() {
		cfg, err := NewAppConfig(res.Apps[name])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		configs[name] = cfg
	}

	return configs, errors.Join(errs...)
}

// decodeTree decodes a merged configuration into a tagged struct
func decodeTree(t Tree, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "toml",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToURLHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	return decoder.Decode(t.Map())
}

// stringToURLHookFunc handles url.URL conversion
func stringToURLHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != reflect.TypeOf(url.URL{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 2048 {
			return nil, fmt.Errorf("URL too long: %d bytes", len(str))
		}
		u, err := url.Parse(str)
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
		if isPtr {
			return u, nil
		}
		return *u, nil
	}
}
