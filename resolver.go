// FILE: lixenwraith/bundleconf/resolver.go
package bundleconf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/log"
)

const (
	// DefaultNamespace is the dotted path of the global settings section
	DefaultNamespace = "tool.briefcase"

	// KeyApps holds the app collection inside the global settings section
	KeyApps = "app"

	// KeyAppName is stamped onto every merged app configuration
	KeyAppName = "app_name"
)

var discardLogger = log.New(io.Discard)

// Selector picks the platform and output format to resolve for
type Selector struct {
	Platform     string
	OutputFormat string
}

// Resolver merges global, app, platform and output format settings into one
// flat configuration per app. The zero value uses DefaultCatalog,
// DefaultNamespace and discards logs. A Resolver holds no mutable state and
// may be shared between goroutines.
type Resolver struct {
	Catalog   Catalog
	Namespace string
	Logger    *log.Logger
}

// Resolution is the result of resolving one settings document for one
// selector.
type Resolution struct {
	Selector Selector
	// Global is the normalized global settings section, without the app collection
	Global Tree
	// Apps maps each declared app name to its merged configuration
	Apps map[string]Tree
}

// AppNames returns the resolved app names in sorted order
func (res *Resolution) AppNames() []string {
	names := make([]string, 0, len(res.Apps))
	for name := range res.Apps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// App returns a copy of the merged configuration of one app
func (res *Resolution) App(name string) (Tree, bool) {
	t, ok := res.Apps[name]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// LoadFile reads, decodes and resolves a settings file. The format is taken
// from the file extension, falling back to content detection.
func (r *Resolver) LoadFile(path string, sel Selector) (*Resolution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	r.logger().Debug("loading settings", "path", path)
	res, err := r.ParseBytes(data, DetectFileFormat(path), sel)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// Parse decodes a settings document from rd and resolves it
func (r *Resolver) Parse(rd io.Reader, format Format, sel Selector) (*Resolution, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	return r.ParseBytes(data, format, sel)
}

// ParseBytes decodes a settings document and resolves it
func (r *Resolver) ParseBytes(data []byte, format Format, sel Selector) (*Resolution, error) {
	doc, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	return r.Resolve(doc, sel)
}

// Resolve computes the merged configuration of every app declared in
// settings for the given selector. settings is not modified and the result
// does not alias it.
func (r *Resolver) Resolve(settings map[string]any, sel Selector) (*Resolution, error) {
	root, err := FromMap(settings)
	if err != nil {
		return nil, err
	}
	return r.ResolveTree(root, sel)
}

// ResolveTree is Resolve for an already converted settings tree
func (r *Resolver) ResolveTree(root Tree, sel Selector) (*Resolution, error) {
	logger := r.logger()

	section, err := r.globalSection(root)
	if err != nil {
		return nil, err
	}

	global := section.Clone()
	appsValue, ok := global[KeyApps]
	if !ok {
		return nil, structuralf("no apps defined in configuration")
	}
	delete(global, KeyApps)
	if appsValue.Kind != KindTable {
		return nil, structuralf("app collection must be a table, got %s", appsValue.Kind)
	}

	global, err = normalize(global)
	if err != nil {
		return nil, fmt.Errorf("global settings: %w", err)
	}

	catalog := r.catalog()
	platforms := sortedCopy(catalog.Platforms())
	formats := sortedCopy(catalog.OutputFormats(sel.Platform))

	apps := make(map[string]Tree, len(appsValue.Table))
	for _, name := range appsValue.Table.Keys() {
		raw := appsValue.Table[name]
		if raw.Kind != KindTable {
			return nil, structuralf("app %q must be a table, got %s", name, raw.Kind)
		}

		merged, err := r.resolveApp(name, raw.Table, global, sel, platforms, formats)
		if err != nil {
			return nil, err
		}
		apps[name] = merged
		logger.Debug("resolved app", "app", name, "platform", sel.Platform, "format", sel.OutputFormat, "keys", len(merged))
	}

	return &Resolution{
		Selector: sel,
		Global:   global,
		Apps:     apps,
	}, nil
}

// resolveApp builds one app's flat configuration: global, then app, then
// the matching platform block with its matching format block folded in.
func (r *Resolver) resolveApp(name string, raw, global Tree, sel Selector, platforms, formats []string) (Tree, error) {
	logger := r.logger()
	app := raw.Clone()

	var platformLayer Tree
	for _, p := range platforms {
		block, ok := app[p]
		if !ok {
			continue
		}
		delete(app, p)

		if block.Kind != KindTable {
			return nil, structuralf("platform section %q of app %q must be a table, got %s", p, name, block.Kind)
		}
		if p != sel.Platform {
			logger.Debug("discarding platform section", "app", name, "platform", p)
			continue
		}

		layer, err := r.platformLayer(name, block.Table, sel, formats)
		if err != nil {
			return nil, err
		}
		platformLayer = layer
	}

	merged := global.Clone()
	if err := mergeLayer(merged, app); err != nil {
		return nil, fmt.Errorf("app %q: %w", name, err)
	}
	if platformLayer != nil {
		if err := mergeLayer(merged, platformLayer); err != nil {
			return nil, fmt.Errorf("app %q, platform %q: %w", name, sel.Platform, err)
		}
	}
	merged[KeyAppName] = ScalarValue(name)

	return merged, nil
}

// platformLayer strips every known output format block from a platform
// section and folds in the requested one.
func (r *Resolver) platformLayer(name string, block Tree, sel Selector, formats []string) (Tree, error) {
	logger := r.logger()

	layer, err := normalize(block)
	if err != nil {
		return nil, fmt.Errorf("app %q, platform %q: %w", name, sel.Platform, err)
	}

	var formatLayer Tree
	for _, f := range formats {
		fblock, ok := layer[f]
		if !ok {
			continue
		}
		delete(layer, f)

		if fblock.Kind != KindTable {
			return nil, structuralf("output format section %q of app %q (platform %q) must be a table, got %s",
				f, name, sel.Platform, fblock.Kind)
		}
		if f != sel.OutputFormat {
			logger.Debug("discarding output format section", "app", name, "platform", sel.Platform, "format", f)
			continue
		}
		formatLayer = fblock.Table
	}

	if formatLayer != nil {
		if err := mergeLayer(layer, formatLayer); err != nil {
			return nil, fmt.Errorf("app %q, platform %q, format %q: %w", name, sel.Platform, sel.OutputFormat, err)
		}
	}

	return layer, nil
}

// globalSection navigates to the namespace table, e.g. tool.briefcase
func (r *Resolver) globalSection(root Tree) (Tree, error) {
	ns := r.namespace()
	segments, err := splitNamespace(ns)
	if err != nil {
		return nil, err
	}

	current := root
	for _, segment := range segments {
		next, ok := current.Subtree(segment)
		if !ok {
			return nil, structuralf("no %s section in configuration", ns)
		}
		current = next
	}
	return current, nil
}

func (r *Resolver) catalog() Catalog {
	if r.Catalog == nil {
		return DefaultCatalog()
	}
	return r.Catalog
}

func (r *Resolver) namespace() string {
	if r.Namespace == "" {
		return DefaultNamespace
	}
	return r.Namespace
}

func (r *Resolver) logger() *log.Logger {
	if r.Logger == nil {
		return discardLogger
	}
	return r.Logger
}
