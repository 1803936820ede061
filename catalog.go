// FILE: lixenwraith/bundleconf/catalog.go
package bundleconf

import "sort"

// Catalog supplies the platform and output format names that may appear as
// override blocks inside an app's settings.
type Catalog interface {
	Platforms() []string
	OutputFormats(platform string) []string
}

// StaticCatalog maps each platform name to its output formats
type StaticCatalog map[string][]string

// Platforms returns the platform names in sorted order
func (c StaticCatalog) Platforms() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OutputFormats returns the formats of platform in sorted order, or nil for
// an unknown platform
func (c StaticCatalog) OutputFormats(platform string) []string {
	formats, ok := c[platform]
	if !ok {
		return nil
	}
	return sortedCopy(formats)
}

// DefaultCatalog returns the platforms and output formats supported by the
// packaging tool
func DefaultCatalog() StaticCatalog {
	return StaticCatalog{
		"android": {"gradle"},
		"iOS":     {"xcode"},
		"linux":   {"appimage", "flatpak", "system"},
		"macOS":   {"app", "xcode"},
		"web":     {"static"},
		"windows": {"app", "visualstudio"},
	}
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}
