// FILE: lixenwraith/bundleconf/discovery.go
package bundleconf

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultProjectFile is the project description searched for by discovery
const DefaultProjectFile = "pyproject.toml"

// FileDiscoveryOptions configures automatic project file discovery
type FileDiscoveryOptions struct {
	// File names to look for, in order
	Names []string

	// Custom search directories (searched before the working directory)
	Paths []string

	// Environment variable to check for explicit path
	EnvVar string

	// CLI flag to check (e.g., "--file" or "-f")
	CLIFlag string

	// Whether to search in current directory
	UseCurrentDir bool

	// Whether to walk up from the current directory to the filesystem root
	SearchParents bool
}

// DefaultDiscoveryOptions returns sensible defaults
func DefaultDiscoveryOptions(toolName string) FileDiscoveryOptions {
	return FileDiscoveryOptions{
		Names:         []string{DefaultProjectFile},
		EnvVar:        strings.ToUpper(toolName) + "_FILE",
		CLIFlag:       "--file",
		UseCurrentDir: true,
		SearchParents: true,
	}
}

// WithFileDiscovery locates the project file. An explicit WithFile or
// WithData takes precedence over discovery. If nothing is found, Build
// reports ErrConfigNotFound.
func (b *Builder) WithFileDiscovery(opts FileDiscoveryOptions) *Builder {
	if b.file != "" || b.data != nil {
		return b
	}
	b.file = discoverFile(opts, b.args)
	return b
}

func discoverFile(opts FileDiscoveryOptions, args []string) string {
	// Check CLI args first (highest priority)
	if opts.CLIFlag != "" {
		for i, arg := range args {
			if arg == opts.CLIFlag && i+1 < len(args) {
				return args[i+1]
			}
			if strings.HasPrefix(arg, opts.CLIFlag+"=") {
				return strings.TrimPrefix(arg, opts.CLIFlag+"=")
			}
		}
	}

	// Check environment variable
	if opts.EnvVar != "" {
		if path := os.Getenv(opts.EnvVar); path != "" {
			return path
		}
	}

	// Build search paths
	var searchPaths []string
	searchPaths = append(searchPaths, opts.Paths...)

	if opts.UseCurrentDir || opts.SearchParents {
		if cwd, err := os.Getwd(); err == nil {
			if opts.UseCurrentDir {
				searchPaths = append(searchPaths, cwd)
			}
			if opts.SearchParents {
				searchPaths = append(searchPaths, parentDirs(cwd)...)
			}
		}
	}

	for _, dir := range searchPaths {
		for _, name := range opts.Names {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}

	// No file found; Build reports it
	return ""
}

// parentDirs returns the ancestors of dir, nearest first
func parentDirs(dir string) []string {
	var dirs []string
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return dirs
		}
		dirs = append(dirs, parent)
		dir = parent
	}
}
