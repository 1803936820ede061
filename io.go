// File: lixenwraith/bundleconf/io.go
package bundleconf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Encode writes v to w in the given format. FormatAuto encodes TOML.
func Encode(w io.Writer, v map[string]any, format Format) error {
	switch format {
	case FormatTOML, FormatAuto, "":
		encoder := toml.NewEncoder(w)
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to marshal configuration to TOML: %w", err)
		}
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to marshal configuration to JSON: %w", err)
		}
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to marshal configuration to YAML: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("failed to flush YAML encoder: %w", err)
		}
	default:
		return fmt.Errorf("unsupported configuration format %q", format)
	}
	return nil
}

// Document returns the resolution as one document: the global section plus
// an "app" table of merged app configurations
func (res *Resolution) Document() map[string]any {
	doc := res.Global.Map()
	apps := make(map[string]any, len(res.Apps))
	for name, t := range res.Apps {
		apps[name] = t.Map()
	}
	doc[KeyApps] = apps
	return doc
}

// WriteFile writes v to path atomically in the given format
func WriteFile(path string, v map[string]any, format Format) error {
	if format == FormatAuto || format == "" {
		format = DetectFileFormat(path)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, v, format); err != nil {
		return err
	}

	return atomicWriteFile(path, buf.Bytes())
}

// atomicWriteFile performs atomic file write
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // Clean up on any error

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
