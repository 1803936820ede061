// FILE: lixenwraith/bundleconf/decode.go
package bundleconf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format names a settings document syntax
type Format string

const (
	// FormatAuto detects the format from the file extension or content
	FormatAuto Format = "auto"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a user supplied name into a Format
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return FormatAuto, nil
	case "toml", "tml":
		return FormatTOML, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported configuration format %q", name)
	}
}

// Decode parses a settings document into nested maps. Syntax errors wrap
// ErrDecode with the decoder's message.
func Decode(data []byte, format Format) (map[string]any, error) {
	if format == "" || format == FormatAuto {
		format = detectFormatFromContent(data)
		if format == "" {
			return nil, fmt.Errorf("%w: unable to determine configuration format", ErrDecode)
		}
	}

	doc := make(map[string]any)
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: TOML: %w", ErrDecode, err)
		}
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber() // Preserve number precision
		if err := decoder.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: JSON: %w", ErrDecode, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: YAML: %w", ErrDecode, err)
		}
	default:
		return nil, fmt.Errorf("unsupported configuration format %q", format)
	}

	return doc, nil
}

// DetectFileFormat determines format from file extension. It returns
// FormatAuto when the extension is not recognised.
func DetectFileFormat(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml", ".tml":
		return FormatTOML
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatAuto
	}
}

// detectFormatFromContent attempts to detect format by parsing. TOML is
// tried before YAML since plain TOML lines are often valid YAML scalars.
func detectFormatFromContent(data []byte) Format {
	var jsonTest map[string]any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return FormatJSON
	}

	var tomlTest map[string]any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return FormatTOML
	}

	var yamlTest map[string]any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return FormatYAML
	}

	return ""
}
