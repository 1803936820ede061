// FILE: lixenwraith/bundleconf/decode_test.go
package bundleconf

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tomlProject = `
[tool.briefcase]
project_name = "Demo"
version = "0.1"

[tool.briefcase.app.demo]
sources = ["src/demo"]
`

const jsonProject = `{
  "tool": {
    "briefcase": {
      "project_name": "Demo",
      "version": "0.1",
      "build": 7,
      "app": {"demo": {"sources": ["src/demo"]}}
    }
  }
}`

const yamlProject = `
tool:
  briefcase:
    project_name: Demo
    version: "0.1"
    app:
      demo:
        sources:
          - src/demo
`

// TestDecodeFormats tests decoding of every supported syntax
func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"TOML", tomlProject, FormatTOML},
		{"JSON", jsonProject, FormatJSON},
		{"YAML", yamlProject, FormatYAML},
		{"AutoTOML", tomlProject, FormatAuto},
		{"AutoJSON", jsonProject, FormatAuto},
		{"AutoYAML", yamlProject, FormatAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode([]byte(tt.data), tt.format)
			require.NoError(t, err)

			tree, err := FromMap(doc)
			require.NoError(t, err)

			v, ok := tree.Lookup("tool.briefcase.project_name")
			require.True(t, ok)
			assert.Equal(t, "Demo", v.Scalar)

			sources, ok := tree.Lookup("tool.briefcase.app.demo.sources")
			require.True(t, ok)
			assert.Equal(t, []string{"src/demo"}, sources.Strings())
		})
	}

	t.Run("JSONNumbersPreserved", func(t *testing.T) {
		doc, err := Decode([]byte(jsonProject), FormatJSON)
		require.NoError(t, err)
		tree, err := FromMap(doc)
		require.NoError(t, err)
		v, _ := tree.Lookup("tool.briefcase.build")
		assert.Equal(t, json.Number("7"), v.Scalar)
	})
}

// TestDecodeErrors tests that syntax errors wrap ErrDecode
func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"InvalidTOML", `invalid = toml content`, FormatTOML},
		{"InvalidJSON", `{"tool": `, FormatJSON},
		{"InvalidYAML", "tool: [unclosed", FormatYAML},
		{"Undetectable", "{{{ not anything", FormatAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), tt.format)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecode)
		})
	}

	t.Run("UnsupportedFormat", func(t *testing.T) {
		_, err := Decode([]byte("a = 1"), Format("ini"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrDecode)
		assert.Contains(t, err.Error(), "unsupported configuration format")
	})
}

// TestDetectFileFormat tests extension based detection
func TestDetectFileFormat(t *testing.T) {
	assert.Equal(t, FormatTOML, DetectFileFormat("pyproject.toml"))
	assert.Equal(t, FormatTOML, DetectFileFormat("dir/project.TML"))
	assert.Equal(t, FormatJSON, DetectFileFormat("project.json"))
	assert.Equal(t, FormatYAML, DetectFileFormat("project.yml"))
	assert.Equal(t, FormatYAML, DetectFileFormat("project.yaml"))
	assert.Equal(t, FormatAuto, DetectFileFormat("project.conf"))
}

// TestParseFormat tests user supplied format names
func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{
		"":      FormatAuto,
		"auto":  FormatAuto,
		"TOML":  FormatTOML,
		" json": FormatJSON,
		"yml":   FormatYAML,
	} {
		got, err := ParseFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}
