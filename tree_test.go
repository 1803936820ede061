// FILE: lixenwraith/bundleconf/tree_test.go
package bundleconf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFromMap tests conversion of decoded documents into trees
func TestFromMap(t *testing.T) {
	input := map[string]any{
		"name":    "demo",
		"count":   int64(3),
		"enabled": true,
		"tags":    []any{"a", int64(1)},
		"table": map[string]any{
			"inner": "value",
		},
		"tables": []map[string]any{
			{"k": "v1"},
			{"k": "v2"},
		},
		"yaml": map[any]any{
			"key": "from yaml",
		},
		"list": []string{"x", "y"},
	}

	tree, err := FromMap(input)
	require.NoError(t, err)

	assert.Equal(t, KindScalar, tree["name"].Kind)
	assert.Equal(t, int64(3), tree["count"].Scalar)
	assert.Equal(t, KindSequence, tree["tags"].Kind)
	assert.Len(t, tree["tags"].Items, 2)
	assert.Equal(t, KindTable, tree["table"].Kind)
	assert.Equal(t, "value", tree["table"].Table["inner"].Scalar)
	assert.Equal(t, KindSequence, tree["tables"].Kind)
	assert.Equal(t, KindTable, tree["tables"].Items[1].Kind)
	assert.Equal(t, "from yaml", tree["yaml"].Table["key"].Scalar)
	assert.Equal(t, []string{"x", "y"}, tree["list"].Strings())

	t.Run("RoundTrip", func(t *testing.T) {
		out := tree.Map()
		assert.Equal(t, "demo", out["name"])
		assert.Equal(t, []any{"a", int64(1)}, out["tags"])
		assert.Equal(t, map[string]any{"inner": "value"}, out["table"])
		assert.Equal(t, []any{map[string]any{"k": "v1"}, map[string]any{"k": "v2"}}, out["tables"])
	})

	t.Run("NonStringKey", func(t *testing.T) {
		_, err := FromMap(map[string]any{"bad": map[any]any{1: "x"}})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrStructure)
		assert.Contains(t, err.Error(), `"bad"`)
	})
}

// TestTreeClone tests that clones share no mutable state
func TestTreeClone(t *testing.T) {
	orig := Tree{
		"list":  Strings("a"),
		"table": TableValue(Tree{"k": ScalarValue("v")}),
	}
	clone := orig.Clone()

	clone["list"].Items[0] = ScalarValue("changed")
	clone["table"].Table["k"] = ScalarValue("changed")
	clone["new"] = ScalarValue(1)

	assert.Equal(t, "a", orig["list"].Items[0].Scalar)
	assert.Equal(t, "v", orig["table"].Table["k"].Scalar)
	assert.NotContains(t, orig, "new")

	assert.Nil(t, Tree(nil).Clone())
}

// TestTreeLookup tests dotted path navigation
func TestTreeLookup(t *testing.T) {
	tree := Tree{
		"tool": TableValue(Tree{
			"briefcase": TableValue(Tree{
				"version": ScalarValue("1.0"),
			}),
		}),
	}

	v, ok := tree.Lookup("tool.briefcase.version")
	require.True(t, ok)
	assert.Equal(t, "1.0", v.Scalar)

	v, ok = tree.Lookup("tool.briefcase.")
	require.True(t, ok)
	assert.Equal(t, KindTable, v.Kind)

	_, ok = tree.Lookup("tool.missing")
	assert.False(t, ok)

	_, ok = tree.Lookup("tool.briefcase.version.deeper")
	assert.False(t, ok)

	root, ok := tree.Lookup("")
	require.True(t, ok)
	assert.Equal(t, KindTable, root.Kind)
}

// TestTreeFlatten tests dot-notation flattening
func TestTreeFlatten(t *testing.T) {
	tree := Tree{
		"a": TableValue(Tree{
			"b": ScalarValue(1),
			"c": TableValue(Tree{"d": Strings("x")}),
		}),
		"e": ScalarValue("f"),
	}

	assert.Equal(t, map[string]any{
		"a.b":   1,
		"a.c.d": []any{"x"},
		"e":     "f",
	}, tree.Flatten())
}

// TestTreeHelpers tests key ordering, subtree access and kind names
func TestTreeHelpers(t *testing.T) {
	tree := Tree{"b": ScalarValue(1), "a": TableValue(Tree{}), "c": Strings()}

	assert.Equal(t, []string{"a", "b", "c"}, tree.Keys())

	_, ok := tree.Subtree("a")
	assert.True(t, ok)
	_, ok = tree.Subtree("b")
	assert.False(t, ok)

	assert.Equal(t, "scalar", KindScalar.String())
	assert.Equal(t, "sequence", KindSequence.String())
	assert.Equal(t, "table", KindTable.String())
	assert.Equal(t, "invalid", Kind(0).String())

	assert.Nil(t, ScalarValue("x").Strings())
	assert.Equal(t, []string{"1", "x"}, SequenceValue(ScalarValue(1), ScalarValue("x")).Strings())
}

// TestIsValidKeySegment tests TOML bare key validation
func TestIsValidKeySegment(t *testing.T) {
	for _, s := range []string{"tool", "brief-case", "app_1", "A"} {
		assert.True(t, isValidKeySegment(s), s)
	}
	for _, s := range []string{"", "a.b", "with space", "ünï"} {
		assert.False(t, isValidKeySegment(s), s)
	}
}
