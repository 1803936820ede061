// FILE: lixenwraith/bundleconf/tree.go
package bundleconf

import (
	"fmt"
	"sort"
	"strings"
)

// Kind tags the shape of a settings value
type Kind uint8

const (
	// KindScalar is any leaf value (string, number, bool, date)
	KindScalar Kind = iota + 1
	// KindSequence is an ordered list of values
	KindSequence
	// KindTable is a nested string-keyed mapping
	KindTable
)

// String returns the kind name used in error messages
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindTable:
		return "table"
	default:
		return "invalid"
	}
}

// Value is one node of a settings tree. Exactly one of Scalar, Items or Table
// is meaningful, as selected by Kind.
type Value struct {
	Kind   Kind
	Scalar any
	Items  []Value
	Table  Tree
}

// Tree is a string-keyed table of settings values
type Tree map[string]Value

// ScalarValue wraps a leaf value
func ScalarValue(v any) Value {
	return Value{Kind: KindScalar, Scalar: v}
}

// SequenceValue wraps an ordered list of values
func SequenceValue(items ...Value) Value {
	return Value{Kind: KindSequence, Items: items}
}

// TableValue wraps a nested table
func TableValue(t Tree) Value {
	return Value{Kind: KindTable, Table: t}
}

// Strings builds a sequence of string scalars
func Strings(items ...string) Value {
	seq := make([]Value, len(items))
	for i, s := range items {
		seq[i] = ScalarValue(s)
	}
	return SequenceValue(seq...)
}

// FromMap converts a decoded document into a Tree. The result shares no
// mutable state with the input.
func FromMap(m map[string]any) (Tree, error) {
	return fromMap(m, "")
}

func fromMap(m map[string]any, prefix string) (Tree, error) {
	t := make(Tree, len(m))
	for key, raw := range m {
		v, err := fromAny(raw, joinPath(prefix, key))
		if err != nil {
			return nil, err
		}
		t[key] = v
	}
	return t, nil
}

func fromAny(raw any, path string) (Value, error) {
	switch v := raw.(type) {
	case Value:
		return v.Clone(), nil
	case Tree:
		return TableValue(v.Clone()), nil
	case map[string]any:
		t, err := fromMap(v, path)
		if err != nil {
			return Value{}, err
		}
		return TableValue(t), nil
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, item := range v {
			key, ok := k.(string)
			if !ok {
				return Value{}, fmt.Errorf("%w: non-string key %v at %q", ErrStructure, k, path)
			}
			m[key] = item
		}
		t, err := fromMap(m, path)
		if err != nil {
			return Value{}, err
		}
		return TableValue(t), nil
	case []map[string]any:
		items := make([]Value, len(v))
		for i, item := range v {
			t, err := fromMap(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return Value{}, err
			}
			items[i] = TableValue(t)
		}
		return SequenceValue(items...), nil
	case []any:
		items := make([]Value, len(v))
		for i, item := range v {
			iv, err := fromAny(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return Value{}, err
			}
			items[i] = iv
		}
		return SequenceValue(items...), nil
	case []string:
		return Strings(v...), nil
	default:
		return ScalarValue(v), nil
	}
}

// Clone returns a deep copy of the value
func (v Value) Clone() Value {
	switch v.Kind {
	case KindSequence:
		items := make([]Value, len(v.Items))
		for i, item := range v.Items {
			items[i] = item.Clone()
		}
		return Value{Kind: KindSequence, Items: items}
	case KindTable:
		return Value{Kind: KindTable, Table: v.Table.Clone()}
	default:
		return v
	}
}

// Any converts the value back into plain Go values
func (v Value) Any() any {
	switch v.Kind {
	case KindSequence:
		items := make([]any, len(v.Items))
		for i, item := range v.Items {
			items[i] = item.Any()
		}
		return items
	case KindTable:
		return v.Table.Map()
	default:
		return v.Scalar
	}
}

// Clone returns a deep copy of the tree
func (t Tree) Clone() Tree {
	if t == nil {
		return nil
	}
	clone := make(Tree, len(t))
	for k, v := range t {
		clone[k] = v.Clone()
	}
	return clone
}

// Map converts the tree into a freshly allocated map[string]any
func (t Tree) Map() map[string]any {
	m := make(map[string]any, len(t))
	for k, v := range t {
		m[k] = v.Any()
	}
	return m
}

// Keys returns the tree's keys in sorted order
func (t Tree) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Subtree returns the table stored under key, if any
func (t Tree) Subtree(key string) (Tree, bool) {
	v, ok := t[key]
	if !ok || v.Kind != KindTable {
		return nil, false
	}
	return v.Table, true
}

// Lookup traverses the tree along a dot-separated path
func (t Tree) Lookup(path string) (Value, bool) {
	path = strings.TrimSuffix(path, ".")
	if path == "" {
		return TableValue(t), true
	}

	segments := strings.Split(path, ".")
	current := TableValue(t)

	for _, segment := range segments {
		if current.Kind != KindTable {
			return Value{}, false
		}
		next, exists := current.Table[segment]
		if !exists {
			return Value{}, false
		}
		current = next
	}

	return current, true
}

// Flatten converts the tree to a flat map with dot-notation paths.
// Sequences are leaves.
func (t Tree) Flatten() map[string]any {
	flat := make(map[string]any)
	t.flattenInto(flat, "")
	return flat
}

func (t Tree) flattenInto(flat map[string]any, prefix string) {
	for key, value := range t {
		path := joinPath(prefix, key)
		if value.Kind == KindTable {
			value.Table.flattenInto(flat, path)
			continue
		}
		flat[path] = value.Any()
	}
}

// Strings returns the string items of a sequence value. Non-string scalars
// are formatted with %v.
func (v Value) Strings() []string {
	if v.Kind != KindSequence {
		return nil
	}
	out := make([]string, 0, len(v.Items))
	for _, item := range v.Items {
		if s, ok := item.Scalar.(string); ok {
			out = append(out, s)
		} else {
			out = append(out, fmt.Sprintf("%v", item.Any()))
		}
	}
	return out
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// splitNamespace validates a dotted namespace such as "tool.briefcase"
func splitNamespace(ns string) ([]string, error) {
	segments := strings.Split(ns, ".")
	for _, segment := range segments {
		if !isValidKeySegment(segment) {
			return nil, structuralf("invalid namespace segment %q in %q", segment, ns)
		}
	}
	return segments, nil
}

// isValidKeySegment checks if a single path segment is a valid TOML bare key
func isValidKeySegment(s string) bool {
	if len(s) == 0 {
		return false
	}

	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isUnderscore := r == '_'
		isDash := r == '-'

		if !(isLetter || isDigit || isUnderscore || isDash) {
			return false
		}
	}
	return true
}
