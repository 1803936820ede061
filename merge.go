// FILE: lixenwraith/bundleconf/merge.go
package bundleconf

// Keys whose sequences accumulate across layers instead of being replaced.
const (
	KeyRequires = "requires"
	KeySources  = "sources"
)

var accumulatingKeys = []string{KeyRequires, KeySources}

// mergeLayer merges overlay into base in place. Accumulating keys are
// appended in order, with duplicates kept; every other key in overlay
// replaces the value in base. overlay is never modified and base never
// aliases it afterwards.
func mergeLayer(base, overlay Tree) error {
	if err := checkSequences(base); err != nil {
		return err
	}
	if err := checkSequences(overlay); err != nil {
		return err
	}

	for key, value := range overlay {
		if isAccumulating(key) {
			if len(value.Items) == 0 {
				continue
			}
			current := base[key]
			items := make([]Value, 0, len(current.Items)+len(value.Items))
			items = append(items, current.Items...)
			for _, item := range value.Items {
				items = append(items, item.Clone())
			}
			base[key] = SequenceValue(items...)
			continue
		}
		base[key] = value.Clone()
	}

	return nil
}

// normalize returns a copy of layer merged with an empty overlay. This is
// the layer's merge with itself: accumulating keys are checked to be
// sequences and otherwise left untouched, so applying it repeatedly is a
// no-op.
func normalize(layer Tree) (Tree, error) {
	out := layer.Clone()
	if out == nil {
		out = make(Tree)
	}
	if err := mergeLayer(out, Tree{}); err != nil {
		return nil, err
	}
	return out, nil
}

func checkSequences(t Tree) error {
	for _, key := range accumulatingKeys {
		if v, ok := t[key]; ok && v.Kind != KindSequence {
			return structuralf("%q must be a list, got %s", key, v.Kind)
		}
	}
	return nil
}

func isAccumulating(key string) bool {
	return key == KeyRequires || key == KeySources
}
