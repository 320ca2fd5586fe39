// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package document

// Merge deep-merges overlay onto base and returns a new tree. Mappings are
// merged key by key; any other overlay value replaces the base value
// outright, so the last writer wins. Neither input is modified.
func Merge(base, overlay *Node) *Node {
	if overlay == nil {
		return base.Clone()
	}
	if base == nil || base.Kind != KindMapping || overlay.Kind != KindMapping {
		return overlay.Clone()
	}

	out := base.Clone()
	for _, e := range overlay.Entries {
		existing := out.Entry(e.Key)
		if existing == nil {
			out.Entries = append(out.Entries, &Entry{Key: e.Key, KeyPos: e.KeyPos, Value: e.Value.Clone()})
			continue
		}
		if existing.Value.Kind != KindMapping || e.Value.Kind != KindMapping {
			existing.KeyPos = e.KeyPos
		}
		existing.Value = Merge(existing.Value, e.Value)
	}
	return out
}
