// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The runcfg Authors

// Package conftree implements the insertion-ordered key-value tree that
// experiment configurations are parsed into.
//
// A Tree behaves like an ordered dictionary: keys iterate in the order they
// were first inserted, assignments to existing keys keep their original
// position, and nested mappings are themselves *Tree values. Order is
// preserved for readability and round-tripping only; no semantics depend
// on it.
//
// Values held by a Tree are nil, bool, int, float64, string, *Tree, or
// []any sequences of those.
package conftree

// Tree is an insertion-ordered mapping from string keys to config values.
// The zero value is ready to use.
type Tree struct {
	keys   []string
	values map[string]any
}

// New returns an empty Tree.
func New() *Tree {
	return &Tree{values: make(map[string]any)}
}

func (t *Tree) init() {
	if t.values == nil {
		t.values = make(map[string]any)
	}
}

// Len returns the number of keys in the tree.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns the tree's keys in insertion order. The returned slice is a
// copy and may be modified by the caller.
func (t *Tree) Keys() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Get returns the value stored under key and whether the key is present.
func (t *Tree) Get(key string) (any, bool) {
	if t == nil || t.values == nil {
		return nil, false
	}
	v, ok := t.values[key]
	return v, ok
}

// Has reports whether key is present in the tree.
func (t *Tree) Has(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// Set stores value under key. A new key is appended to the iteration order;
// assigning to an existing key keeps its original position.
func (t *Tree) Set(key string, value any) {
	t.init()
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// Delete removes key from the tree. Deleting an absent key is a no-op.
func (t *Tree) Delete(key string) {
	if t == nil || t.values == nil {
		return
	}
	if _, ok := t.values[key]; !ok {
		return
	}
	delete(t.values, key)
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
}

// Clone returns a deep copy of the tree. Nested trees and sequences are
// copied recursively; scalar values are copied by assignment.
func (t *Tree) Clone() *Tree {
	out := New()
	if t == nil {
		return out
	}
	for _, k := range t.keys {
		out.Set(k, cloneValue(t.values[k]))
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case *Tree:
		return val.Clone()
	case []any:
		seq := make([]any, len(val))
		for i, item := range val {
			seq[i] = cloneValue(item)
		}
		return seq
	default:
		return v
	}
}
