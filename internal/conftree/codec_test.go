package conftree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestUnmarshalYAML_PreservesKeyOrder verifies that a YAML mapping loads
// with keys iterating exactly as written in the document.
func TestUnmarshalYAML_PreservesKeyOrder(t *testing.T) {
	doc := "c: 1\na: 2\nb: 3\n"

	tree := New()
	require.NoError(t, yaml.Unmarshal([]byte(doc), tree))

	assert.Equal(t, []string{"c", "a", "b"}, tree.Keys())
}

// TestUnmarshalYAML_NestedValues verifies scalar typing, nested mappings,
// and sequences.
func TestUnmarshalYAML_NestedValues(t *testing.T) {
	doc := `
model:
  lr: 0.01
  layers: 4
  dropout: null
stages:
  - train
  - valid
verbose: true
name: resnet
`
	tree := New()
	require.NoError(t, yaml.Unmarshal([]byte(doc), tree))

	model, ok := tree.Get("model")
	require.True(t, ok)
	require.IsType(t, &Tree{}, model)

	lr, _ := model.(*Tree).Get("lr")
	assert.Equal(t, 0.01, lr)
	layers, _ := model.(*Tree).Get("layers")
	assert.Equal(t, 4, layers)
	dropout, ok := model.(*Tree).Get("dropout")
	require.True(t, ok)
	assert.Nil(t, dropout)

	stages, _ := tree.Get("stages")
	assert.Equal(t, []any{"train", "valid"}, stages)

	verbose, _ := tree.Get("verbose")
	assert.Equal(t, true, verbose)
	name, _ := tree.Get("name")
	assert.Equal(t, "resnet", name)
}

// TestUnmarshalYAML_AnchorsAndMergeKeys verifies that aliases are followed
// and `<<` merge keys are flattened with explicit keys winning.
func TestUnmarshalYAML_AnchorsAndMergeKeys(t *testing.T) {
	doc := `
defaults: &defaults
  lr: 0.01
  epochs: 10
stage1:
  <<: *defaults
  lr: 0.1
`
	tree := New()
	require.NoError(t, yaml.Unmarshal([]byte(doc), tree))

	stage, ok := tree.Get("stage1")
	require.True(t, ok)
	lr, _ := stage.(*Tree).Get("lr")
	epochs, _ := stage.(*Tree).Get("epochs")
	assert.Equal(t, 0.1, lr)
	assert.Equal(t, 10, epochs)
}

// TestUnmarshalYAML_RejectsNonMapping verifies that a non-mapping document
// fails instead of being silently coerced.
func TestUnmarshalYAML_RejectsNonMapping(t *testing.T) {
	tree := New()
	err := yaml.Unmarshal([]byte("- just\n- a\n- list\n"), tree)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mapping")
}

// TestYAMLRoundTrip verifies that marshal(unmarshal(doc)) keeps every
// key-value pair and the original key order.
func TestYAMLRoundTrip(t *testing.T) {
	doc := "c: 1\na:\n  z: true\n  y: none\nb:\n  - 1\n  - 2\n"

	tree := New()
	require.NoError(t, yaml.Unmarshal([]byte(doc), tree))

	out, err := yaml.Marshal(tree)
	require.NoError(t, err)

	reloaded := New()
	require.NoError(t, yaml.Unmarshal(out, reloaded))

	assert.Equal(t, tree.Keys(), reloaded.Keys())
	a, _ := reloaded.Get("a")
	assert.Equal(t, []string{"z", "y"}, a.(*Tree).Keys())
	b, _ := reloaded.Get("b")
	assert.Equal(t, []any{1, 2}, b)
}

// TestUnmarshalJSON_PreservesKeyOrder verifies the object-pairs-hook
// equivalent: JSON objects load in document order.
func TestUnmarshalJSON_PreservesKeyOrder(t *testing.T) {
	doc := `{"c": 1, "a": {"y": 2, "x": 3}, "b": [1, 2.5, "s", null, true]}`

	tree := New()
	require.NoError(t, json.Unmarshal([]byte(doc), tree))

	assert.Equal(t, []string{"c", "a", "b"}, tree.Keys())

	c, _ := tree.Get("c")
	assert.Equal(t, 1, c)

	a, _ := tree.Get("a")
	assert.Equal(t, []string{"y", "x"}, a.(*Tree).Keys())

	b, _ := tree.Get("b")
	assert.Equal(t, []any{1, 2.5, "s", nil, true}, b)
}

// TestUnmarshalJSON_RejectsNonObject verifies that a top-level array or
// scalar fails to decode into a tree.
func TestUnmarshalJSON_RejectsNonObject(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "array", doc: `[1, 2]`},
		{name: "scalar", doc: `42`},
		{name: "string", doc: `"hello"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := New()
			assert.Error(t, json.Unmarshal([]byte(tt.doc), tree))
		})
	}
}

// TestMarshalJSON_InsertionOrder verifies that JSON output emits keys in
// insertion order and round-trips losslessly.
func TestMarshalJSON_InsertionOrder(t *testing.T) {
	tree := treeOf("z", 1, "m", treeOf("b", 2, "a", 3), "a", "last")

	out, err := json.Marshal(tree)
	require.NoError(t, err)
	assert.JSONEq(t, `{"z":1,"m":{"b":2,"a":3},"a":"last"}`, string(out))
	assert.Equal(t, `{"z":1,"m":{"b":2,"a":3},"a":"last"}`, string(out))

	reloaded := New()
	require.NoError(t, json.Unmarshal(out, reloaded))
	assert.Equal(t, tree.Keys(), reloaded.Keys())
}

// TestMarshalJSON_Empty verifies that an empty tree marshals to {}.
func TestMarshalJSON_Empty(t *testing.T) {
	out, err := json.Marshal(New())
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))
}

// TestMarshalJSON_Indent verifies that the tree cooperates with
// json.MarshalIndent, which is how dump files are produced.
func TestMarshalJSON_Indent(t *testing.T) {
	tree := treeOf("a", 1)

	out, err := json.MarshalIndent(tree, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", string(out))
}
