// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The runcfg Authors

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expstack/runcfg/internal/conftree"
)

// TestApplyOverrides_NestedPath verifies that a slashed token creates the
// intermediate subtrees and stores a typed value at the leaf.
func TestApplyOverrides_NestedPath(t *testing.T) {
	tree := conftree.New()
	args := newRunArgs()

	err := ApplyOverrides(tree, args, []string{"--model/lr=0.01:float"})
	require.NoError(t, err)

	model, ok := tree.Get("model")
	require.True(t, ok)
	lr, ok := model.(*conftree.Tree).Get("lr")
	require.True(t, ok)
	assert.Equal(t, 0.01, lr) // a float, not a string
}

// TestApplyOverrides_TypedLiterals verifies each recognized type tag.
func TestApplyOverrides_TypedLiterals(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected any
	}{
		{name: "int", token: "--model/layers=4:int", expected: 4},
		{name: "integer alias", token: "--model/layers=4:integer", expected: 4},
		{name: "float", token: "--model/lr=0.1:float", expected: 0.1},
		{name: "bool true", token: "--model/pretrained=true:bool", expected: true},
		{name: "boolean alias", token: "--model/pretrained=false:boolean", expected: false},
		{name: "str", token: "--model/name=resnet:str", expected: "resnet"},
		{name: "string alias", token: "--model/name=resnet:string", expected: "resnet"},
		{name: "none literal", token: "--model/name=none:str", expected: nil},
		{name: "None literal", token: "--model/name=None:str", expected: nil},
		{name: "str keeps colons", token: "--model/ckpt=s3://bucket/key:str", expected: "s3://bucket/key"},
		{name: "single leading dash", token: "-model/leaf=1:int", expected: 1},
		{name: "no dashes at all", token: "model/leaf=1:int", expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := conftree.New()

			err := ApplyOverrides(tree, newRunArgs(), []string{tt.token})
			require.NoError(t, err)

			model, ok := tree.Get("model")
			require.True(t, ok)
			leaf := model.(*conftree.Tree).Keys()[0]
			v, ok := model.(*conftree.Tree).Get(leaf)
			require.True(t, ok)
			assert.Equal(t, tt.expected, v)
		})
	}
}

// TestApplyOverrides_Malformed verifies the ErrMalformedOverride taxonomy:
// bad "=" structure, missing type tag, unknown tag, unparseable literal.
// The error must name the offending token.
func TestApplyOverrides_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "no type tag", token: "--x=1"},
		{name: "no equals", token: "--x:int"},
		{name: "two equals", token: "--x=1=2:int"},
		{name: "unknown type tag", token: "--x=1:weird"},
		{name: "eval-looking tag", token: "--x=__import__('os'):eval"},
		{name: "bad int literal", token: "--a/b=ten:int"},
		{name: "bad float literal", token: "--a/b=fast:float"},
		{name: "bad bool literal", token: "--a/b=yep:bool"},
		{name: "empty name", token: "--=1:int"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := conftree.New()

			err := ApplyOverrides(tree, newRunArgs(), []string{tt.token})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedOverride)
			assert.Contains(t, err.Error(), tt.token)
			assert.Equal(t, 0, tree.Len())
		})
	}
}

// TestApplyOverrides_SegmentFreeTargetsArgs verifies that a token without
// slashes assigns the named RunArgs field instead of the config tree.
func TestApplyOverrides_SegmentFreeTargetsArgs(t *testing.T) {
	tree := conftree.New()
	args := newRunArgs()

	err := ApplyOverrides(tree, args, []string{
		"--logdir=/tmp/run:str",
		"--seed=7:int",
		"--verbose=true:bool",
	})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/run", args.Logdir)
	assert.Equal(t, 7, args.Seed)
	assert.True(t, args.Verbose)
	assert.True(t, args.Provided("logdir"))
	assert.True(t, args.Provided("seed"))

	// nothing landed on the config tree itself
	assert.Equal(t, 0, tree.Len())
}

// TestApplyOverrides_ExtraNames verifies that a segment-free token naming
// no dedicated field lands in the record's extra section, with "none"
// yielding a null value.
func TestApplyOverrides_ExtraNames(t *testing.T) {
	args := newRunArgs()

	err := ApplyOverrides(conftree.New(), args, []string{
		"--tag=none:str",
		"--comment=baseline:str",
		"--fold=3:int",
	})
	require.NoError(t, err)

	tag, ok := args.Extra.Get("tag")
	require.True(t, ok)
	assert.Nil(t, tag)
	comment, _ := args.Extra.Get("comment")
	assert.Equal(t, "baseline", comment)
	fold, _ := args.Extra.Get("fold")
	assert.Equal(t, 3, fold)

	assert.True(t, args.Provided("tag"))
	assert.Equal(t, []string{"tag", "comment", "fold"}, args.Extra.Keys())
}

// TestApplyOverrides_NoneOnArgs verifies that "none:str" clears a string
// argument.
func TestApplyOverrides_NoneOnArgs(t *testing.T) {
	args := newRunArgs()
	args.Resume = "/old/ckpt"

	err := ApplyOverrides(conftree.New(), args, []string{"--resume=none:str"})
	require.NoError(t, err)
	assert.Equal(t, "", args.Resume)
}

// TestApplyOverrides_DeepPathAndOverwrite verifies multi-level path
// creation and that a scalar in the way is replaced by a subtree.
func TestApplyOverrides_DeepPathAndOverwrite(t *testing.T) {
	tree := conftree.New()
	tree.Set("stages", "flat")

	err := ApplyOverrides(tree, newRunArgs(), []string{
		"--stages/stage1/optimizer/lr=0.001:float",
	})
	require.NoError(t, err)

	stages, _ := tree.Get("stages")
	stage1, ok := stages.(*conftree.Tree).Get("stage1")
	require.True(t, ok)
	optimizer, ok := stage1.(*conftree.Tree).Get("optimizer")
	require.True(t, ok)
	lr, _ := optimizer.(*conftree.Tree).Get("lr")
	assert.Equal(t, 0.001, lr)
}

// TestApplyOverrides_LastWriteWins verifies that later tokens override
// earlier ones at the same path.
func TestApplyOverrides_LastWriteWins(t *testing.T) {
	tree := conftree.New()

	err := ApplyOverrides(tree, newRunArgs(), []string{
		"--model/lr=0.01:float",
		"--model/lr=0.1:float",
	})
	require.NoError(t, err)

	model, _ := tree.Get("model")
	lr, _ := model.(*conftree.Tree).Get("lr")
	assert.Equal(t, 0.1, lr)
}
