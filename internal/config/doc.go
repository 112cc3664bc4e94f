// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The runcfg Authors

// Package config loads and resolves experiment configurations.
//
// An experiment config is an ordered tree (see conftree) assembled in the
// following order (later sources override earlier ones):
//  1. Config files passed via -c/--config, merged left to right
//  2. Typed CLI override tokens of the form --a/b/c=value:type
//
// Separately from the config tree, the package maintains the RunArgs
// record: the tool's own named arguments, assembled from command-line
// flags, RUNCFG_* environment variables, and built-in defaults (first
// source to set a field wins). Segment-free override tokens target RunArgs
// rather than the config tree, and the config's reserved "args" section is
// synchronized with RunArgs in both directions.
//
// The main entry points are [ParseArgs] and [Resolve].
package config
