// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The runcfg Authors

package config

import (
	"fmt"

	"github.com/expstack/runcfg/internal/conftree"
)

// RunArgs is the parsed-arguments record: the tool's own named arguments,
// kept separate from the experiment config tree. Segment-free CLI override
// tokens assign to RunArgs fields by name, and the config's reserved "args"
// section is synchronized with this record in both directions.
//
// Struct tags map fields to RUNCFG_-prefixed environment variables via
// caarlos0/env.
type RunArgs struct {
	// Configs lists the experiment config file paths to load and merge.
	Configs []string `env:"CONFIGS" envSeparator:","`

	// Expdir is the directory of the experiment module.
	Expdir string `env:"EXPDIR"`

	// Logdir is the run directory that Dump writes into.
	Logdir string `env:"LOGDIR"`

	// Baselogdir is the parent directory for auto-named run directories,
	// used when Logdir is empty.
	Baselogdir string `env:"BASELOGDIR"`

	// Resume is an optional checkpoint path to resume training from.
	Resume string `env:"RESUME"`

	// Seed is the global random seed recorded for the run.
	Seed int `env:"SEED"`

	// Verbose enables debug-level logging.
	Verbose bool `env:"VERBOSE"`

	// DumpDisabled skips persisting the run directory at the end of a run.
	DumpDisabled bool `env:"NO_DUMP"`

	// Explicit tracks which argument names were explicitly set by a CLI
	// flag, an environment variable, or an override token, as opposed to
	// carrying a default or zero value. Exported so that merging RunArgs
	// sources unions it.
	Explicit map[string]bool

	// Extra holds override-assigned names with no dedicated field above,
	// in assignment order. They round-trip through the config's "args"
	// section like the named arguments.
	Extra *conftree.Tree
}

func newRunArgs() *RunArgs {
	return &RunArgs{Explicit: make(map[string]bool)}
}

// defaultArgs holds the built-in values applied after all sources merge.
func defaultArgs() *RunArgs {
	return &RunArgs{Seed: 42}
}

// Provided reports whether the named argument was explicitly set rather
// than defaulted.
func (a *RunArgs) Provided(name string) bool {
	return a.Explicit[name]
}

func (a *RunArgs) markProvided(name string) {
	if a.Explicit == nil {
		a.Explicit = make(map[string]bool)
	}
	a.Explicit[name] = true
}

// Clone returns a deep copy of the record.
func (a *RunArgs) Clone() *RunArgs {
	out := *a
	out.Configs = append([]string(nil), a.Configs...)
	out.Explicit = make(map[string]bool, len(a.Explicit))
	for k, v := range a.Explicit {
		out.Explicit[k] = v
	}
	if a.Extra != nil {
		out.Extra = a.Extra.Clone()
	}
	return &out
}

// logdirArgNames are the two argument names whose empty-string value counts
// as "unset" when config-declared args are merged back onto the record.
// Kept as an explicit two-name special case on purpose.
var logdirArgNames = map[string]bool{
	"logdir":     true,
	"baselogdir": true,
}

// argField describes one RunArgs field for the by-name access used by
// override tokens and the config-args synchronization. An explicit table,
// not reflection.
type argField struct {
	set    func(*RunArgs, any) error
	value  func(*RunArgs) any
	isZero func(*RunArgs) bool
}

var argFields = map[string]argField{
	"configs": {
		set:    func(a *RunArgs, v any) error { return assignStrings(&a.Configs, v) },
		value:  func(a *RunArgs) any { return a.Configs },
		isZero: func(a *RunArgs) bool { return len(a.Configs) == 0 },
	},
	"expdir": {
		set:    func(a *RunArgs, v any) error { return assignString(&a.Expdir, v) },
		value:  func(a *RunArgs) any { return a.Expdir },
		isZero: func(a *RunArgs) bool { return a.Expdir == "" },
	},
	"logdir": {
		set:    func(a *RunArgs, v any) error { return assignString(&a.Logdir, v) },
		value:  func(a *RunArgs) any { return a.Logdir },
		isZero: func(a *RunArgs) bool { return a.Logdir == "" },
	},
	"baselogdir": {
		set:    func(a *RunArgs, v any) error { return assignString(&a.Baselogdir, v) },
		value:  func(a *RunArgs) any { return a.Baselogdir },
		isZero: func(a *RunArgs) bool { return a.Baselogdir == "" },
	},
	"resume": {
		set:    func(a *RunArgs, v any) error { return assignString(&a.Resume, v) },
		value:  func(a *RunArgs) any { return a.Resume },
		isZero: func(a *RunArgs) bool { return a.Resume == "" },
	},
	"seed": {
		set:    func(a *RunArgs, v any) error { return assignInt(&a.Seed, v) },
		value:  func(a *RunArgs) any { return a.Seed },
		isZero: func(a *RunArgs) bool { return a.Seed == 0 },
	},
	"verbose": {
		set:    func(a *RunArgs, v any) error { return assignBool(&a.Verbose, v) },
		value:  func(a *RunArgs) any { return a.Verbose },
		isZero: func(a *RunArgs) bool { return !a.Verbose },
	},
	"no_dump": {
		set:    func(a *RunArgs, v any) error { return assignBool(&a.DumpDisabled, v) },
		value:  func(a *RunArgs) any { return a.DumpDisabled },
		isZero: func(a *RunArgs) bool { return !a.DumpDisabled },
	},
}

// argFieldNames returns the known argument names in a fixed declaration
// order, for deterministic config-args output.
func argFieldNames() []string {
	return []string{"configs", "expdir", "logdir", "baselogdir", "resume", "seed", "verbose", "no_dump"}
}

// setField assigns a typed value to the named argument and marks it
// provided. Names with no dedicated field land in the Extra section, so
// free-form argument names are accepted rather than rejected.
func (a *RunArgs) setField(name string, value any) error {
	field, ok := argFields[name]
	if !ok {
		a.setExtra(name, value)
		return nil
	}
	if err := field.set(a, value); err != nil {
		return fmt.Errorf("argument %q: %w", name, err)
	}
	a.markProvided(name)
	return nil
}

func (a *RunArgs) setExtra(name string, value any) {
	if a.Extra == nil {
		a.Extra = conftree.New()
	}
	a.Extra.Set(name, value)
	a.markProvided(name)
}

func assignString(dst *string, v any) error {
	switch val := v.(type) {
	case string:
		*dst = val
	case nil:
		*dst = ""
	default:
		return fmt.Errorf("cannot assign %T to string field", v)
	}
	return nil
}

func assignStrings(dst *[]string, v any) error {
	switch val := v.(type) {
	case []string:
		*dst = append([]string(nil), val...)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("cannot assign %T element to string list field", item)
			}
			out = append(out, s)
		}
		*dst = out
	case string:
		*dst = []string{val}
	case nil:
		*dst = nil
	default:
		return fmt.Errorf("cannot assign %T to string list field", v)
	}
	return nil
}

func assignInt(dst *int, v any) error {
	switch val := v.(type) {
	case int:
		*dst = val
	case float64:
		if val != float64(int(val)) {
			return fmt.Errorf("cannot assign non-integral %v to integer field", val)
		}
		*dst = int(val)
	default:
		return fmt.Errorf("cannot assign %T to integer field", v)
	}
	return nil
}

func assignBool(dst *bool, v any) error {
	val, ok := v.(bool)
	if !ok {
		return fmt.Errorf("cannot assign %T to boolean field", v)
	}
	*dst = val
	return nil
}

// syncArgsToConfig writes the record's values under the config's reserved
// "args" key. Int and bool arguments are always written, defaults
// included; string-valued arguments are skipped when both unset and
// empty; logdir and baselogdir are skipped whenever empty, provided or
// not. Extra names are written unless their value is null.
func syncArgsToConfig(tree *conftree.Tree, args *RunArgs) {
	argsTree, ok := argsSection(tree)
	if !ok {
		argsTree = conftree.New()
		tree.Set("args", argsTree)
	}

	for _, name := range argFieldNames() {
		field := argFields[name]
		value := field.value(args)
		if logdirArgNames[name] && value == "" {
			continue
		}
		switch value.(type) {
		case int, bool:
			// always carries a concrete value
		default:
			if field.isZero(args) && !args.Provided(name) {
				continue
			}
		}
		argsTree.Set(name, value)
	}

	for _, name := range args.Extra.Keys() {
		value, _ := args.Extra.Get(name)
		if value == nil {
			continue
		}
		argsTree.Set(name, value)
	}
}

// syncConfigToArgs applies config-declared args back onto the record. A
// config value is adopted only when the CLI-scope value is unset; for
// logdir and baselogdir an empty string also counts as unset. Config keys
// with no matching RunArgs field are adopted into the Extra section
// unless an override already set them.
func syncConfigToArgs(tree *conftree.Tree, args *RunArgs) error {
	argsTree, ok := argsSection(tree)
	if !ok {
		return nil
	}

	for _, name := range argsTree.Keys() {
		value, _ := argsTree.Get(name)

		field, known := argFields[name]
		if !known {
			if !args.Extra.Has(name) {
				args.setExtra(name, value)
			}
			continue
		}

		unset := field.isZero(args) && !args.Provided(name)
		if logdirArgNames[name] {
			unset = field.value(args) == ""
		}
		if !unset {
			continue
		}

		if err := args.setField(name, value); err != nil {
			return fmt.Errorf("error applying config-declared args: %w", err)
		}
	}

	return nil
}

func argsSection(tree *conftree.Tree) (*conftree.Tree, bool) {
	raw, ok := tree.Get("args")
	if !ok {
		return nil, false
	}
	sub, ok := raw.(*conftree.Tree)
	return sub, ok
}
