package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

type argsBuilder struct {
	sources   []*RunArgs
	overrides []string
	err       error
}

func newArgsBuilder() *argsBuilder {
	return &argsBuilder{
		sources: make([]*RunArgs, 0, 3),
	}
}

// build folds the collected sources into a single RunArgs with mergo.
// Sources are merged in order and only fill fields still at their zero
// value, so the first source to set a field wins.
func (b *argsBuilder) build() (*RunArgs, []string, error) {
	if b.err != nil {
		return nil, nil, fmt.Errorf("error occured during building run args: %w", b.err)
	}

	args := newRunArgs()
	for _, src := range b.sources {
		// mergo fills zero-valued fields, which would let a later source
		// clobber an earlier explicit zero (e.g. --seed=0), so remember
		// explicitly set fields and restore them after the merge. The
		// Explicit set itself is a map, so mergo unions it across sources.
		keep := make(map[string]any)
		for _, name := range argFieldNames() {
			if args.Provided(name) {
				keep[name] = argFields[name].value(args)
			}
		}
		if err := mergo.Merge(args, src); err != nil {
			return nil, nil, fmt.Errorf("error merging run args: %w", err)
		}
		for name, value := range keep {
			if err := args.setField(name, value); err != nil {
				return nil, nil, fmt.Errorf("error merging run args: %w", err)
			}
		}
	}

	// built-in defaults apply only to fields no source set explicitly, so
	// an explicit --seed=0 survives
	defaults := defaultArgs()
	if args.Seed == 0 && !args.Provided("seed") {
		args.Seed = defaults.Seed
	}

	return args, b.overrides, nil
}

func (b *argsBuilder) withFlags(argv []string) *argsBuilder {
	flagArgs, overrides, err := parseFlags(argv)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.sources = append(b.sources, flagArgs)
	b.overrides = overrides
	return b
}

func (b *argsBuilder) withEnv() *argsBuilder {
	envArgs, err := parseEnv()
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.sources = append(b.sources, envArgs)
	return b
}

// ParseArgs assembles the RunArgs record from argv, the RUNCFG_*
// environment, and built-in defaults, in that priority order. It also
// returns the raw override tokens found in argv, to be passed to
// ApplyOverrides or Resolve.
func ParseArgs(argv []string) (*RunArgs, []string, error) {
	return newArgsBuilder().
		withFlags(argv).
		withEnv().
		build()
}
