package config

import (
	"github.com/expstack/runcfg/internal/conftree"
)

// Resolve produces the final experiment config and run-arguments record:
// it loads and merges args.Configs, applies CLI override tokens, writes
// the record under the config's "args" section, and adopts config-declared
// args back onto the record where the CLI left them unset.
//
// The incoming args record is never mutated; on error neither output is
// produced, so callers cannot observe a partially-overridden config.
func Resolve(args *RunArgs, overrideTokens []string) (*conftree.Tree, *RunArgs, error) {
	args = args.Clone()

	tree, err := LoadFiles(args.Configs)
	if err != nil {
		return nil, nil, err
	}

	if err := ApplyOverrides(tree, args, overrideTokens); err != nil {
		return nil, nil, err
	}

	syncArgsToConfig(tree, args)
	if err := syncConfigToArgs(tree, args); err != nil {
		return nil, nil, err
	}

	return tree, args, nil
}
