package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// newFlagSet registers the run flags on a fresh FlagSet bound to args.
//
// Flags:
//
//	-c/--config   path to an experiment config, repeatable (.yml/.yaml/.json)
//	--expdir      experiment module directory
//	--logdir      run directory for dumps and summaries
//	--baselogdir  parent directory for auto-named run directories
//	--resume      checkpoint path to resume from
//	--seed        global random seed
//	-v/--verbose  verbose logging
//	--no-dump     skip persisting the run directory
func newFlagSet(args *RunArgs) *pflag.FlagSet {
	fs := pflag.NewFlagSet("runcfg", pflag.ContinueOnError)
	fs.StringArrayVarP(&args.Configs, "config", "c", nil, "Path to experiment config file, may repeat")
	fs.StringVar(&args.Expdir, "expdir", "", "Experiment module directory")
	fs.StringVar(&args.Logdir, "logdir", "", "Run directory")
	fs.StringVar(&args.Baselogdir, "baselogdir", "", "Parent directory for auto-named run directories")
	fs.StringVar(&args.Resume, "resume", "", "Checkpoint path to resume from")
	fs.IntVar(&args.Seed, "seed", 0, "Global random seed")
	fs.BoolVarP(&args.Verbose, "verbose", "v", false, "Verbose logging")
	fs.BoolVar(&args.DumpDisabled, "no-dump", false, "Skip persisting the run directory")
	return fs
}

// parseFlags parses argv into a RunArgs source. Tokens that look like
// name=value assignments but do not name a registered flag are split off
// and returned as raw override tokens — the parse-known-args half of the
// CLI contract.
func parseFlags(argv []string) (*RunArgs, []string, error) {
	args := newRunArgs()
	fs := newFlagSet(args)

	known, overrides := partitionOverrides(fs, argv)
	if err := fs.Parse(known); err != nil {
		return nil, nil, fmt.Errorf("error parsing flags: %w", err)
	}

	fs.Visit(func(f *pflag.Flag) {
		if name, ok := flagArgName(f.Name); ok {
			args.markProvided(name)
		}
	})

	return args, overrides, nil
}

// flagArgName maps a flag name to its RunArgs field name.
func flagArgName(flag string) (string, bool) {
	switch flag {
	case "config":
		return "configs", true
	case "no-dump":
		return "no_dump", true
	}
	if _, ok := argFields[flag]; ok {
		return flag, true
	}
	return "", false
}

// partitionOverrides splits argv into flag arguments and override tokens.
// A token is an override candidate when it contains "=" and either its
// name part (dashes stripped) contains a "/" path separator, or it does
// not match any registered flag or shorthand, or its value carries a
// recognized ":type" suffix. The last rule lets --seed=7:int target the
// run-args record even though --seed is also a registered flag.
func partitionOverrides(fs *pflag.FlagSet, argv []string) (known, overrides []string) {
	for _, arg := range argv {
		name, value, hasAssign := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if hasAssign && (!isRegisteredFlag(fs, name) || hasTypeTag(value)) {
			overrides = append(overrides, arg)
			continue
		}
		known = append(known, arg)
	}
	return known, overrides
}

func hasTypeTag(value string) bool {
	sep := strings.LastIndex(value, ":")
	if sep < 0 {
		return false
	}
	_, ok := typeParsers[value[sep+1:]]
	return ok
}

func isRegisteredFlag(fs *pflag.FlagSet, name string) bool {
	if strings.Contains(name, "/") {
		return false
	}
	if len(name) == 1 {
		return fs.ShorthandLookup(name) != nil
	}
	return fs.Lookup(name) != nil
}
