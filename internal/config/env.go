// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The runcfg Authors

package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// envPrefix is prepended to every env tag lookup on RunArgs.
const envPrefix = "RUNCFG_"

// envVarNames maps argument names to the environment variables that feed
// them, for provided-tracking after env.Parse fills the struct.
var envVarNames = map[string]string{
	"configs":    envPrefix + "CONFIGS",
	"expdir":     envPrefix + "EXPDIR",
	"logdir":     envPrefix + "LOGDIR",
	"baselogdir": envPrefix + "BASELOGDIR",
	"resume":     envPrefix + "RESUME",
	"seed":       envPrefix + "SEED",
	"verbose":    envPrefix + "VERBOSE",
	"no_dump":    envPrefix + "NO_DUMP",
}

// parseEnv builds a RunArgs source from RUNCFG_-prefixed environment
// variables using the caarlos0/env library. Fields are mapped via the
// `env` tags declared on RunArgs.
//
// Returns a wrapped error if env.Parse fails (e.g. a value cannot be
// converted to the target type).
func parseEnv() (*RunArgs, error) {
	args := newRunArgs()
	if err := env.ParseWithOptions(args, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("error getting env args: %w", err)
	}

	for name, envVar := range envVarNames {
		if _, ok := os.LookupEnv(envVar); ok {
			args.markProvided(name)
		}
	}

	return args, nil
}
