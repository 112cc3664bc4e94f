// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The runcfg Authors

// Package dump persists a resolved experiment config and an environment
// snapshot into a run directory.
//
// The layout under <logdir>/configs/ is:
//
//	_config.json       merged experiment config, key order preserved
//	_environment.json  environment snapshot captured at dump time
//	<basename>         a copy of every source config file
//	_summary.log       append-only text-summary sink
//
// Dump is not transactional: an IO failure propagates after whatever files
// were already written.
package dump

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/expstack/runcfg/internal/conftree"
	"github.com/expstack/runcfg/internal/envinfo"
	"github.com/expstack/runcfg/internal/logger"
	"github.com/expstack/runcfg/internal/summary"
)

const (
	configFileName      = "_config.json"
	environmentFileName = "_environment.json"
)

// Dump writes cfg and a fresh environment snapshot into <logdir>/configs/,
// copies each source config file there under its basename (collisions
// silently overwrite), and appends both documents to the run's summary
// sink at step zero. A pre-existing configs directory is not an error.
// Progress is logged at debug level through the context logger.
func Dump(ctx context.Context, cfg *conftree.Tree, logdir string, configPaths []string) error {
	log := logger.FromContext(ctx)

	configDir := filepath.Join(logdir, "configs")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("error creating configs directory: %w", err)
	}

	environment := envinfo.Capture()

	cfgJSON, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, configFileName), cfgJSON, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", configFileName, err)
	}

	envJSON, err := json.MarshalIndent(environment, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding environment snapshot: %w", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, environmentFileName), envJSON, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", environmentFileName, err)
	}
	log.Debug().Str("dir", configDir).Msg("wrote config and environment documents")

	for _, path := range configPaths {
		if path == "" {
			continue
		}
		if err := copyFile(path, filepath.Join(configDir, filepath.Base(path))); err != nil {
			return err
		}
		log.Debug().Str("src", path).Msg("copied source config")
	}

	writer, err := summary.NewWriter(configDir)
	if err != nil {
		return err
	}
	defer writer.Close()

	writer.AddText("config", string(cfgJSON), 0)
	writer.AddText("environment", string(envJSON), 0)

	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("error creating config copy: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("error copying config file %q: %w", src, err)
	}

	return out.Close()
}
