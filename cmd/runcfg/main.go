package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/expstack/runcfg/internal/config"
	"github.com/expstack/runcfg/internal/dump"
	"github.com/expstack/runcfg/internal/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("runcfg")

	args, overrides, err := config.ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error parsing run arguments")
	}

	cfg, args, err := config.Resolve(args, overrides)
	if err != nil {
		log.Fatal().Err(err).Msg("error resolving experiment config")
	}

	log.Debug().Any("config", cfg).Any("args", args).Msg("resolved experiment config")

	logdir := args.Logdir
	if logdir == "" && args.Baselogdir != "" {
		logdir = filepath.Join(args.Baselogdir, time.Now().Format("060102.150405"))
		log.Info().Str("logdir", logdir).Msg("derived run directory from baselogdir")
	}
	if logdir == "" {
		log.Fatal().Msg("either --logdir or --baselogdir is required")
	}

	if args.DumpDisabled {
		log.Info().Msg("run config dump disabled")
		return
	}

	ctx := log.WithContext(context.Background())
	if err := dump.Dump(ctx, cfg, logdir, args.Configs); err != nil {
		log.Fatal().Err(err).Str("logdir", logdir).Msg("error dumping run config")
	}

	log.Info().Str("logdir", logdir).Msg("run config dumped")
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
