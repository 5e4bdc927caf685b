package main

import (
	"os"

	"github.com/rulingo/backoffice/internal/bootstrap"
	"github.com/rulingo/backoffice/internal/pkg/logger"
)

func main() {
	cfg, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	dbPool, err := bootstrap.SetupDatabase(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to set up database")
	}
	defer dbPool.Close()

	cli := commandLine{
		pool: dbPool,
		deps: bootstrap.BuildDependencies(dbPool),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error().Err(err).Msg("Command failed")
		}
		os.Exit(1)
	}
}
