package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plsync/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	if os.Getenv("PLSYNC_DEBUG") != "" {
		shared.SetLogLevel(logger, log.DebugLevel)
	}

	configPath := os.Getenv("PLSYNC_CONFIG")
	if configPath == "" {
		var err error
		configPath, err = shared.DefaultConfigPath()
		if err != nil {
			logger.Fatalf("cannot resolve config location: %v", err)
		}
	}

	config, err := shared.LoadOrDefault(configPath)
	if err != nil {
		logger.Fatalf("cannot load config %s: %v", configPath, err)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "plsync",
		Usage:    "Keep YouTube playlists stocked from their source playlists",
		Version:  "0.2.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrMissingCredentials):
			logger.Error("no OAuth2 credentials configured; run: plsync config --oauth2-json <path>")
		case errors.Is(err, shared.ErrNotAuthenticated):
			logger.Error("not authenticated; run: plsync auth login")
		case errors.Is(err, shared.ErrNoRules):
			logger.Error("no sync rules configured; run: plsync config --add <playlist-id>")
		default:
			logger.Error("command failed", "error", err)
		}
		os.Exit(1)
	}
}
