package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/go-face-lock/internal/client"
	"github.com/MKhiriev/go-face-lock/internal/config"
	"github.com/MKhiriev/go-face-lock/internal/logger"
	"github.com/MKhiriev/go-face-lock/internal/utils"
	"github.com/MKhiriev/go-face-lock/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(1)
	}

	if cfg.App.Version != "" {
		buildVersion = cfg.App.Version
	}
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(buildInfo)

	log, logCloser := logger.NewClientLogger("go-face-lock", cfg.App.LogFile)
	defer logCloser.Close()

	log.Debug().Any("config", redacted(cfg)).Msg("received configs")

	ctx := context.Background()
	app, err := client.NewApp(ctx, cfg, buildInfo, utils.TerminalPrompt(os.Stdin, os.Stderr), log)
	if err != nil {
		log.Error().Err(err).Msg("init client app error")
		fmt.Fprintf(os.Stderr, "init error: %v\n", err)
		logCloser.Close()
		os.Exit(1)
	}

	runErr := app.Run(ctx)
	if err = app.Close(); err != nil {
		log.Error().Err(err).Msg("error releasing resources")
	}
	if runErr != nil {
		log.Error().Err(runErr).Msg("client run error")
		fmt.Fprintf(os.Stderr, "run error: %v\n", runErr)
		logCloser.Close()
		os.Exit(1)
	}
}

func printBuildInfo(info models.AppBuildInfo) {
	for _, line := range info.Lines() {
		fmt.Println(line)
	}
}

// redacted returns a copy of cfg that is safe to log.
func redacted(cfg *config.StructuredConfig) config.StructuredConfig {
	c := *cfg
	if c.Storage.Passphrase != "" {
		c.Storage.Passphrase = "***"
	}
	return c
}
