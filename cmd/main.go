package main

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/shrtx/internal/api"
	"github.com/desertthunder/shrtx/internal/identity"
	"github.com/desertthunder/shrtx/internal/repositories"
	"github.com/desertthunder/shrtx/internal/session"
	"github.com/desertthunder/shrtx/internal/shared"
	"github.com/desertthunder/shrtx/internal/urls"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}
	if err := shared.ApplyEnv(config); err != nil {
		logger.Warn("failed to apply environment overrides", "error", err)
	}

	jar, closeJar := newCookieJar(config, logger)
	defer closeJar()

	client := api.New(api.Options{
		BaseURL:    config.API.BaseURL,
		PathPrefix: config.API.PathPrefix,
		Jar:        jar,
		Logger:     logger,
	})

	var google *identity.Flow
	if flow, err := identity.NewFlow(config.Google, logger); err == nil {
		google = flow
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		API:     client,
		Session: session.NewStore(client, logger),
		URLs:    urls.NewCollection(client, logger),
		Google:  google,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "shrtx",
		Usage:    "Shorten, manage & track URLs from the terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

// newCookieJar opens the sqlite-backed jar so the backend session survives
// between invocations. When the database is missing or not yet migrated the
// session falls back to an in-memory jar for this invocation only.
func newCookieJar(config *shared.Config, logger *log.Logger) (http.CookieJar, func()) {
	db, err := shared.NewDatabase(config.Database.Path)
	if err == nil {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		repo := repositories.NewCookieRepository(db)
		if jar, jarErr := repositories.NewJar(repo, logger); jarErr == nil {
			return jar, func() { db.Close() }
		} else {
			err = jarErr
		}
		db.Close()
	}

	logger.Debug("session persistence unavailable, run 'shrtx setup'", "error", err)
	memJar, _ := cookiejar.New(nil)
	return memJar, func() {}
}
