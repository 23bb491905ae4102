// Package app wires configuration into the calculator components shared by the CLI and the server.
package app

import (
	"go.uber.org/zap"

	"quote-calculator/api"
	"quote-calculator/core/distance"
	"quote-calculator/core/pricing"
	"quote-calculator/core/selection"
	"quote-calculator/internal/config"
	"quote-calculator/internal/secrets"
)

// Version is the application version
const Version = "1.0.0"

// App holds the wired components
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Catalog    *pricing.Catalog
	Controller *selection.Controller
	Secrets    secrets.Source
	Resolver   *distance.Client
}

// New builds the components. A missing API key is not an error: distance lookups then fail soft.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	catalog, err := LoadCatalog(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	logger.Debug("catalog loaded",
		zap.String("version", catalog.Version),
		zap.Int("locations", len(catalog.Profiles())),
	)

	src := secrets.Default(cfg.Secrets.File, cfg.Secrets.EnvVar)
	key, err := src.Key()
	if err != nil {
		logger.Warn("routing API key not configured; distance lookups disabled",
			zap.String("sources", src.Name()),
			zap.Error(err),
		)
	}

	resolver := distance.NewClient(key,
		distance.WithBaseURL(cfg.Routing.BaseURL),
		distance.WithTimeout(cfg.Routing.Timeout),
		distance.WithRateLimit(cfg.Routing.RateLimit),
		distance.WithLogger(logger.Named("distance")),
	)

	return &App{
		Config:     cfg,
		Logger:     logger,
		Catalog:    catalog,
		Controller: selection.NewController(catalog),
		Secrets:    src,
		Resolver:   resolver,
	}, nil
}

// LoadCatalog reads a catalog file, or returns the built-in catalog for an empty path
func LoadCatalog(path string) (*pricing.Catalog, error) {
	if path == "" {
		return pricing.Builtin(), nil
	}
	return pricing.LoadFile(path)
}

// Server builds the HTTP server
func (a *App) Server() *api.Server {
	return api.NewServer(api.Options{
		Version:         Version,
		Controller:      a.Controller,
		Resolver:        a.Resolver,
		Secrets:         a.Secrets,
		PublicDir:       a.Config.Server.PublicDir,
		AllowedOrigins:  a.Config.Server.AllowedOrigins,
		ShutdownTimeout: a.Config.Server.ShutdownTimeout,
		Logger:          a.Logger.Named("http"),
	})
}
