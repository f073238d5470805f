package app

import (
	"context"
	stderrors "errors"

	"tcppub/internal/core/server"
	"tcppub/internal/shared/config"
	"tcppub/internal/shared/logger"
	"tcppub/internal/shared/types"
)

// App is the publisher's top-level object.
type App struct {
	cfg    *types.Config
	server *server.Server
}

// New resolves cfg and builds the server. Configuration errors are returned
// as KindConfig.
func New(cfg *types.Config) (*App, error) {
	sc, err := config.ServerConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &App{
		cfg:    cfg,
		server: server.New(sc),
	}, nil
}

// Server exposes the underlying server.
func (a *App) Server() *server.Server {
	return a.server
}

// Run binds and serves until ctx is cancelled, returning nil in that case.
// A bind failure or a fatal source error is returned to the caller, which
// is expected to exit the process.
func (a *App) Run(ctx context.Context) error {
	logger.Info().
		Str("host", a.cfg.Host).
		Int("port", a.cfg.Port).
		Str("file", a.cfg.Filename).
		Msg("Starting tcppub...")

	if _, err := a.server.InitializeListener(ctx); err != nil {
		return err
	}
	err := a.server.Serve(ctx)
	if stderrors.Is(err, server.ErrServerClosed) {
		logger.Info().Msg("tcppub stopped")
		return nil
	}
	return err
}
