package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/daniilsolovey/blog-catalog/config"
	"github.com/daniilsolovey/blog-catalog/internal/blog"
	"github.com/daniilsolovey/blog-catalog/internal/rest"
	"github.com/daniilsolovey/blog-catalog/internal/rpc"
)

const rpcPath = "/rpc"

type App struct {
	Manager *blog.Manager
	Logger  *slog.Logger
	Echo    *echo.Echo
	Config  config.Config
}

func New(cfg config.Config, manager *blog.Manager, logger *slog.Logger) *App {
	handler := rest.NewBlogHandler(manager, logger)

	e := handler.RegisterRoutes()
	e.Any(rpcPath, echo.WrapHandler(rpc.New(logger, manager)))

	return &App{
		Manager: manager,
		Logger:  logger,
		Echo:    e,
		Config:  cfg,
	}
}

// Run serves HTTP and refreshes the catalog in the background until the
// server stops.
func (a *App) Run(ctx context.Context) error {
	refreshCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.Manager.Run(refreshCtx, a.Config.Catalog.RefreshInterval)

	addr := fmt.Sprintf("%s:%d", a.Config.App.Host, a.Config.App.Port)
	a.Logger.Info("starting server", "addr", addr, "rpc", rpcPath)

	err := a.Echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) GracefulShutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
