package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/namsral/flag"

	"github.com/daniilsolovey/blog-catalog/config"
	"github.com/daniilsolovey/blog-catalog/internal/app"
	"github.com/daniilsolovey/blog-catalog/internal/blog"
)

var (
	flConfig = flag.String("config", "config.toml", "path to TOML configuration file")
	flDebug  = flag.Bool("debug", false, "enable debug mode")
	cfg      config.Config
	lg       *slog.Logger
)

func main() {
	flag.Parse()

	lg = newLogger(*flDebug)

	if err := godotenv.Load(); err != nil {
		lg.Debug("no .env file loaded", "error", err)
	}

	var err error
	cfg, err = config.Load(*flConfig)
	exitOnError(err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, res, err := app.NewSource(ctx, cfg, lg)
	exitOnError(err)
	defer func() {
		if err := res.Close(); err != nil {
			lg.Error("failed to release source resources", "error", err)
		}
	}()

	manager := blog.NewManager(src, cfg.Catalog.PageSize, lg)
	manager.SetRecentCount(cfg.Catalog.RecentCount)
	if err := manager.Load(ctx); err != nil {
		lg.Error("initial load failed", "source", src.Name(), "error", err)
	}

	service := app.New(cfg, manager, lg)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if err := service.Run(ctx); err != nil {
			lg.Error("service run failed", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	lg.Info("service stopping")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := service.GracefulShutdown(shutdownCtx); err != nil {
		lg.Error("service graceful shutdown failed", "error", err)
	}
}

func newLogger(debug bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

func exitOnError(err error) {
	if err != nil {
		lg.Error("app init failed", "error", err)
		os.Exit(1)
	}
}
