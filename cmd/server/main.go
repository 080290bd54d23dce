package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lumiere-jewels/storefront/app/config"
	"github.com/lumiere-jewels/storefront/app/server"
	"github.com/lumiere-jewels/storefront/app/store"
)

func main() {
	// The level is raised or lowered once the configuration is known.
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	level.Set(cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.Options{
		Driver: cfg.Database.Driver,
		URL:    cfg.Database.URL,
		Path:   cfg.Database.Path,
	})
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	app, err := server.NewApp(cfg, st, logger)
	if err != nil {
		slog.Error("Failed to wire application", "error", err)
		os.Exit(1)
	}

	srv := server.New(net.JoinHostPort("", cfg.Port), app.Handler)
	runErr := server.Run(ctx, srv)

	drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Close(drainCtx); err != nil {
		slog.Warn("Notifications still pending at exit", "error", err)
	}

	if runErr != nil {
		slog.Error("Server failed", "error", runErr)
		st.Close()
		os.Exit(1)
	}
}
