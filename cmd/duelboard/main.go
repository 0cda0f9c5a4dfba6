package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/songowen/duelboard/internal/config"
	"github.com/songowen/duelboard/internal/logger"
	"github.com/songowen/duelboard/internal/server"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat)
	log := logger.New("duelboard")

	gs, err := server.NewGameServer(cfg)
	if err != nil {
		log.Error("Failed to set up game server", err)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := gs.Run(ctx); err != nil {
		log.Error("Game server stopped", err)
		os.Exit(1)
	}
}
