package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hitgub616/txt-mafia-v0/internal/config"
	"github.com/hitgub616/txt-mafia-v0/internal/game"
	"github.com/hitgub616/txt-mafia-v0/internal/logger"
	"github.com/hitgub616/txt-mafia-v0/internal/server"
)

func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	registry := game.NewRegistry(
		game.DefaultConfig(),
		game.NewTickerFactory(),
		func() game.Dice { return rand.New(rand.NewSource(time.Now().UnixNano())) },
	)

	router := server.NewRouter(cfg, registry)
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("server listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Criticalf("shutdown error: %v", err)
	}
}
