package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/riftforge/rift-server-go/internal/carddata"
	"github.com/riftforge/rift-server-go/internal/config"
	"github.com/riftforge/rift-server-go/internal/game"
	"github.com/riftforge/rift-server-go/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg.Log.Level)
	defer logger.Sync()

	catalog, cleanup, err := openCatalog(cfg, logger)
	if err != nil {
		logger.Fatal("loading card table", zap.Error(err))
	}
	defer cleanup()

	srv := server.New(logger, game.NewRegistry(), catalog)
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Warn("shutdown error", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}

func openCatalog(cfg *config.Config, logger *zap.Logger) (carddata.Catalog, func(), error) {
	switch cfg.Cards.Source {
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		cat, err := carddata.NewPGCatalog(ctx, cfg.Cards.DSN)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("card table loaded from postgres", zap.Int("cards", len(cat.All())))
		return cat, cat.Close, nil
	default:
		cat, err := carddata.LoadFile(cfg.Cards.Path)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("card table loaded", zap.String("path", cfg.Cards.Path), zap.Int("cards", len(cat.All())))
		return cat, func() {}, nil
	}
}
