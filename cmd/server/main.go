package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hongminglow/auth-smoke/internal/config"
	"github.com/hongminglow/auth-smoke/internal/logging"
	"github.com/hongminglow/auth-smoke/internal/server"
	"github.com/hongminglow/auth-smoke/internal/storage"
	"github.com/hongminglow/auth-smoke/internal/storage/memory"
	postgres "github.com/hongminglow/auth-smoke/internal/storage/postgres"
	"github.com/hongminglow/auth-smoke/internal/validate"
	"github.com/joho/godotenv"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logging.New(os.Stdout, cfg.LogFormat, slog.LevelInfo)

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	defer store.Close()

	v, err := validate.New()
	if err != nil {
		log.Fatalf("init validator: %v", err)
	}

	srv := server.New(cfg, store, v)

	go func() {
		slog.Info("auth service listening", "addr", cfg.HTTPAddress())
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		slog.Error("graceful shutdown error", "err", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (storage.PlayerStore, error) {
	if cfg.DatabaseURL == "" {
		slog.Info("DATABASE_URL not set; using in-memory store")
		return memory.NewPlayerStore(), nil
	}
	return postgres.NewPlayerStore(ctx, cfg.DatabaseURL)
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
