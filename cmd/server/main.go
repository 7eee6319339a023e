package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"stashtrack/internal/app"
	"stashtrack/internal/config"
	"stashtrack/internal/server"
	"stashtrack/internal/storage"
	"stashtrack/internal/store"
	"stashtrack/internal/token"
	"stashtrack/internal/util"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	// a missing .env is fine; config falls back to the file and defaults
	_ = godotenv.Load()

	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	util.InitLogger(cfg.LogLevel)

	st, err := store.NewGormStore(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	files, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		return fmt.Errorf("open upload dir: %w", err)
	}
	tokens, err := token.New(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}
	a, err := app.New(app.Config{Store: st, Files: files, Tokens: tokens})
	if err != nil {
		return fmt.Errorf("app: %w", err)
	}

	srv := server.New(server.Config{
		App:            a,
		Tokens:         tokens,
		UploadsDir:     files.BasePath(),
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	slog.Info("listening", "addr", httpServer.Addr, "upload_dir", files.BasePath())
	return httpServer.ListenAndServe()
}
