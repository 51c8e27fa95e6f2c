package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rodrigoscoelho/ClaudeSync/internal/api"
	"github.com/rodrigoscoelho/ClaudeSync/internal/claude"
	"github.com/rodrigoscoelho/ClaudeSync/internal/config"
	"github.com/rodrigoscoelho/ClaudeSync/internal/db"
	"github.com/rodrigoscoelho/ClaudeSync/internal/logging"
	"github.com/rodrigoscoelho/ClaudeSync/internal/store"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	cfg := config.MustLoad()

	logger := logging.New(cfg.LogLevel, cfg.LogFile)
	logger.Info().Str("addr", cfg.HTTPAddr).Str("upstream", cfg.ClaudeAPIURL).Msg("starting bridge")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := db.MustConnect(ctx, cfg.DatabaseURL)
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("db migration failed")
	}

	st := store.New(pool)

	if cfg.SessionKey != "" {
		if err := st.Sessions().Set(ctx, cfg.SessionKey, time.Now().Add(24*time.Hour)); err != nil {
			logger.Fatal().Err(err).Msg("failed storing bootstrap session key")
		}
		logger.Info().Msg("bootstrap session key stored")
	}

	provider := claude.NewClient(logger, cfg.ClaudeAPIURL, st.Sessions())

	app := api.NewServer(cfg, st.Sessions(), st.Settings(), provider, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		var err error
		if cfg.UseTLS() {
			logger.Info().Msg("listening (https)")
			err = srv.ListenAndServeTLS(cfg.SSLCertFile, cfg.SSLKeyFile)
		} else {
			logger.Info().Msg("listening")
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
}
