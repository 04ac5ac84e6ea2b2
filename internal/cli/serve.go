package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lazypower/twentyq/internal/config"
	"github.com/lazypower/twentyq/internal/game"
	"github.com/lazypower/twentyq/internal/llm"
	"github.com/lazypower/twentyq/internal/server"
	"github.com/lazypower/twentyq/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the game HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	cfg := config.Load()

	// Session store: SQLite when a path is configured, otherwise in-memory.
	var (
		sessions game.Store
		sweep    store.Purger
	)
	if cfg.Database.Path != "" {
		db, err := store.Open(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		sessions, sweep = db, db
		log.Info().Str("path", db.Path).Msg("sqlite session store")
	} else {
		mem := store.NewMemory()
		sessions, sweep = mem, mem
		log.Info().Msg("in-memory session store")
	}

	model, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return fmt.Errorf("configure model client: %w", err)
	}
	log.Info().Str("provider", cfg.LLM.Provider).Str("model", cfg.LLM.Model).Msg("model client ready")

	engine := game.New(sessions, model)

	// Sweep idle sessions on a fraction of the TTL.
	interval := cfg.Game.SessionTTL / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	stopSweep := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n, err := sweep.PurgeExpired(cfg.Game.SessionTTL); err != nil {
					log.Warn().Err(err).Msg("session sweep failed")
				} else if n > 0 {
					log.Debug().Int("purged", n).Msg("session sweep")
				}
			case <-stopSweep:
				return
			}
		}
	}()
	defer close(stopSweep)

	srv := server.New(sessions, engine, VersionString())
	srv.SetCookieMaxAge(cfg.Game.SessionTTL)
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", addr).Msg("twentyq serving")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	<-done
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
