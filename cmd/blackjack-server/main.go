package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	appcfg "github.com/roseline-games/blackjack-server/internal/config"

	"github.com/roseline-games/blackjack-server/internal/advisor"
	"github.com/roseline-games/blackjack-server/internal/history"
	"github.com/roseline-games/blackjack-server/internal/httpapi"
	"github.com/roseline-games/blackjack-server/internal/ledger"
	"github.com/roseline-games/blackjack-server/internal/msgcat"
	"github.com/roseline-games/blackjack-server/internal/obslog"
	"github.com/roseline-games/blackjack-server/internal/round"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer obslog.L().Sync() //nolint:errcheck

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis url error: %v", err)
	}
	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		cancel()
		log.Fatalf("redis ping error: %v", err)
	}
	cancel()

	chips := ledger.NewRedisLedger(rdb)
	store := round.NewRedisStore(rdb, time.Duration(cfg.RoundTTLSec)*time.Second)

	// History prefers Postgres; without DATABASE_URL games are only kept
	// in memory for the lifetime of the process.
	var recorder history.Recorder
	if cfg.DatabaseURL != "" {
		repo, err := history.NewRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("history repo init error: %v", err)
		}
		defer repo.Close() //nolint:errcheck
		schemaCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := repo.EnsureSchema(schemaCtx); err != nil {
			cancel()
			log.Fatalf("history schema error: %v", err)
		}
		cancel()
		recorder = repo
	} else {
		obslog.L().Warn("history_in_memory_only")
		recorder = history.NewMemoryRecorder()
	}

	var adv *advisor.Client
	if cfg.GeminiAPIKey != "" {
		adv = advisor.NewClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey)
	} else {
		obslog.L().Warn("advisor_disabled_no_api_key")
	}

	msgs, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}

	api := httpapi.NewServer(httpapi.Config{
		Rounds:        round.NewManager(store, chips, recorder),
		Chips:         chips,
		History:       recorder,
		Advisor:       adv,
		Messages:      msgs,
		StartingChips: cfg.StartingChips,
		HistoryLimit:  cfg.HistoryLimit,
	})

	srv := &fasthttp.Server{
		Handler:          api.Handler,
		Name:             "blackjack-server",
		ReadTimeout:      10 * time.Second,
		WriteTimeout:     15 * time.Second,
		IdleTimeout:      60 * time.Second,
		CloseOnShutdown:  true,
		DisableKeepalive: false,
	}

	errCh := make(chan error, 1)
	go func() {
		obslog.L().Info("server_listen", zap.String("addr", cfg.ListenAddr))
		errCh <- srv.ListenAndServe(cfg.ListenAddr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		obslog.L().Info("server_shutdown", zap.String("signal", sig.String()))
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.ShutdownWithContext(shutCtx); err != nil {
			obslog.L().Error("server_shutdown_failed", zap.Error(err))
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}

	_ = rdb.Close()
}
