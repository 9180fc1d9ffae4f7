package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bookline/booking-gateway/internal/api"
	"github.com/bookline/booking-gateway/internal/core/service"
	"github.com/bookline/booking-gateway/internal/infrastructure/config"
	redisdb "github.com/bookline/booking-gateway/internal/infrastructure/db/redis"
	"github.com/bookline/booking-gateway/internal/infrastructure/upstream"
	"github.com/bookline/booking-gateway/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load(slog.Default())

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	cache := redisdb.NewCache(rdb)
	sessionStore := redisdb.NewSessionStore(rdb, "")

	sessions := service.NewSessionManager(sessionStore, logger.Component("session"))
	if err := sessions.Bootstrap(ctx); err != nil {
		log.Warn().Err(err).Msg("session bootstrap failed, starting unauthenticated")
	}

	platform := upstream.New(cfg.Upstream.BaseURL, sessions, logger.Component("upstream"))

	schedule := service.NewScheduleService(platform, cache, sessions.TenantID, cfg.Upstream.CacheTTL, logger.Component("schedule"))
	blocks := service.NewBlockCreator(schedule, logger.Component("blocks"))
	registry := service.NewWizardRegistry(logger.Component("wizard"))

	e := api.NewRouter(api.Deps{
		Sessions:      sessions,
		Schedule:      schedule,
		Blocks:        blocks,
		Registry:      registry,
		Auth:          platform,
		Storefront:    platform,
		Cache:         cache,
		CacheTTL:      cfg.Upstream.CacheTTL,
		RatePerMinute: cfg.Public.RatePerMinute,
		RateBurst:     cfg.Public.RateBurst,
		Log:           log,
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("booking gateway listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
