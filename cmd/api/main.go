package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pinglayer/pinglayer-api/internal/api"
	"github.com/pinglayer/pinglayer-api/internal/core/service"
	"github.com/pinglayer/pinglayer-api/internal/infrastructure/config"
	mongodb "github.com/pinglayer/pinglayer-api/internal/infrastructure/db/mongo"
	redisdb "github.com/pinglayer/pinglayer-api/internal/infrastructure/db/redis"
	"github.com/pinglayer/pinglayer-api/internal/infrastructure/queue"
	"github.com/pinglayer/pinglayer-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title        PingLayer API
// @version      1.0
// @description  Multi-tenant WhatsApp campaign platform with smart link tracking.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongodb index creation failed")
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Click analytics pipeline ---
	linkRepo := mongodb.NewSmartLinkRepository(db)
	clickMarker := redisdb.NewClickMarker(rdb)
	clickService := service.NewClickService(linkRepo, clickMarker, log)
	dispatcher := queue.NewDispatcher(0, clickService, log)
	dispatcher.Start(ctx)

	// --- HTTP API ---
	e := api.NewRouter(cfg, db, rdb, dispatcher, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("starting pinglayer-api")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	// Drain in-flight requests first: redirects served during the drain
	// still enqueue clicks, and Stop processes everything queued before
	// the workers exit.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	dispatcher.Stop()
	cancel()
	log.Info().Msg("stopped")
}
