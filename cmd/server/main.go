package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tiendaropa/internal/config"
	"tiendaropa/internal/infra"
	"tiendaropa/internal/logger"
	"tiendaropa/internal/repository"
	"tiendaropa/internal/router"
	"tiendaropa/internal/service"
	"tiendaropa/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Setup(cfg.Env, cfg.LogLevel)

	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.DBAutoMigrate)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	// Redis backs the job queue, the report cache and the rate limiter.
	// Outside production the API still starts without it.
	var rdb *redis.Client
	if client, err := infra.NewRedis(cfg.RedisURL); err != nil {
		if cfg.Env == "production" {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		log.Warn().Err(err).Msg("redis unavailable: async boletas, cache and shared rate limits disabled")
	} else {
		rdb = client
	}

	// Worker handlers are wired here (composition root) so that the pool
	// has access to every infrastructure dependency.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	comprobanteSvc := service.NewComprobanteService(
		repository.NewComprobanteRepository(db),
		repository.NewVentaRepository(db),
		cfg.StoreName,
		cfg.PDFStoragePath,
	)

	deps := router.Deps{DB: db, Redis: rdb, Comprobantes: comprobanteSvc}
	if rdb != nil {
		dispatcher := worker.NewDispatcher(rdb)
		deps.Dispatcher = dispatcher

		mailer := infra.NewMailer(cfg)
		var handlers worker.WorkerHandlers
		var emails worker.EmailEnqueuer
		if mailer.Configurado() {
			handlers.Email = worker.NewEmailWorker(mailer, comprobanteSvc)
			emails = dispatcher
		} else {
			log.Warn().Msg("SMTP_HOST not set: boletas will not be emailed")
		}
		handlers.Comprobante = worker.NewComprobanteWorker(comprobanteSvc, emails, cfg.StoreName)
		worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)
	}

	r := router.New(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("%s backend listening on :%d", cfg.StoreName, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server exited")
}
