package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SuperAJ1/CAPSTONE-sub000/internal/config"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/infra"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/router"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/service"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	breaker := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{
		Name:             "backend",
		FailureThreshold: cfg.CBFailureThreshold,
		OpenTimeout:      cfg.CBOpenTimeout(),
	})

	// Lookup cache is optional: without Redis every scan hits the backend.
	var (
		rdb   *redis.Client
		cache infra.LookupCache
	)
	if cfg.RedisURL != "" {
		rdb, err = infra.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, lookup cache disabled")
			rdb = nil
		} else {
			cache = infra.NewRedisLookupCache(rdb, cfg.LookupCacheTTL())
		}
	}

	backend := infra.NewBackendClient(cfg, breaker, cache)

	// With Redis, receipt e-mails go through a queue drained by a worker
	// pool; without it they are sent directly.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	var mailer service.ReceiptMailer
	if cfg.MailEnabled() {
		smtp := infra.NewMailer(cfg)
		mailer = smtp
		if rdb != nil {
			mailer = worker.NewDispatcher(rdb)
			worker.StartWorkerPool(workerCtx, rdb, cfg.WorkerPoolSize, map[string]worker.Handler{
				worker.JobReceiptEmail: worker.NewEmailWorker(smtp).Process,
			})
		}
	}
	receipts := service.NewReceiptService(cfg.StoreName, cfg.ReceiptStoragePath, infra.GenerateReceiptPDF, mailer)

	r := router.New(cfg, router.Deps{
		Backend:  backend,
		Breaker:  breaker,
		Redis:    rdb,
		Notifier: service.LogNotifier{},
		Receipts: receipts,
		Done:     workerCtx.Done(),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Str("backend", cfg.BackendURL).Msgf("checkout API listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	stopWorkers()
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server exited")
}
