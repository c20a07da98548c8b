package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/config"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/infra"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/repository"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/router"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/service"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/tenant"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	conns, err := infra.OpenTenants(cfg.TenantDSNMap())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	tenants, err := tenant.NewRegistry(conns)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid tenant configuration")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Start goroutine worker pool for async report generation and delivery.
	// Worker handlers are wired here (composition root) so that the pool has
	// full access to all infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	mailCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	dispatcher := worker.NewDispatcher(rdb)

	reportRepo := repository.NewReportRepository(tenants)
	productionRepo := repository.NewProductionRepository(tenants)
	costSvc := service.NewCostService(
		repository.NewCostRepository(tenants),
		repository.NewOutputRepository(tenants),
		productionRepo,
		repository.NewRecordRepository(tenants),
	)

	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, worker.Handlers{
		Report: worker.NewReportWorker(reportRepo, productionRepo, costSvc, mailer, mailCB, rdb, cfg.PDFStoragePath),
	})
	worker.StartRetryCron(ctx, worker.RetryCronConfig{
		Reports:    reportRepo,
		Tenants:    tenants,
		Dispatcher: dispatcher,
		CB:         mailCB,
	})

	r := router.New(cfg, tenants, rdb, mailCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("lapesquerapp backend listening on :%d", cfg.Port)
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
	log.Info().Msg("server exited")
}
