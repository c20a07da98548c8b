package worker

// retry_cron.go
// Background goroutine that periodically re-enqueues allocation reports
// stuck in status='pending' with a next_retry_at in the past. Scans every
// tenant database, since pending reports live per tenant. Skips the tick
// entirely while the mail circuit breaker is open.

import (
	"context"
	"time"

	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/infra"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/repository"
	"github.com/JoseLopezGonzalez/lapesquerapp-backend-sub002/internal/tenant"

	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	Reports    repository.ReportRepository
	Tenants    *tenant.Registry
	Dispatcher *Dispatcher
	CB         *infra.CircuitBreaker
}

// StartRetryCron launches a background goroutine that ticks every 30s and
// re-enqueues due reports. Respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	// Breaker open means the relay is down — re-enqueueing would only burn
	// retry budget.
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	now := time.Now()
	for _, key := range cfg.Tenants.Keys() {
		tenantCtx := tenant.WithKey(ctx, key)

		reports, err := cfg.Reports.ListPendingRetries(tenantCtx, now, retryBatchSize)
		if err != nil {
			log.Error().Err(err).Str("tenant", key).Msg("retry_cron: failed to query pending retries")
			continue
		}
		if len(reports) == 0 {
			continue
		}

		log.Info().Int("count", len(reports)).Str("tenant", key).Msg("retry_cron: re-enqueueing pending reports")

		for i := range reports {
			payload := ReportJobPayload{ReportID: reports[i].ID.String(), Tenant: key}
			if err := cfg.Dispatcher.EnqueueReport(ctx, payload); err != nil {
				log.Error().
					Err(err).
					Str("report_id", reports[i].ID.String()).
					Str("tenant", key).
					Msg("retry_cron: failed to enqueue report")
				continue
			}
			// Push next_retry_at forward so the next tick does not double-enqueue
			// while the job is still in the queue.
			next := now.Add(retryTickInterval * 2)
			reports[i].NextRetryAt = &next
			if err := cfg.Reports.Update(tenantCtx, &reports[i]); err != nil {
				log.Error().Err(err).Str("report_id", reports[i].ID.String()).Msg("retry_cron: failed to update retry schedule")
			}
		}
	}
}
