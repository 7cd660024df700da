// Package app assembles the store, summarizer and notification channels
// from AppConfig. cmd/api, cmd/worker and cmd/contactctl share it.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"contact-pipeline/internal/config"
	"contact-pipeline/internal/infra/adapter/persistence/memory"
	pgRepo "contact-pipeline/internal/infra/adapter/persistence/postgres"
	"contact-pipeline/internal/infra/db"
	"contact-pipeline/internal/observability/metrics"
	"contact-pipeline/internal/repository"
	"contact-pipeline/internal/resilience/circuitbreaker"
)

// Store is the opened submission store.
type Store struct {
	Repo repository.SubmissionRepository

	// DB and Breaker are nil for the in-memory store.
	DB      *sql.DB
	Breaker *circuitbreaker.DBCircuitBreaker
}

// OpenStore opens the store cfg.StoreType names. With migrate set the
// Postgres schema is created before returning.
func OpenStore(ctx context.Context, cfg *config.AppConfig, migrate bool) (*Store, error) {
	switch cfg.StoreType {
	case config.StoreMemory:
		slog.Warn("using in-memory submission store; submissions are lost on restart")
		return &Store{Repo: memory.NewSubmissionRepo()}, nil

	case config.StorePostgres:
		database, err := db.OpenDSN(ctx, cfg.DatabaseURL, db.ConnectionConfigFromEnv())
		if err != nil {
			return nil, err
		}
		if migrate {
			if err := db.MigrateUp(ctx, database); err != nil {
				_ = database.Close()
				return nil, err
			}
		}
		breaker := circuitbreaker.NewDBCircuitBreaker(database)
		slog.Info("postgres submission store opened")
		return &Store{
			Repo:    pgRepo.NewSubmissionRepoWithBreaker(breaker),
			DB:      database,
			Breaker: breaker,
		}, nil

	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.StoreType)
	}
}

// Ping reports whether the store answers. The memory store always does.
func (s *Store) Ping(ctx context.Context) error {
	if s.Breaker == nil {
		return nil
	}
	return s.Breaker.PingContext(ctx)
}

// RefreshGauges updates the stored submission gauge and, for Postgres,
// the connection pool gauges.
func (s *Store) RefreshGauges(ctx context.Context) error {
	if s.DB != nil {
		metrics.UpdateDBConnectionStats(s.DB.Stats())
	}
	return metrics.RefreshStoredSubmissions(ctx, s.Repo)
}

// Close releases the database pool.
func (s *Store) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
