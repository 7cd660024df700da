package circuitbreaker

import (
	"context"
	"database/sql"
	"time"

	"github.com/sony/gobreaker"
)

// DBCircuitBreaker guards the submission database. Once the breaker is open
// the store fails fast instead of queueing requests behind a dead connection pool.
type DBCircuitBreaker struct {
	cb *CircuitBreaker
	db *sql.DB
}

// DBConfig returns configuration for the submission database.
// Five straight failures open the circuit for 30 seconds.
func DBConfig() Config {
	return Config{
		Name:             "submission-db",
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 1.0,
		MinRequests:      5,
	}
}

// NewDBCircuitBreaker wraps db with the default database breaker.
func NewDBCircuitBreaker(db *sql.DB) *DBCircuitBreaker {
	return NewDBCircuitBreakerWithConfig(db, DBConfig())
}

// NewDBCircuitBreakerWithConfig wraps db with a breaker built from cfg.
func NewDBCircuitBreakerWithConfig(db *sql.DB, cfg Config) *DBCircuitBreaker {
	return &DBCircuitBreaker{cb: New(cfg), db: db}
}

// QueryContext runs a query through the breaker.
// The caller owns the returned rows.
func (d *DBCircuitBreaker) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return Run(d.cb, func() (*sql.Rows, error) {
		return d.db.QueryContext(ctx, query, args...)
	})
}

// ExecContext runs a statement through the breaker.
func (d *DBCircuitBreaker) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return Run(d.cb, func() (sql.Result, error) {
		return d.db.ExecContext(ctx, query, args...)
	})
}

// PingContext checks connectivity through the breaker so health probes
// observe the same state as the store.
func (d *DBCircuitBreaker) PingContext(ctx context.Context) error {
	_, err := Run(d.cb, func() (struct{}, error) {
		return struct{}{}, d.db.PingContext(ctx)
	})
	return err
}

// State returns the current state of the circuit breaker.
func (d *DBCircuitBreaker) State() gobreaker.State {
	return d.cb.State()
}

// IsOpen returns true if the circuit breaker is in the open state.
func (d *DBCircuitBreaker) IsOpen() bool {
	return d.cb.IsOpen()
}

// DB returns the unguarded connection pool.
func (d *DBCircuitBreaker) DB() *sql.DB {
	return d.db
}
