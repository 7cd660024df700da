package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConnectionConfig(t *testing.T) {
	cfg := DefaultConnectionConfig()

	assert.Equal(t, 10, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
	assert.Equal(t, time.Hour, cfg.ConnMaxLifetime)
	assert.Equal(t, 30*time.Minute, cfg.ConnMaxIdleTime)
}

func TestConnectionConfigFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want ConnectionConfig
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			want: DefaultConnectionConfig(),
		},
		{
			name: "overrides",
			env: map[string]string{
				"DB_MAX_OPEN_CONNS":     "40",
				"DB_MAX_IDLE_CONNS":     "8",
				"DB_CONN_MAX_LIFETIME":  "10m",
				"DB_CONN_MAX_IDLE_TIME": "1m",
			},
			want: ConnectionConfig{
				MaxOpenConns:    40,
				MaxIdleConns:    8,
				ConnMaxLifetime: 10 * time.Minute,
				ConnMaxIdleTime: time.Minute,
			},
		},
		{
			name: "invalid and non-positive values are ignored",
			env: map[string]string{
				"DB_MAX_OPEN_CONNS":    "many",
				"DB_MAX_IDLE_CONNS":    "-1",
				"DB_CONN_MAX_LIFETIME": "0s",
			},
			want: DefaultConnectionConfig(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "DB_CONN_MAX_IDLE_TIME"} {
				t.Setenv(k, tt.env[k])
			}
			assert.Equal(t, tt.want, ConnectionConfigFromEnv())
		})
	}
}

func TestOpen_MissingDSN(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	db, err := Open(context.Background())

	assert.Nil(t, db)
	assert.ErrorIs(t, err, ErrMissingDSN)
}
