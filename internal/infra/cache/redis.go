package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/memodb-io/docledger/internal/config"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// New connects to Redis and fails fast when the server is unreachable.
func New(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	if cfg.Redis.EnableTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Redis.Addr, err)
	}
	return rdb, nil
}

// Instrument attaches tracing and pool metrics using the global otel
// providers, so call it after telemetry.Setup.
func Instrument(rdb *redis.Client) error {
	if err := redisotel.InstrumentTracing(rdb); err != nil {
		return err
	}
	return redisotel.InstrumentMetrics(rdb)
}

func Close(rdb *redis.Client) error {
	return rdb.Close()
}
