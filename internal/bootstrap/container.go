package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/memodb-io/docledger/internal/config"
	"github.com/memodb-io/docledger/internal/infra/blob"
	"github.com/memodb-io/docledger/internal/infra/cache"
	"github.com/memodb-io/docledger/internal/infra/db"
	"github.com/memodb-io/docledger/internal/infra/logger"
	mq "github.com/memodb-io/docledger/internal/infra/queue"
	"github.com/memodb-io/docledger/internal/middleware"
	"github.com/memodb-io/docledger/internal/modules/handler"
	"github.com/memodb-io/docledger/internal/modules/model"
	"github.com/memodb-io/docledger/internal/modules/repo"
	"github.com/memodb-io/docledger/internal/modules/service"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// bindIdempotencyPrefix namespaces bind replay records: bind:idem:<session>:<key>.
const bindIdempotencyPrefix = "bind:idem"

func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*zap.Logger](i)
		d, err := db.New(cfg)
		if err != nil {
			return nil, err
		}
		// [optional] auto migrate
		if cfg.Database.AutoMigrate {
			if err := d.AutoMigrate(model.All()...); err != nil {
				return nil, err
			}
			log.Info("database migrated")
		}
		return d, nil
	})

	// Redis
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return cache.New(context.Background(), cfg)
	})
	do.Provide(inj, func(i *do.Injector) (*cache.IdempotencyStore, error) {
		cfg := do.MustInvoke[*config.Config](i)
		ttl := time.Duration(cfg.Document.IdempotencyTTLSec) * time.Second
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		return cache.NewIdempotencyStore(do.MustInvoke[*redis.Client](i), bindIdempotencyPrefix, ttl), nil
	})

	// RabbitMQ DialFunc for connection and reconnection
	do.Provide(inj, func(i *do.Injector) (mq.DialFunc, error) {
		cfg := do.MustInvoke[*config.Config](i)

		dialFn := func() (*amqp.Connection, error) {
			useTLS := cfg.RabbitMQ.EnableTLS || strings.HasPrefix(cfg.RabbitMQ.URL, "amqps://")
			if useTLS {
				tlsConfig := &tls.Config{
					MinVersion: tls.VersionTLS12,
				}
				url := cfg.RabbitMQ.URL
				if strings.HasPrefix(url, "amqp://") {
					url = strings.Replace(url, "amqp://", "amqps://", 1)
				}
				return amqp.DialTLS(url, tlsConfig)
			}
			return amqp.Dial(cfg.RabbitMQ.URL)
		}

		return dialFn, nil
	})

	// RabbitMQ Connection
	do.Provide(inj, func(i *do.Injector) (*amqp.Connection, error) {
		dialFn := do.MustInvoke[mq.DialFunc](i)
		return dialFn()
	})

	// RabbitMQ Publisher
	do.Provide(inj, func(i *do.Injector) (*mq.Publisher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		conn := do.MustInvoke[*amqp.Connection](i)
		log := do.MustInvoke[*zap.Logger](i)
		dialFn := do.MustInvoke[mq.DialFunc](i)
		return mq.NewPublisher(conn, log, cfg, dialFn)
	})

	// S3
	do.Provide(inj, func(i *do.Injector) (*blob.S3Deps, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return blob.NewS3(context.Background(), cfg)
	})

	// auth
	do.Provide(inj, func(i *do.Injector) (*middleware.ServiceCredential, error) {
		return NewServiceCredential(do.MustInvoke[*config.Config](i), do.MustInvoke[*zap.Logger](i))
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (*repo.Stores, error) {
		return repo.NewStores(do.MustInvoke[*gorm.DB](i)), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.WorkspaceService, error) {
		return service.NewWorkspaceService(
			do.MustInvoke[*repo.Stores](i),
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.DocumentService, error) {
		return service.NewDocumentService(
			do.MustInvoke[*repo.Stores](i),
			do.MustInvoke[*mq.Publisher](i),
			do.MustInvoke[*cache.IdempotencyStore](i),
			do.MustInvoke[*blob.S3Deps](i),
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.WorkspaceHandler, error) {
		return handler.NewWorkspaceHandler(do.MustInvoke[service.WorkspaceService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.DocumentHandler, error) {
		return handler.NewDocumentHandler(do.MustInvoke[service.DocumentService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.SessionHandler, error) {
		return handler.NewSessionHandler(
			do.MustInvoke[service.WorkspaceService](i),
			do.MustInvoke[service.DocumentService](i),
		), nil
	})
	return inj
}
