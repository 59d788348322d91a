package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/memodb-io/docledger/internal/bootstrap"
	"github.com/memodb-io/docledger/internal/config"
	"github.com/memodb-io/docledger/internal/infra/cache"
	"github.com/memodb-io/docledger/internal/infra/db"
	mq "github.com/memodb-io/docledger/internal/infra/queue"
	"github.com/memodb-io/docledger/internal/middleware"
	"github.com/memodb-io/docledger/internal/modules/handler"
	"github.com/memodb-io/docledger/internal/pkg/tokenizer"
	"github.com/memodb-io/docledger/internal/router"
	"github.com/memodb-io/docledger/internal/telemetry"
)

const shutdownTimeout = 15 * time.Second

//	@title						Docledger API
//	@version					0.1.0
//	@description				Versioned document lifecycle service: objectives, documents, versions and session bindings.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token, e.g. "Bearer sk-dl-xxxx"
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	inj := bootstrap.BuildContainer()

	cfg, err := do.Invoke[*config.Config](inj)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := do.Invoke[*zap.Logger](inj)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// before storage so the instrumentation picks up the global providers
	providers, err := telemetry.Setup(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}

	if err := tokenizer.Init(); err != nil {
		return fmt.Errorf("load tokenizer: %w", err)
	}

	gdb, err := do.Invoke[*gorm.DB](inj)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	rdb, err := do.Invoke[*redis.Client](inj)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if telemetry.Enabled(cfg) {
		if err := db.RegisterOpenTelemetryPlugin(gdb); err != nil {
			log.Warn("gorm tracing plugin", zap.Error(err))
		}
		if err := cache.Instrument(rdb); err != nil {
			log.Warn("redis instrumentation", zap.Error(err))
		}
	}

	deps := router.RouterDeps{
		Config: cfg,
		Log:    log,
	}
	if deps.Credential, err = do.Invoke[*middleware.ServiceCredential](inj); err != nil {
		return fmt.Errorf("service credential: %w", err)
	}
	if deps.WorkspaceHandler, err = do.Invoke[*handler.WorkspaceHandler](inj); err != nil {
		return err
	}
	if deps.DocumentHandler, err = do.Invoke[*handler.DocumentHandler](inj); err != nil {
		return err
	}
	if deps.SessionHandler, err = do.Invoke[*handler.SessionHandler](inj); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler:           router.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	serveErr := g.Wait()

	cleanupCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if pub, err := do.Invoke[*mq.Publisher](inj); err == nil {
		if err := pub.Close(); err != nil {
			log.Warn("close publisher", zap.Error(err))
		}
	}
	if err := cache.Close(rdb); err != nil {
		log.Warn("close redis", zap.Error(err))
	}
	if err := db.Close(gdb); err != nil {
		log.Warn("close database", zap.Error(err))
	}
	if err := providers.Shutdown(cleanupCtx); err != nil {
		log.Warn("shutdown telemetry", zap.Error(err))
	}
	return serveErr
}
