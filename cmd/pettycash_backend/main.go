package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/SscSPs/pettycash_backend/internal/adapters/cache"
	"github.com/SscSPs/pettycash_backend/internal/adapters/events"
	"github.com/SscSPs/pettycash_backend/internal/adapters/storage"
	portsrepo "github.com/SscSPs/pettycash_backend/internal/core/ports/repositories"
	"github.com/SscSPs/pettycash_backend/internal/core/services"
	"github.com/SscSPs/pettycash_backend/internal/handlers"
	"github.com/SscSPs/pettycash_backend/internal/middleware"
	"github.com/SscSPs/pettycash_backend/internal/platform/config"
	"github.com/SscSPs/pettycash_backend/internal/platform/logger"
	"github.com/SscSPs/pettycash_backend/internal/repositories/database/pgsql"
	"github.com/SscSPs/pettycash_backend/internal/repositories/memory"
	"github.com/SscSPs/pettycash_backend/pkg/database"
	pkgredis "github.com/SscSPs/pettycash_backend/pkg/redis"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

// @title Petty Cash Backend API
// @version 1.0
// @description Multi-tenant petty cash, expense and revenue tracking with reports and PDF exports.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		// no logger yet
		os.Stderr.WriteString("Failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.IsProduction, cfg.LogLevel)
	if err != nil {
		os.Stderr.WriteString("Failed to build logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	zap.ReplaceGlobals(log)

	for _, w := range cfg.Warnings {
		log.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	stop()

	if err != nil {
		log.Error("Server exited with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

// run serves until ctx is cancelled or the server fails. Every resource it
// opens is closed before it returns.
func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	repos, pool, err := setupStorage(ctx, cfg, log)
	if err != nil {
		return errors.Wrap(err, "initialize storage")
	}
	defer database.ClosePgxPool(pool, log)

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = pkgredis.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
		if err != nil {
			return errors.Wrap(err, "connect to redis")
		}
		defer rdb.Close()
	}

	infra, closeInfra, err := setupInfrastructure(ctx, cfg, rdb, log)
	defer closeInfra()
	if err != nil {
		return errors.Wrap(err, "initialize infrastructure")
	}

	serviceContainer := services.NewServiceContainer(cfg, repos, infra)

	if err := serviceContainer.Organization.EnsureBootstrapAdmin(ctx, cfg.AdminOrganization, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return errors.Wrap(err, "create bootstrap admin")
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(log), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.FrontendBaseURL)))
	r.Use(middleware.Metrics())

	globalLimiter, err := middleware.NewRateLimiter(cfg.RateLimit, rdb)
	if err != nil {
		return errors.Wrap(err, "invalid rate limit")
	}
	r.Use(middleware.RateLimit(globalLimiter))

	if err := r.SetTrustedProxies(nil); err != nil {
		return errors.Wrap(err, "set trusted proxies")
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("port", cfg.Port), zap.String("storage", cfg.StorageBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return errors.Wrap(err, "serve")
		}
	case <-ctx.Done():
	}
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}

// setupStorage builds the repositories for the configured backend. The pool is nil for memory storage.
func setupStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (portsrepo.RepositoryProvider, *pgxpool.Pool, error) {
	if cfg.StorageBackend == config.StorageMemory {
		log.Info("Using in-memory storage")
		return memory.NewRepositoryProvider(memory.NewStore()), nil, nil
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck, log)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}

	log.Info("Running database migrations...")
	applied, err := pgsql.RunMigrations(cfg.DatabaseURL)
	if err != nil {
		pool.Close()
		return portsrepo.RepositoryProvider{}, nil, err
	}
	if applied {
		log.Info("Database migrations applied successfully.")
	} else {
		log.Info("No new migrations to apply.")
	}

	return pgsql.NewRepositoryProvider(pool), pool, nil
}

// setupInfrastructure connects the optional adapters. Unconfigured ones stay nil.
func setupInfrastructure(ctx context.Context, cfg *config.Config, rdb *redis.Client, log *zap.Logger) (services.Infrastructure, func(), error) {
	var infra services.Infrastructure
	closeFn := func() {}

	if rdb != nil {
		infra.Cache = cache.NewRedisReportCache(rdb, cfg.ReportCacheTTL)
		log.Info("Report cache enabled", zap.Duration("ttl", cfg.ReportCacheTTL))
	}

	if cfg.ReceiptsBucket != "" {
		s3, err := storage.NewS3(ctx, storage.S3Config{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			Bucket:          cfg.ReceiptsBucket,
		}, log)
		if err != nil {
			return infra, closeFn, err
		}
		infra.Receipts = s3
	} else {
		log.Warn("RECEIPTS_BUCKET not set, receipt uploads are disabled")
	}

	if cfg.AMQPURL != "" {
		publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, log)
		if err != nil {
			return infra, closeFn, err
		}
		infra.Publisher = publisher
		closeFn = func() {
			if err := publisher.Close(); err != nil {
				log.Warn("Failed to close AMQP connection", zap.Error(err))
			}
		}
	}

	return infra, closeFn, nil
}

func corsConfig(frontendBaseURL string) cors.Config {
	cc := cors.DefaultConfig()
	for _, o := range strings.Split(frontendBaseURL, ",") {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			cc.AllowOrigins = append(cc.AllowOrigins, o)
		}
	}
	if len(cc.AllowOrigins) == 0 {
		cc.AllowAllOrigins = true
	}
	cc.AllowCredentials = !cc.AllowAllOrigins
	cc.AddAllowHeaders("Authorization", "If-Match")
	cc.AddExposeHeaders("ETag", "Content-Disposition")
	return cc
}
