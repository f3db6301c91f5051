package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/smart-attendance-api/api/swagger"
	"github.com/noah-isme/smart-attendance-api/internal/handler"
	"github.com/noah-isme/smart-attendance-api/internal/middleware"
	"github.com/noah-isme/smart-attendance-api/internal/repository"
	"github.com/noah-isme/smart-attendance-api/internal/service"
	"github.com/noah-isme/smart-attendance-api/pkg/cache"
	"github.com/noah-isme/smart-attendance-api/pkg/config"
	"github.com/noah-isme/smart-attendance-api/pkg/database"
	"github.com/noah-isme/smart-attendance-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/smart-attendance-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/smart-attendance-api/pkg/middleware/requestid"
	"github.com/noah-isme/smart-attendance-api/pkg/storage"
)

// @title Smart Attendance API
// @version 1.0.0
// @description Employee attendance and leave management
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()
	checks := map[string]handler.ReadinessCheck{}

	store, db, err := openStore(ctx, cfg, logr)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		checks["database"] = db.PingContext
	}
	checks["storage"] = func(ctx context.Context) error {
		if _, err := store.Read(ctx, repository.CollectionUsers); err != nil && !errors.Is(err, storage.ErrNotExist) {
			return err
		}
		return nil
	}

	users := repository.NewUserRepository(store, logr, metricsSvc)
	attendance := repository.NewAttendanceRepository(store, logr, metricsSvc)
	leaves := repository.NewLeaveRepository(store, logr, metricsSvc)

	var cacheRepo service.CacheRepository
	if cfg.Dashboard.CacheEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, dashboard cache disabled", zap.Error(err))
		} else {
			redisCache := repository.NewCacheRepository(client, logr)
			defer redisCache.Close() //nolint:errcheck
			cacheRepo = redisCache
			checks["redis"] = func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			}
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cacheRepo != nil)

	clock := service.NewClock(nil, cfg.Location())
	credentials := service.NewCredentials(cfg.Security.BcryptCost)
	tokens := service.NewTokenService(service.TokenConfig{
		Secret: cfg.JWT.Secret,
		TTL:    cfg.JWT.Expiration,
		Issuer: cfg.JWT.Issuer,
	}, clock, logr)
	validate := validator.New()

	if cfg.SeedData {
		if err := service.NewSeedService(users, attendance, leaves, credentials, clock, logr).Run(ctx); err != nil {
			return fmt.Errorf("seed data: %w", err)
		}
	}

	routes := handler.Routes{
		Auth:       handler.NewAuthHandler(service.NewAuthService(users, credentials, tokens, cacheSvc, validate, logr)),
		Attendance: handler.NewAttendanceHandler(service.NewAttendanceService(attendance, users, cacheSvc, clock, logr)),
		Leaves:     handler.NewLeaveHandler(service.NewLeaveService(leaves, users, cacheSvc, clock, validate, logr)),
		Users:      handler.NewUserHandler(service.NewUserService(users, credentials, cacheSvc, validate, logr)),
		Dashboard:  handler.NewDashboardHandler(service.NewDashboardService(users, attendance, leaves, cacheSvc, cfg.Dashboard.CacheTTL, clock, logr)),
	}
	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	routes.Register(r, cfg.APIPrefix, tokens)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("storage", cfg.Storage.Driver),
			zap.String("timezone", clock.Location().String()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore selects the collection backend. The returned pool is non-nil only
// for the postgres driver.
func openStore(ctx context.Context, cfg *config.Config, logr *zap.Logger) (storage.Store, *sqlx.DB, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		logr.Warn("using in-memory storage, data is lost on restart")
		return storage.NewMemoryStore(), nil, nil
	case config.StoragePostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		store := storage.NewPostgresStore(db)
		if err := store.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return store, db, nil
	case config.StorageFile, "":
		store, err := storage.NewFileStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open data dir: %w", err)
		}
		return store, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
