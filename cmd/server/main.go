package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/restaurant-catalog/internal/config"
	"github.com/iliyamo/restaurant-catalog/internal/database"
	"github.com/iliyamo/restaurant-catalog/internal/handler"
	"github.com/iliyamo/restaurant-catalog/internal/importer"
	"github.com/iliyamo/restaurant-catalog/internal/logging"
	"github.com/iliyamo/restaurant-catalog/internal/middleware"
	"github.com/iliyamo/restaurant-catalog/internal/queue"
	"github.com/iliyamo/restaurant-catalog/internal/repository"
	"github.com/iliyamo/restaurant-catalog/internal/router"
	"github.com/iliyamo/restaurant-catalog/internal/service"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Pretty)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg.DB.User, cfg.DB.Pass, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name, database.Options{})
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.EnsureSchema {
		if err := database.EnsureSchema(ctx, db); err != nil {
			logger.Fatal("schema", zap.Error(err))
		}
	}

	// Redis is optional: without it the cache and limiter pass through.
	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		logger.Warn("redis unavailable; caching and rate limiting disabled")
	} else {
		defer rdb.Close()
	}
	cacheCfg := config.LoadCacheConfig()
	qcfg := config.LoadQueueConfig()

	store := repository.NewCatalogStore(db)
	im := importer.New(store, logger)
	var opts []service.Option
	if rdb != nil {
		opts = append(opts, service.WithCacheInvalidator(middleware.NewCacheInvalidator(cacheCfg, rdb)))
	}
	if qcfg.PublishEnabled {
		pub := &service.AMQPPublisher{URL: qcfg.URL, Queue: qcfg.ImportQueue, Logger: logger}
		opts = append(opts, service.WithPublisher(pub, qcfg.PublishTimeout))
	}
	svc := service.NewImportService(im, logger, opts...)

	if qcfg.ConsumerEnabled {
		consumer := &queue.Consumer{URL: qcfg.URL, Queue: qcfg.ImportQueue, LogDir: qcfg.LogDir, Logger: logger}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("import consumer stopped", zap.Error(err))
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler(logger)
	e.Use(middleware.RequestLogger(logger))

	router.RegisterRoutes(e)
	router.RegisterCatalog(e, handler.NewCatalogHandler(store), middleware.NewRedisCache(cacheCfg, rdb, logger))
	router.RegisterImports(e,
		&handler.ImportHandler{Runner: svc, MaxBytes: cfg.MaxImportBytes, Logger: logger},
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, logger),
	)

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
