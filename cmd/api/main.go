package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"mediavault/internal/adapters/cache/redis"
	"mediavault/internal/adapters/eventbroker/nats"
	"mediavault/internal/adapters/handlers/http/chi"
	"mediavault/internal/adapters/handlers/http/chi/v1/record"
	"mediavault/internal/adapters/handlers/http/chi/v1/upload"
	"mediavault/internal/adapters/metrics"
	"mediavault/internal/adapters/repository/postgres"
	"mediavault/internal/adapters/storage"
	"mediavault/internal/adapters/transcoder"
	"mediavault/internal/config"
	"mediavault/internal/core/port"
	"mediavault/internal/core/service/cleanup"
	"mediavault/internal/core/service/media"
	recordservice "mediavault/internal/core/service/record"
	uploadservice "mediavault/internal/core/service/upload"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger = newLogger(cfg.Env)

	rules, err := config.LoadRules(cfg.Media.RulesPath)
	if err != nil {
		logger.Error("failed to load upload rules", "error", err)
		os.Exit(1)
	}

	db, err := initDB(cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}(db)
	logger.Info("db connection established")

	//storage
	fileStorage, err := storage.New(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Error("failed to init storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	logger.Info("storage initialized", "driver", cfg.Storage.Driver, "bucket", cfg.Storage.BucketName)

	//optional collaborators, left as untyped nil when disabled
	var cache port.Cache
	if cfg.Cache.RedisAddr != "" {
		redisClient, err := redis.NewClient(ctx, cfg.Cache)
		if err != nil {
			logger.Error("failed to init redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		cache = redis.NewCache(redisClient)
		logger.Info("redis cache enabled", "addr", cfg.Cache.RedisAddr)
	}

	var publisher port.EventPublisher
	if cfg.NATS.URL != "" {
		natsPublisher, err := nats.NewNATSPublisher(ctx, cfg.NATS, logger)
		if err != nil {
			logger.Error("failed to init NATS publisher", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := natsPublisher.Close(); err != nil {
				logger.Error("failed to close NATS publisher", "error", err)
			}
		}()
		publisher = natsPublisher
		logger.Info("cleanup jobs enabled", "subject", cfg.NATS.Subject)
	}

	prom := metrics.NewPrometheus()

	//services
	unitOfWork := postgres.NewUnitOfWork(db)
	uploadService := uploadservice.NewUploadService(unitOfWork, fileStorage, cfg.Upload, prom, logger)
	mediaService := media.NewMediaService(fileStorage, transcoder.NewTranscoder(cfg.Media, logger), cfg.Media, prom, logger)
	recordService := recordservice.NewFileRecordService(unitOfWork, fileStorage, cache, publisher, cfg.Cache.TTL, logger)
	cleanupService := cleanup.NewCleanupService(unitOfWork, fileStorage, prom, logger)

	//http
	uploadHandler := upload.NewUploadHandlerV1(uploadService, mediaService, rules, cfg.Media.TempDir, logger)
	recordHandler := record.NewFileRecordHandlerV1(recordService, logger)

	router := chi.NewRouter(logger, uploadHandler, recordHandler, prom, cfg.Env, cfg.Server)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	// init cleanup task
	wg.Add(1)
	go func() {
		defer wg.Done()
		initCleanupTask(ctx, cleanupService, cfg.Upload.CleanupEvery, logger)
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("app shutdown complete")

}

func initDB(cfg config.DatabaseConfig) (*sql.DB, error) {

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenCons)
	db.SetMaxIdleConns(cfg.MaxIdleCons)
	db.SetConnMaxLifetime(cfg.ConMaxLifeTime)

	return db, nil
}

func initCleanupTask(ctx context.Context, service port.CleanupService, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	logger.Info("cleanup task initialized", "interval", every)

	for {
		select {
		case <-ticker.C:
			logger.Info("cleanup task starting")
			if err := service.CleanupExpiredSessions(ctx, time.Now()); err != nil {
				logger.Error("failed to cleanup expired sessions", "error", err)
			} else {
				logger.Info("cleanup task completed successfully")
			}
		case <-ctx.Done():
			logger.Info("cleanup task stopped")
			return
		}
	}

}

func newLogger(env config.Env) *slog.Logger {
	if env.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
