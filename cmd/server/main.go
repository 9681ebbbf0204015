package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nazmulrahman/young-star-app/internal/config"
	"github.com/nazmulrahman/young-star-app/internal/handler"
	"github.com/nazmulrahman/young-star-app/internal/identity"
	"github.com/nazmulrahman/young-star-app/internal/model"
	"github.com/nazmulrahman/young-star-app/internal/notify"
	"github.com/nazmulrahman/young-star-app/internal/service"
	"github.com/nazmulrahman/young-star-app/internal/session"
	"github.com/nazmulrahman/young-star-app/internal/store"
	"github.com/nazmulrahman/young-star-app/pkg/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	logger := logging.New(zapLogger)

	cfg, err := config.New()
	if err != nil {
		logger.Fatal(ctx, "cannot create config", zap.Error(err))
	}

	var st store.DocumentStore
	switch cfg.StoreDriver {
	case "mongo":
		mongoStore, err := store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, model.ValidateFields, logger)
		if err != nil {
			logger.Fatal(ctx, "cannot connect to mongo", zap.Error(err))
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mongoStore.Close(closeCtx); err != nil {
				logger.Error(ctx, "mongo disconnect failed", zap.Error(err))
			}
		}()
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			logger.Fatal(ctx, "cannot ensure indexes", zap.Error(err))
		}
		st = mongoStore
	case "memory":
		st = store.NewMemoryStore(model.ValidateFields)
	}

	var cache identity.Cache = identity.NopCache{}
	if cfg.RedisURL != "" {
		redisConn := redis.NewClient(&redis.Options{
			Addr: cfg.RedisURL,
		})
		defer redisConn.Close()
		cache = identity.NewRedisCache(redisConn)
	}

	var sink notify.Sink = notify.NewLogSink(logger)
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink := notify.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer kafkaSink.Close()
		sink = kafkaSink
	}

	resolver := identity.NewResolver(st, cache, cfg.ProfileCacheTTL, model.Role(cfg.ProfileFallbackRole), logger)
	coordinator := service.NewCoordinator(st, sink, resolver, logger)

	sessions := session.NewRegistry(st, sink, logger, cfg.EngineIdleTTL)
	defer sessions.Shutdown()
	go sessions.Run(ctx)

	portal := handler.NewPortal(coordinator, sessions, resolver, cfg.SessionSecret, cfg.SessionIssuer, cfg.SessionTTL, cfg.ProviderSecret, logger)

	r := chi.NewRouter()
	r.Use(handler.NewLoggingMiddleware(logger))
	r.Use(func(next http.Handler) http.Handler {
		return http.MaxBytesHandler(next, 10<<20) // 10 MB
	})
	portal.RegisterRoutes(r)

	port := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info(ctx, "Starting server", zap.String("port", port))

	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "cannot start http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info(ctx, "Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal(ctx, "server forced to shutdown", zap.Error(err))
	}
	logger.Info(ctx, "Server stopped")
}
