package main

import (
	"context"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sofiane-rh/salon-erp/internal/auth"
	"github.com/sofiane-rh/salon-erp/internal/config"
	"github.com/sofiane-rh/salon-erp/internal/db"
	"github.com/sofiane-rh/salon-erp/internal/events"
	"github.com/sofiane-rh/salon-erp/internal/handlers"
	"github.com/sofiane-rh/salon-erp/internal/httpx"
	"github.com/sofiane-rh/salon-erp/internal/otelx"
	"github.com/sofiane-rh/salon-erp/internal/runtime"
	"github.com/sofiane-rh/salon-erp/internal/storage"
	"github.com/sofiane-rh/salon-erp/internal/storage/memory"
	"github.com/sofiane-rh/salon-erp/internal/storage/postgres"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	_ = godotenv.Load()

	service := config.String("SERVICE_NAME", "salon-api")
	port, err := config.Port("PORT", "8080")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	var (
		store       storage.Store
		readyChecks []runtime.ReadyCheck
	)
	kafkaBrokers := config.String("KAFKA_BROKERS", "")

	switch driver := config.String("STORAGE_DRIVER", "postgres"); driver {
	case "memory":
		logger.Warn("using in-memory storage; data is lost on restart")
		store = memory.New()
	default:
		dbURL, err := config.RequiredString("DATABASE_URL")
		if err != nil {
			panic(err)
		}
		pool, err := db.Open(ctx, dbURL)
		if err != nil {
			logger.Error("db connection failed", "err", err)
			panic(err)
		}
		defer pool.Close()

		if err := postgres.Migrate(ctx, pool); err != nil {
			logger.Error("schema migration failed", "err", err)
			panic(err)
		}

		outboxRepo := events.NewRepository(pool)
		store = postgres.New(pool, outboxRepo)
		readyChecks = append(readyChecks,
			runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
			runtime.ReadyCheck{Name: "kafka", Check: events.ReadyCheck(kafkaBrokers)},
		)

		publisher := events.NewPublisher(pool, outboxRepo, logger, events.PublisherConfig{
			Brokers:   kafkaBrokers,
			PollEvery: 2 * time.Second,
			BatchSize: 50,
		})
		go publisher.Run(ctx)
	}

	issuer := auth.NewIssuer(config.String("JWT_SECRET", "dev-secret"))
	opts := handlers.Options{
		RejectOverlaps:    config.Bool("SCHEDULING_REJECT_OVERLAPS", false),
		StrictTransitions: config.Bool("SCHEDULING_STRICT_TRANSITIONS", false),
		AuthRequired:      config.Bool("AUTH_REQUIRED", false),
	}
	server := handlers.NewServer(store, logger, issuer, opts)

	mux := runtime.NewBaseMuxWithReady(readyChecks...)
	server.Routes(mux)

	middlewares := []httpx.Middleware{
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: []string{config.String("CORS_ALLOWED_ORIGINS", "*")},
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			MaxAge:         10 * time.Minute,
		}),
		httpx.WithBodyLimit(1 << 20),
	}
	if redisAddr := config.String("REDIS_ADDR", ""); redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		limiter := httpx.NewRedisRateLimiter(rdb, config.Int("RATE_LIMIT", 120), time.Minute, service)
		middlewares = append(middlewares, limiter.Middleware(logger, true))
	} else {
		limiter := httpx.NewRateLimiter(config.Int("RATE_LIMIT", 120), time.Minute)
		middlewares = append(middlewares, limiter.Middleware())
	}

	httpHandler := httpx.Chain(mux, middlewares...)
	httpHandler = otelhttp.NewHandler(httpHandler, service)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
