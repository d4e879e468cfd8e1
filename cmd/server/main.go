package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/remaimber-it/examprep/internal/adaptive"
	"github.com/remaimber-it/examprep/internal/advisor"
	"github.com/remaimber-it/examprep/internal/api"
	"github.com/remaimber-it/examprep/internal/cache"
	"github.com/remaimber-it/examprep/internal/event"
	"github.com/remaimber-it/examprep/internal/infrastructure/config"
	"github.com/remaimber-it/examprep/internal/infrastructure/discovery"
	"github.com/remaimber-it/examprep/internal/infrastructure/tracing"
	"github.com/remaimber-it/examprep/internal/metrics"
	"github.com/remaimber-it/examprep/internal/service"
	"github.com/remaimber-it/examprep/internal/store"

	_ "github.com/remaimber-it/examprep/docs" // generated swagger docs
)

// reconcileBatch caps how many pending profile writes one reconciliation
// pass retries.
const reconcileBatch = 100

// @title           ExamPrep API
// @version         1.0
// @description     Adaptive exam practice: computerized adaptive tests with IRT ability estimation, learner profiles and study recommendations.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		ServiceName: cfg.ServiceName,
		Version:     "1.0",
		Exporter:    cfg.TraceExporter,
		SampleRatio: cfg.TraceSampleRatio,
	}, logger)
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	engineCfg, err := adaptive.LoadConfig(cfg.EngineConfigPath)
	if err != nil {
		logger.Error("failed to load engine config", "error", err, "path", cfg.EngineConfigPath)
		os.Exit(1)
	}
	machine := adaptive.NewMachine(engineCfg)

	var questions store.QuestionStore = db
	if cfg.RedisAddr != "" {
		backend, err := cache.NewRedisBackend(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err, "addr", cfg.RedisAddr)
			os.Exit(1)
		}
		defer backend.Close()
		questions = cache.NewPoolCache(db, backend, cfg.PoolCacheTTL, logger)
		logger.Info("question pool cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.PoolCacheTTL)
	}

	m := metrics.New()

	var publisher event.Publisher = event.NopPublisher{}
	if cfg.RabbitMQURI != "" {
		amqpPub, err := event.NewAMQPPublisher(cfg.RabbitMQURI, cfg.RabbitMQExchange, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		publisher = amqpPub
		logger.Info("event publishing enabled", "exchange", cfg.RabbitMQExchange)
	}
	publisher = m.Publisher(publisher)
	defer publisher.Close()

	var oracle advisor.Advisor
	if cfg.LLMEnabled {
		oracle = advisor.NewLLMAdvisor(cfg.LLMURL, cfg.LLMModel)
		logger.Info("llm recommendations enabled", "url", cfg.LLMURL, "model", cfg.LLMModel)
	}
	recommendations := service.NewRecommendationService(db, oracle, cfg.RecommendationWorkers, cfg.LLMTimeout, logger)

	exams, err := service.NewExamService(questions, db, db, machine, logger,
		service.WithRecommender(recommendations),
		service.WithPublisher(publisher),
		service.WithProfileRetry(service.RetryPolicy{
			Attempts: cfg.ProfileRetryAttempts,
			Backoff:  cfg.ProfileRetryBackoff,
		}),
	)
	if err != nil {
		logger.Error("failed to create exam service", "error", err)
		os.Exit(1)
	}

	handler := api.NewHandler(db, questions, exams, recommendations, logger)
	auth := api.NewAuth(cfg.JWTSecret)

	// ── Background reconciliation of failed profile writes ──────────
	reconcileDone := make(chan struct{})
	go func() {
		defer close(reconcileDone)
		if cfg.ReconcileInterval <= 0 {
			return
		}
		ticker := time.NewTicker(cfg.ReconcileInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := exams.ReconcileProfiles(ctx, reconcileBatch); err != nil && ctx.Err() == nil {
					logger.Error("profile reconciliation pass failed", "error", err)
				}
			}
		}
	}()

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler, auth)

	mux.Handle("GET /metrics", m.Handler())

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: Logging → Metrics → CORS → mux ────────────
	logged := api.Logging(logger)(m.Middleware(api.CORS(mux)))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	if cfg.ConsulAddr != "" {
		registry, err := discovery.NewServiceRegistry(cfg.ConsulAddr, discovery.Registration{
			Name:          cfg.ServiceName,
			Address:       cfg.ServiceAddress,
			ListenAddress: cfg.ServerAddress,
			Tags:          []string{"exam", "adaptive", "http", "api"},
		}, logger)
		if err == nil {
			err = registry.Register()
		}
		if err != nil {
			logger.Error("service discovery registration failed", "error", err)
		} else {
			defer registry.Deregister()
		}
	}

	logger.Info("starting server", "address", cfg.ServerAddress)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}

	<-shutdownDone
	<-reconcileDone
	// Drain queued recommendation jobs before the store closes.
	recommendations.Close()

	flushCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		logger.Error("failed to flush traces", "error", err)
	}
	logger.Info("server stopped")
}
