package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/auth"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/config"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/gateway"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/history"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/llm"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/logging"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/metrics"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/orchestration"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/packager"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	_ "github.com/bizmatters/agent-builder/sdv-studio/docs" // swagger docs
)

// @title SDV Studio API
// @version 1.0
// @description Generates automotive service artifacts from a natural-language service description.
// @description
// @description A session walks a description through requirements, Franca IDL and ARXML interfaces,
// @description C++/Kotlin/Rust/Python code, tests, a mock service and a compliance report, then packages
// @description everything into a buildable project archive.

// @contact.name API Support
// @contact.email support@bizmatters.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	cfg, err := config.Load(os.Getenv("STUDIO_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	tp, err := initTracer()
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}

	// Run history goes to PostgreSQL when configured, memory otherwise
	var (
		pool     *pgxpool.Pool
		recorder history.Recorder
		ready    func(ctx context.Context) error
	)
	if cfg.Database.URL != "" {
		pool, err = connectDatabase(cfg.Database, logger)
		if err != nil {
			logger.Fatal("Failed to connect to database after retries", zap.Error(err))
		}
		defer pool.Close()

		pg := history.NewPostgresRecorder(pool)
		if err := pg.EnsureSchema(context.Background()); err != nil {
			logger.Fatal("Failed to prepare history schema", zap.Error(err))
		}
		recorder = pg
		ready = pool.Ping
	} else {
		logger.Info("DATABASE_URL not set, keeping run history in memory")
		recorder = history.NewMemoryRecorder(0)
	}

	pipelineMetrics, err := metrics.NewPipelineMetrics()
	if err != nil {
		logger.Fatal("Failed to register metrics", zap.Error(err))
	}

	// Initialize orchestration layer
	adapter := llm.NewAdapter(cfg, logger)
	invoker := orchestration.NewInvoker(adapter, cfg.FallbackEngines(), orchestration.NewDemoGuard(), logger)
	service := orchestration.NewService(cfg, invoker, recorder, pipelineMetrics, logger)

	var publisher packager.Publisher
	if cfg.Storage.Enabled() {
		mp, err := packager.NewMinioPublisher(cfg.Storage)
		if err != nil {
			logger.Fatal("Failed to initialize archive storage", zap.Error(err))
		}
		publisher = mp
		logger.Info("Archive publishing enabled",
			zap.String("endpoint", cfg.Storage.Endpoint),
			zap.String("bucket", cfg.Storage.Bucket))
	}

	secret := cfg.Auth.Secret
	if secret == "" {
		secret, err = randomSecret()
		if err != nil {
			logger.Fatal("Failed to generate token secret", zap.Error(err))
		}
		logger.Warn("JWT_SECRET not set, using a per-process secret; tokens will not survive a restart")
	}
	tokens, err := auth.NewTokenManager(secret)
	if err != nil {
		logger.Fatal("Failed to initialize token manager", zap.Error(err))
	}

	sessions := session.NewManager(cfg.Session.TTL, logger)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sessions.Run(sweepCtx, cfg.Session.SweepInterval)

	// Initialize gateway layer
	gin.SetMode(gin.ReleaseMode)
	handler := gateway.NewHandler(gateway.Dependencies{
		Config:    cfg,
		Sessions:  sessions,
		Service:   service,
		Backend:   adapter,
		Tokens:    tokens,
		History:   recorder,
		Publisher: publisher,
		Metrics:   pipelineMetrics,
		Ready:     ready,
		Logger:    logger,
	})
	router := gateway.NewRouter(handler, tokens, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Starting SDV Studio API server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	stopSweep()
	if err := tp.Shutdown(ctx); err != nil {
		logger.Warn("Failed to flush traces", zap.Error(err))
	}

	logger.Info("Server exited")
}

// connectDatabase opens the pool, retrying while the database starts up.
func connectDatabase(cfg config.DatabaseConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	attempts := cfg.ConnectRetry
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		pool, err := pgxpool.New(context.Background(), cfg.URL)
		if err == nil {
			if err = pool.Ping(context.Background()); err == nil {
				logger.Info("Connected to PostgreSQL database")
				return pool, nil
			}
			pool.Close()
		}
		lastErr = err
		logger.Warn("Waiting for database...",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", attempts),
			zap.Error(err))
		time.Sleep(3 * time.Second)
	}
	return nil, lastErr
}

// initTracer initializes OpenTelemetry tracing
func initTracer() (*trace.TracerProvider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(tp)

	return tp, nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
