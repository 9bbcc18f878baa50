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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/audit"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/azure"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/config"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/handler"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/history"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/llm"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/middleware"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/pdf"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/repository"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/security"
	"github.com/vcscsvcscs/doctorai/apps/backend/internal/service"
	"github.com/vcscsvcscs/doctorai/apps/backend/pkg/api"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultSlowRequestThreshold = 30 * time.Second

var (
	logger *zap.Logger
	pool   *pgxpool.Pool
	cfg    *config.Config
)

func main() {
	// Load configuration
	var err error
	cfg, err = config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize Zap logger
	logger, err = newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded successfully",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.Strings("models", cfg.AI.Models),
		zap.String("history_backend", cfg.History.Backend),
	)

	ctx := context.Background()

	// Database is only needed for the postgres history backend
	if cfg.History.Backend == config.BackendPostgres {
		pool, err = newPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer pool.Close()
		logger.Info("Successfully connected to database")
	}

	generator, err := newGenerator(ctx, cfg.AI, logger)
	if err != nil {
		logger.Fatal("Failed to initialize text generation client", zap.Error(err))
	}
	if generator == nil {
		logger.Warn("No text generation API key configured; advice requests will fail until one is set")
	}

	slot, err := newHistorySlot(ctx, cfg, pool, logger)
	if err != nil {
		logger.Fatal("Failed to initialize history storage", zap.Error(err))
	}

	// Initialize history store and audit log
	store := history.NewStore(slot, cfg.History.Capacity, logger)
	auditLogger := audit.NewLogger(pool, logger)

	// Initialize services
	sequencer := llm.NewSequencer(cfg.AI.Models, cfg.AI.AttemptTimeout, cfg.AI.Budget, logger)
	adviceService := service.NewAdviceService(generator, sequencer, service.ExhaustionPolicy(cfg.AI.OnExhaustion), logger)
	historyService := service.NewHistoryService(store, auditLogger, logger)
	dashboardService := service.NewDashboardService(store, logger)
	reportService := service.NewReportService(store, pdf.NewPDFGenerator(logger), auditLogger, logger)

	// pool is typed; only hand it over when it exists
	var db handler.Pinger
	if pool != nil {
		db = pool
	}

	// Create a unified handler that implements the ServerInterface
	apiHandler := &handler.API{
		AdviceHandler:    handler.NewAdviceHandler(adviceService, logger),
		HistoryHandler:   handler.NewHistoryHandler(historyService, logger),
		DashboardHandler: handler.NewDashboardHandler(dashboardService, logger),
		ReportHandler:    handler.NewReportHandler(reportService, logger),
		HealthHandler:    handler.NewHealthHandler(adviceService, db, cfg.AI.Provider, cfg.History.Backend, logger),
	}

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	r := gin.New()

	// Add recovery middleware (must be first)
	r.Use(middleware.RecoveryMiddleware(logger))

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", api.HeaderAdviceModel, api.HeaderAdviceFallback},
		AllowCredentials: !lo.Contains(cfg.Server.AllowOrigins, "*"),
		MaxAge:           12 * time.Hour,
	}))

	// Add request ID middleware
	r.Use(middleware.RequestIDMiddleware())

	// Add request logging middleware
	r.Use(middleware.RequestLoggingMiddleware(logger))

	// Add error logging middleware
	r.Use(middleware.ErrorLoggingMiddleware(logger))

	// Warn about requests that walk the whole model list
	slowThreshold := cfg.AI.AttemptTimeout
	if slowThreshold <= 0 {
		slowThreshold = defaultSlowRequestThreshold
	}
	r.Use(middleware.SlowRequestLoggingMiddleware(logger, slowThreshold))

	// Validate requests against the OpenAPI document
	swagger, err := api.GetSwagger()
	if err != nil {
		logger.Fatal("Failed to load OpenAPI document", zap.Error(err))
	}
	validator, err := middleware.OpenAPIValidationMiddleware(swagger, logger)
	if err != nil {
		logger.Fatal("Failed to initialize request validation", zap.Error(err))
	}
	r.Use(validator)

	// Register API handlers
	api.RegisterHandlers(r, apiHandler)

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	}

	if cfg.Logging.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}
	if cfg.Logging.Format != "" {
		zapCfg.Encoding = cfg.Logging.Format
	}

	return zapCfg.Build()
}

func newPool(ctx context.Context, dbCfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dbCfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if dbCfg.MaxConns > 0 {
		poolCfg.MaxConns = dbCfg.MaxConns
	}
	if dbCfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = dbCfg.ConnMaxLifetime
	}

	p, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	// Test database connection
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return p, nil
}

// newGenerator returns nil without error when no API key is configured; the
// advice endpoint reports that per request
func newGenerator(ctx context.Context, aiCfg config.AIConfig, logger *zap.Logger) (llm.Generator, error) {
	if aiCfg.APIKey == "" {
		return nil, nil
	}

	if aiCfg.Provider == config.ProviderOpenAI {
		client, err := llm.NewOpenAIClient(aiCfg.APIKey, aiCfg.Endpoint, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	client, err := llm.NewGeminiClient(ctx, aiCfg.APIKey, aiCfg.BaseURL, logger)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func newHistorySlot(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger *zap.Logger) (history.Slot, error) {
	var slot history.Slot

	switch cfg.History.Backend {
	case config.BackendPostgres:
		slot = repository.NewHistoryRepository(pool, logger)

	case config.BackendBlob:
		blobClient, err := azure.NewBlobStorageClient(
			cfg.Azure.Storage.AccountName,
			cfg.Azure.Storage.AccountKey,
			cfg.Azure.Storage.HistoryContainer,
			logger,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Azure Blob Storage client: %w", err)
		}
		if err := blobClient.EnsureContainer(ctx); err != nil {
			return nil, err
		}
		slot = azure.NewBlobSlot(blobClient)

	default:
		slot = history.NewMemorySlot()
	}

	if cfg.History.EncryptionKey == "" {
		return slot, nil
	}

	key, err := security.ParseKey(cfg.History.EncryptionKey)
	if err != nil {
		return nil, err
	}
	encryptor, err := security.NewEncryptor(key)
	if err != nil {
		return nil, err
	}
	logger.Info("History encryption at rest enabled")
	return history.NewEncryptedSlot(slot, encryptor), nil
}
