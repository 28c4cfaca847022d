package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/sirupsen/logrus"

	"github.com/securematch/securematch/application/port/inbound"
	"github.com/securematch/securematch/application/port/outbound"
	"github.com/securematch/securematch/application/usecase/auditor_management"
	"github.com/securematch/securematch/application/usecase/metrics"
	"github.com/securematch/securematch/application/usecase/verification"
	"github.com/securematch/securematch/infrastructure/adapter/memory"
	"github.com/securematch/securematch/infrastructure/adapter/postgres"
	"github.com/securematch/securematch/infrastructure/config"
	"github.com/securematch/securematch/infrastructure/http/handler"
	"github.com/securematch/securematch/infrastructure/http/middleware"
	"github.com/securematch/securematch/infrastructure/service/jwt"
	"github.com/securematch/securematch/infrastructure/service/keypair"
	"github.com/securematch/securematch/infrastructure/service/logger"
	"github.com/securematch/securematch/infrastructure/service/ratelimit"
)

const serviceName = "securematch"

type storage struct {
	auditors   outbound.AuditorRepository
	auditLog   outbound.AuditLogRepository
	search     outbound.SearchEngine
	indexStats outbound.IndexStatsProvider
	close      func() error
}

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logger
	structuredLogger := logger.NewStructuredLogger(logger.LoggerConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: serviceName,
	})
	structuredLogger.Info(ctx, "Application starting", map[string]interface{}{
		"env":            cfg.Environment,
		"storage_driver": cfg.StorageDriver,
	})

	store, err := openStorage(ctx, cfg, structuredLogger)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to initialize storage", err, map[string]interface{}{
			"storage_driver": cfg.StorageDriver,
		})
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.close()

	// Key pair generation and signature verification
	keyService, err := keypair.NewRSAService(cfg.RSAKeyBits)
	if err != nil {
		log.Fatalf("Failed to initialize key service: %v", err)
	}

	// Operator tokens. A nil token service leaves the operator routes open,
	// which config only allows outside production.
	var tokenService outbound.TokenService
	if cfg.OperatorAuthEnabled {
		tokenService, err = jwt.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL, serviceName)
		if err != nil {
			log.Fatalf("Failed to initialize JWT service: %v", err)
		}
	} else {
		structuredLogger.Warn(ctx, "Operator authentication disabled", map[string]interface{}{
			"env": cfg.Environment,
		})
	}

	rateLimitService := newRateLimitService(ctx, cfg, structuredLogger)
	clientIP, err := middleware.NewClientIPResolver(cfg.TrustedProxies)
	if err != nil {
		log.Fatalf("Failed to parse TRUSTED_PROXIES: %v", err)
	}

	// Initialize use cases
	auditorUseCase := auditor_management.NewAuditorManagementUseCase(
		store.auditors,
		store.auditLog,
		keyService,
		structuredLogger,
		auditor_management.Options{
			MaxRotationRetries: cfg.KeyRotationMaxRetries,
			LogPageSize:        cfg.AuditLogPageSize,
		},
	)
	verifier := verification.NewVerifier(store.auditors, store.auditLog, keyService, structuredLogger)
	searchUseCase := verification.NewExternalSearchUseCase(verifier, store.search, structuredLogger)
	metricsUseCase := metrics.NewMetricsUseCase(
		metrics.NewAggregator(store.auditors, store.auditLog, store.indexStats, cfg.MetricsWindow),
	)

	router := handler.NewRouter(handler.RouterConfig{
		AuditorUseCase: auditorUseCase,
		SearchUseCase:  searchUseCase,
		MetricsUseCase: metricsUseCase,
		Auth:           middleware.NewAuthMiddleware(tokenService, structuredLogger),
		RateLimit:      middleware.NewRateLimitMiddleware(rateLimitService, clientIP, structuredLogger),
		SearchLimit: middleware.RateLimitRule{
			Name:          "search",
			Limit:         cfg.RateLimitSearchAttempts,
			Window:        cfg.RateLimitSearchWindow,
			BlockDuration: cfg.RateLimitBlockDuration,
		},
		MetricsLimit: middleware.RateLimitRule{
			Name:   "metrics",
			Limit:  cfg.RateLimitMetricsAttempts,
			Window: cfg.RateLimitSearchWindow,
		},
		CreateLimit: middleware.RateLimitRule{
			Name:          "create_auditor",
			Limit:         cfg.RateLimitCreateAttempts,
			Window:        cfg.RateLimitCreateWindow,
			BlockDuration: cfg.RateLimitBlockDuration,
		},
		Logger:              structuredLogger,
		EnableRequestLog:    cfg.LogEnableRequestLog,
		CorrelationIDHeader: cfg.LogCorrelationIDHeader,
		CORSEnabled:         cfg.CORSEnabled && len(cfg.CORSAllowedOrigins) > 0,
		CORSOrigins:         cfg.CORSAllowedOrigins,
		CORSCredentials:     cfg.CORSAllowCredentials,
	})

	server := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		structuredLogger.Info(ctx, "Starting server", map[string]interface{}{
			"address": cfg.Address(),
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			structuredLogger.Error(ctx, "Server failed to start", err, map[string]interface{}{
				"address": cfg.Address(),
			})
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	structuredLogger.Info(ctx, "Shutting down server...", map[string]interface{}{})

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		structuredLogger.Error(ctx, "Server forced to shutdown", err, map[string]interface{}{})
	}
	structuredLogger.Info(ctx, "Server exited", map[string]interface{}{})
}

func openStorage(ctx context.Context, cfg *config.Config, log logger.Logger) (*storage, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		log.Warn(ctx, "Using in-memory storage; all data is lost on restart", map[string]interface{}{})
		index := memory.NewSearchIndex()
		return &storage{
			auditors:   memory.NewAuditorRepository(),
			auditLog:   memory.NewAuditLogRepository(),
			search:     index,
			indexStats: index,
			close:      func() error { return nil },
		}, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Test database connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info(ctx, "Database connection established", map[string]interface{}{})

	index := postgres.NewSearchIndexAdapter(db)
	return &storage{
		auditors:   postgres.NewAuditorRepositoryAdapter(db),
		auditLog:   postgres.NewAuditLogRepositoryAdapter(db),
		search:     index,
		indexStats: index,
		close:      db.Close,
	}, nil
}

// newRateLimitService prefers Redis. In memory mode, or when Redis cannot be
// reached, it falls back to a per-process limiter so the routes stay guarded.
func newRateLimitService(ctx context.Context, cfg *config.Config, log logger.Logger) inbound.RateLimitService {
	if !cfg.RateLimitEnabled {
		return ratelimit.NewNoopRateLimitService()
	}
	if cfg.StorageDriver == config.StorageDriverMemory && cfg.RedisURL == "" {
		return ratelimit.NewMemoryRateLimitService()
	}

	rlLogger := logrus.New()
	rlLogger.SetFormatter(&logrus.JSONFormatter{})
	rs, err := ratelimit.NewRateLimitService(ratelimit.RateLimitConfig{
		Enabled:        cfg.RateLimitEnabled,
		RedisURL:       cfg.RedisURL,
		SearchAttempts: cfg.RateLimitSearchAttempts,
		SearchWindow:   cfg.RateLimitSearchWindow,
		CreateAttempts: cfg.RateLimitCreateAttempts,
		CreateWindow:   cfg.RateLimitCreateWindow,
		BlockDuration:  cfg.RateLimitBlockDuration,
	}, rlLogger)
	if err != nil {
		log.Error(ctx, "Failed to initialize Redis rate limiter, using in-process limiter", err, map[string]interface{}{})
		return ratelimit.NewMemoryRateLimitService()
	}
	log.Info(ctx, "Rate limiting service initialized", map[string]interface{}{
		"enabled": cfg.RateLimitEnabled,
	})
	return rs
}
