package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/securematch/securematch/application/port/inbound"
	"github.com/securematch/securematch/infrastructure/http/middleware"
	"github.com/securematch/securematch/infrastructure/http/response"
	"github.com/securematch/securematch/infrastructure/service/logger"
)

type RouterConfig struct {
	AuditorUseCase inbound.AuditorManagementUseCase
	SearchUseCase  inbound.ExternalSearchUseCase
	MetricsUseCase inbound.MetricsUseCase

	Auth      *middleware.AuthMiddleware
	RateLimit *middleware.RateLimitMiddleware
	// SearchLimit guards external search, MetricsLimit the public metrics and
	// CreateLimit auditor creation. Each rule keeps its own counters.
	SearchLimit  middleware.RateLimitRule
	MetricsLimit middleware.RateLimitRule
	CreateLimit  middleware.RateLimitRule

	Logger              logger.Logger
	EnableRequestLog    bool
	CorrelationIDHeader string
	CORSEnabled         bool
	CORSOrigins         []string
	CORSCredentials     bool
}

// NewRouter builds the HTTP surface. CORS wraps the router from outside so
// preflight requests are answered even though no route accepts OPTIONS.
func NewRouter(cfg RouterConfig) http.Handler {
	router := mux.NewRouter()
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w)
	})

	router.Use(middleware.RecoveryMiddleware(cfg.Logger))
	router.Use(middleware.CorrelationID(cfg.CorrelationIDHeader))
	if cfg.EnableRequestLog {
		router.Use(middleware.RequestLogMiddleware(cfg.Logger))
	}

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, "OK", map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	auditorHandler := NewAuditorHandler(cfg.AuditorUseCase, cfg.Logger).
		WithCreateLimiter(cfg.RateLimit.Limit(cfg.CreateLimit))
	searchHandler := NewSearchHandler(cfg.SearchUseCase, cfg.Logger)
	metricsHandler := NewMetricsHandler(cfg.MetricsUseCase, cfg.Logger)

	// subrouters carry no path prefix; they only scope middleware
	operator := router.NewRoute().Subrouter()
	operator.Use(cfg.Auth.RequireInternal)
	auditorHandler.RegisterRoutes(operator)
	metricsHandler.RegisterInternalRoutes(operator)

	external := router.NewRoute().Subrouter()
	external.Use(cfg.RateLimit.Limit(cfg.SearchLimit))
	searchHandler.RegisterRoutes(external)

	public := router.NewRoute().Subrouter()
	public.Use(cfg.RateLimit.Limit(cfg.MetricsLimit))
	metricsHandler.RegisterExternalRoutes(public)

	if cfg.CORSEnabled {
		return middleware.CORSMiddleware(cfg.CORSOrigins, cfg.CORSCredentials)(router)
	}
	return router
}
