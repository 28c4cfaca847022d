package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/securematch/securematch/application/port/inbound"
	"github.com/securematch/securematch/infrastructure/http/response"
	"github.com/securematch/securematch/infrastructure/service/logger"
)

type MetricsHandler struct {
	metricsUseCase inbound.MetricsUseCase
	logger         logger.Logger
}

func NewMetricsHandler(metricsUseCase inbound.MetricsUseCase, log logger.Logger) *MetricsHandler {
	return &MetricsHandler{
		metricsUseCase: metricsUseCase,
		logger:         log,
	}
}

func (h *MetricsHandler) RegisterInternalRoutes(router *mux.Router) {
	router.HandleFunc("/api/metrics/internal/", h.InternalMetrics).Methods(http.MethodGet)
}

func (h *MetricsHandler) RegisterExternalRoutes(router *mux.Router) {
	router.HandleFunc("/api/metrics/external/", h.ExternalMetrics).Methods(http.MethodGet)
}

func (h *MetricsHandler) InternalMetrics(w http.ResponseWriter, r *http.Request) {
	resp, err := h.metricsUseCase.InternalMetrics(r.Context())
	if err != nil {
		writeError(r.Context(), w, h.logger, err, 0)
		return
	}
	response.Success(w, http.StatusOK, "Metrics retrieved successfully", resp)
}

func (h *MetricsHandler) ExternalMetrics(w http.ResponseWriter, r *http.Request) {
	resp, err := h.metricsUseCase.ExternalMetrics(r.Context())
	if err != nil {
		writeError(r.Context(), w, h.logger, err, 0)
		return
	}
	response.Success(w, http.StatusOK, "Metrics retrieved successfully", resp)
}
