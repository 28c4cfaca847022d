package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/securematch/securematch/application/port/inbound"
	domainerr "github.com/securematch/securematch/domain/error"
	"github.com/securematch/securematch/infrastructure/http/response"
	"github.com/securematch/securematch/infrastructure/http/validator"
	"github.com/securematch/securematch/infrastructure/service/logger"
)

type AuditorHandler struct {
	auditorUseCase inbound.AuditorManagementUseCase
	logger         logger.Logger
	createLimiter  mux.MiddlewareFunc
}

func NewAuditorHandler(auditorUseCase inbound.AuditorManagementUseCase, log logger.Logger) *AuditorHandler {
	return &AuditorHandler{
		auditorUseCase: auditorUseCase,
		logger:         log,
	}
}

// WithCreateLimiter wraps auditor creation, which pays for RSA key generation.
func (h *AuditorHandler) WithCreateLimiter(limiter mux.MiddlewareFunc) *AuditorHandler {
	h.createLimiter = limiter
	return h
}

// RegisterRoutes mounts the operator routes. The caller applies auth.
func (h *AuditorHandler) RegisterRoutes(router *mux.Router) {
	var create http.Handler = http.HandlerFunc(h.CreateAuditor)
	if h.createLimiter != nil {
		create = h.createLimiter(create)
	}
	router.Handle("/api/auditor/create/", create).Methods(http.MethodPost)
	router.HandleFunc("/api/auditor/rotate-key/", h.RotateKey).Methods(http.MethodPost)
	router.HandleFunc("/api/auditor/{auditor_id}/delete/", h.DeleteAuditor).Methods(http.MethodDelete)
	router.HandleFunc("/api/auditor/{auditor_id}/logs/", h.GetAuditorLogs).Methods(http.MethodGet)
	router.HandleFunc("/api/auditor/{auditor_id}/", h.GetAuditor).Methods(http.MethodGet)
	router.HandleFunc("/api/auditors/", h.ListAuditors).Methods(http.MethodGet)
}

// CreateAuditor returns the private key. This is the only response besides
// RotateKey that ever contains one.
func (h *AuditorHandler) CreateAuditor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req inbound.CreateAuditorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(ctx, w, h.logger, err, 0)
		return
	}

	resp, err := h.auditorUseCase.CreateAuditor(ctx, req)
	if err != nil {
		writeError(ctx, w, h.logger, err, 0)
		return
	}

	response.Success(w, http.StatusCreated, "Auditor created successfully. Store the private key now; it will not be shown again.", resp)
}

func (h *AuditorHandler) RotateKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req inbound.RotateKeyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(ctx, w, h.logger, err, 0)
		return
	}

	resp, err := h.auditorUseCase.RotateKey(ctx, req)
	if err != nil {
		writeError(ctx, w, h.logger, err, req.AuditorID)
		return
	}

	response.Success(w, http.StatusOK, "Key rotated successfully. Store the private key now; it will not be shown again.", resp)
}

func (h *AuditorHandler) DeleteAuditor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	auditorID, ok := h.auditorID(w, r)
	if !ok {
		return
	}

	if err := h.auditorUseCase.DeleteAuditor(ctx, auditorID); err != nil {
		writeError(ctx, w, h.logger, err, auditorID)
		return
	}

	response.NoContent(w)
}

func (h *AuditorHandler) GetAuditor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	auditorID, ok := h.auditorID(w, r)
	if !ok {
		return
	}

	resp, err := h.auditorUseCase.GetAuditor(ctx, auditorID)
	if err != nil {
		writeError(ctx, w, h.logger, err, auditorID)
		return
	}

	response.Success(w, http.StatusOK, "Auditor retrieved successfully", resp)
}

func (h *AuditorHandler) ListAuditors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	auditors, err := h.auditorUseCase.ListAuditors(ctx)
	if err != nil {
		writeError(ctx, w, h.logger, err, 0)
		return
	}

	response.Success(w, http.StatusOK, "Auditors retrieved successfully", map[string]interface{}{
		"auditors": auditors,
		"count":    len(auditors),
	})
}

func (h *AuditorHandler) GetAuditorLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	auditorID, ok := h.auditorID(w, r)
	if !ok {
		return
	}

	limit, valid := validator.ValidateLimit(r.URL.Query().Get("limit"))
	if !valid {
		response.AppError(w, domainerr.ErrInvalidRequest("limit must be a positive integer"), logger.CorrelationIDFromContext(ctx))
		return
	}

	resp, err := h.auditorUseCase.GetAuditorLogs(ctx, inbound.AuditorLogsRequest{
		AuditorID: auditorID,
		Limit:     limit,
	})
	if err != nil {
		writeError(ctx, w, h.logger, err, auditorID)
		return
	}

	response.Success(w, http.StatusOK, "Audit records retrieved successfully", resp)
}

func (h *AuditorHandler) auditorID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["auditor_id"]
	id, err := validator.ParseAuditorID(raw)
	if err != nil {
		response.AppError(w, domainerr.ErrInvalidAuditorID(raw), logger.CorrelationIDFromContext(r.Context()))
		return 0, false
	}
	return id, true
}
