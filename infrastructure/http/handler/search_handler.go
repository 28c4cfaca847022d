package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/securematch/securematch/application/port/inbound"
	"github.com/securematch/securematch/infrastructure/http/response"
	"github.com/securematch/securematch/infrastructure/service/logger"
)

type SearchHandler struct {
	searchUseCase inbound.ExternalSearchUseCase
	logger        logger.Logger
}

func NewSearchHandler(searchUseCase inbound.ExternalSearchUseCase, log logger.Logger) *SearchHandler {
	return &SearchHandler{
		searchUseCase: searchUseCase,
		logger:        log,
	}
}

func (h *SearchHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/search/external/", h.ExternalSearch).Methods(http.MethodPost)
}

// ExternalSearch runs a signed search. Every verification failure produces
// the same response body.
func (h *SearchHandler) ExternalSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req inbound.ExternalSearchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(ctx, w, h.logger, err, 0)
		return
	}

	resp, err := h.searchUseCase.Search(ctx, req)
	if err != nil {
		// auditor id is left out so a rejection body never echoes it
		writeError(ctx, w, h.logger, err, 0)
		return
	}

	response.Success(w, http.StatusOK, "Search completed", resp)
}
