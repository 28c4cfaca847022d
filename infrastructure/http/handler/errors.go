package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/securematch/securematch/application/port/outbound"
	"github.com/securematch/securematch/application/usecase/auditor_management"
	"github.com/securematch/securematch/application/usecase/verification"
	domainerr "github.com/securematch/securematch/domain/error"
	"github.com/securematch/securematch/infrastructure/http/response"
	"github.com/securematch/securematch/infrastructure/service/logger"
)

const maxBodyBytes = 1 << 20

// toAppError maps use case errors onto the catalog. auditorID is only used
// for not-found details and may be zero.
func toAppError(err error, auditorID int64) *domainerr.AppError {
	var appErr *domainerr.AppError
	var persistErr *outbound.PersistenceError

	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, verification.ErrSearchNotAuthorized):
		return domainerr.ErrSearchNotAuthorized()
	case errors.Is(err, verification.ErrSearchUnavailable):
		return domainerr.ErrSearchUnavailable(err)
	case errors.Is(err, auditor_management.ErrInvalidAuditorName),
		errors.Is(err, auditor_management.ErrAuditorNameTooLong):
		return domainerr.ErrInvalidAuditorName(err.Error())
	case errors.Is(err, auditor_management.ErrInvalidAuditorID):
		return domainerr.ErrInvalidAuditorID("must be a positive integer")
	case errors.Is(err, auditor_management.ErrAuditorNotFound):
		return domainerr.ErrAuditorNotFound(auditorID)
	case errors.Is(err, auditor_management.ErrRotationContended):
		return domainerr.ErrPersistence("rotate key", err)
	case errors.As(err, &persistErr):
		return domainerr.ErrPersistence(persistErr.Op, err)
	default:
		return domainerr.ErrInternalServerError("", err)
	}
}

// writeError logs server-side failures and writes the coded error body.
func writeError(ctx context.Context, w http.ResponseWriter, log logger.Logger, err error, auditorID int64) {
	appErr := toAppError(err, auditorID)
	if domainerr.GetHTTPStatusCode(appErr) >= http.StatusInternalServerError {
		log.Error(ctx, "Request failed", err, map[string]interface{}{
			"code":       string(appErr.Code),
			"auditor_id": auditorID,
		})
	}
	response.AppError(w, appErr, logger.CorrelationIDFromContext(ctx))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domainerr.ErrInvalidRequest("Invalid request body")
	}
	return nil
}
