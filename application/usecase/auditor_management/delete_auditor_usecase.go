package auditor_management

import (
	"context"
	"errors"
	"time"

	"github.com/securematch/securematch/application/port/outbound"
	"github.com/securematch/securematch/infrastructure/service/logger"
)

type DeleteAuditorUseCase struct {
	auditorRepo outbound.AuditorRepository
	logger      logger.Logger
	now         func() time.Time
}

func NewDeleteAuditorUseCase(auditorRepo outbound.AuditorRepository, log logger.Logger) *DeleteAuditorUseCase {
	return &DeleteAuditorUseCase{
		auditorRepo: auditorRepo,
		logger:      log,
		now:         time.Now,
	}
}

// Execute is idempotent: deleting an already deleted auditor succeeds.
func (uc *DeleteAuditorUseCase) Execute(ctx context.Context, auditorID int64) error {
	if auditorID <= 0 {
		return ErrInvalidAuditorID
	}

	alreadyDeleted, err := uc.auditorRepo.Delete(ctx, auditorID, uc.now())
	if err != nil {
		if errors.Is(err, outbound.ErrAuditorNotFound) {
			return ErrAuditorNotFound
		}
		return outbound.WrapPersistence("delete auditor", err)
	}

	if !alreadyDeleted {
		logger.LogKeyEvent(ctx, uc.logger, "keys_revoked", auditorID, 0, map[string]interface{}{
			"reason": "auditor_deleted",
		})
	}
	return nil
}
