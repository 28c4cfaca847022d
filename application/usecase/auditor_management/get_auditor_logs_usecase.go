package auditor_management

import (
	"context"
	"errors"

	"github.com/securematch/securematch/application/port/inbound"
	"github.com/securematch/securematch/application/port/outbound"
)

const DefaultLogPageSize = 100

type GetAuditorLogsUseCase struct {
	auditorRepo  outbound.AuditorRepository
	auditLogRepo outbound.AuditLogRepository
	pageSize     int
}

func NewGetAuditorLogsUseCase(
	auditorRepo outbound.AuditorRepository,
	auditLogRepo outbound.AuditLogRepository,
	pageSize int,
) *GetAuditorLogsUseCase {
	if pageSize <= 0 {
		pageSize = DefaultLogPageSize
	}
	return &GetAuditorLogsUseCase{
		auditorRepo:  auditorRepo,
		auditLogRepo: auditLogRepo,
		pageSize:     pageSize,
	}
}

// Execute lists the newest records first. Limit is clamped to the page size.
func (uc *GetAuditorLogsUseCase) Execute(ctx context.Context, req inbound.AuditorLogsRequest) (*inbound.AuditorLogsResponse, error) {
	if req.AuditorID <= 0 {
		return nil, ErrInvalidAuditorID
	}

	if _, err := uc.auditorRepo.FindByID(ctx, req.AuditorID); err != nil {
		if errors.Is(err, outbound.ErrAuditorNotFound) {
			return nil, ErrAuditorNotFound
		}
		return nil, outbound.WrapPersistence("load auditor", err)
	}

	limit := req.Limit
	if limit <= 0 || limit > uc.pageSize {
		limit = uc.pageSize
	}

	records, err := uc.auditLogRepo.ListByAuditor(ctx, req.AuditorID, limit)
	if err != nil {
		return nil, outbound.WrapPersistence("list audit records", err)
	}

	return &inbound.AuditorLogsResponse{
		AuditorID: req.AuditorID,
		Records:   records,
	}, nil
}
