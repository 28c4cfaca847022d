package auditor_management

import (
	"context"

	"github.com/securematch/securematch/application/port/inbound"
	"github.com/securematch/securematch/application/port/outbound"
	"github.com/securematch/securematch/infrastructure/service/logger"
)

type AuditorManagementUseCaseImpl struct {
	createAuditorUseCase  *CreateAuditorUseCase
	rotateKeyUseCase      *RotateKeyUseCase
	deleteAuditorUseCase  *DeleteAuditorUseCase
	getAuditorUseCase     *GetAuditorUseCase
	listAuditorsUseCase   *ListAuditorsUseCase
	getAuditorLogsUseCase *GetAuditorLogsUseCase
}

type Options struct {
	MaxRotationRetries int
	LogPageSize        int
}

func NewAuditorManagementUseCase(
	auditorRepo outbound.AuditorRepository,
	auditLogRepo outbound.AuditLogRepository,
	generator outbound.KeyPairGenerator,
	log logger.Logger,
	opts Options,
) inbound.AuditorManagementUseCase {
	issuer := NewKeyIssuer(auditorRepo, generator, log, opts.MaxRotationRetries)
	return &AuditorManagementUseCaseImpl{
		createAuditorUseCase:  NewCreateAuditorUseCase(issuer),
		rotateKeyUseCase:      NewRotateKeyUseCase(issuer),
		deleteAuditorUseCase:  NewDeleteAuditorUseCase(auditorRepo, log),
		getAuditorUseCase:     NewGetAuditorUseCase(auditorRepo),
		listAuditorsUseCase:   NewListAuditorsUseCase(auditorRepo),
		getAuditorLogsUseCase: NewGetAuditorLogsUseCase(auditorRepo, auditLogRepo, opts.LogPageSize),
	}
}

func (uc *AuditorManagementUseCaseImpl) CreateAuditor(ctx context.Context, req inbound.CreateAuditorRequest) (*inbound.CreateAuditorResponse, error) {
	return uc.createAuditorUseCase.Execute(ctx, req)
}

func (uc *AuditorManagementUseCaseImpl) RotateKey(ctx context.Context, req inbound.RotateKeyRequest) (*inbound.RotateKeyResponse, error) {
	return uc.rotateKeyUseCase.Execute(ctx, req)
}

func (uc *AuditorManagementUseCaseImpl) DeleteAuditor(ctx context.Context, auditorID int64) error {
	return uc.deleteAuditorUseCase.Execute(ctx, auditorID)
}

func (uc *AuditorManagementUseCaseImpl) GetAuditor(ctx context.Context, auditorID int64) (*inbound.AuditorDetailResponse, error) {
	return uc.getAuditorUseCase.Execute(ctx, auditorID)
}

func (uc *AuditorManagementUseCaseImpl) ListAuditors(ctx context.Context) ([]inbound.AuditorListItem, error) {
	return uc.listAuditorsUseCase.Execute(ctx)
}

func (uc *AuditorManagementUseCaseImpl) GetAuditorLogs(ctx context.Context, req inbound.AuditorLogsRequest) (*inbound.AuditorLogsResponse, error) {
	return uc.getAuditorLogsUseCase.Execute(ctx, req)
}
