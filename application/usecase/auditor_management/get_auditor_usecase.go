package auditor_management

import (
	"context"
	"errors"

	"github.com/securematch/securematch/application/port/inbound"
	"github.com/securematch/securematch/application/port/outbound"
)

type GetAuditorUseCase struct {
	auditorRepo outbound.AuditorRepository
}

func NewGetAuditorUseCase(auditorRepo outbound.AuditorRepository) *GetAuditorUseCase {
	return &GetAuditorUseCase{auditorRepo: auditorRepo}
}

func (uc *GetAuditorUseCase) Execute(ctx context.Context, auditorID int64) (*inbound.AuditorDetailResponse, error) {
	if auditorID <= 0 {
		return nil, ErrInvalidAuditorID
	}

	auditor, err := uc.auditorRepo.FindByID(ctx, auditorID)
	if err != nil {
		if errors.Is(err, outbound.ErrAuditorNotFound) {
			return nil, ErrAuditorNotFound
		}
		return nil, outbound.WrapPersistence("load auditor", err)
	}

	versions, err := uc.auditorRepo.ListKeyVersions(ctx, auditorID)
	if err != nil {
		return nil, outbound.WrapPersistence("list key versions", err)
	}

	items := make([]inbound.KeyVersionItem, 0, len(versions))
	for _, v := range versions {
		items = append(items, inbound.KeyVersionItem{
			Version:     v.Version,
			Fingerprint: v.Fingerprint,
			PublicKey:   v.PublicKey,
			CreatedAt:   v.CreatedAt,
			RevokedAt:   v.RevokedAt,
		})
	}

	return &inbound.AuditorDetailResponse{
		AuditorID:        auditor.ID,
		Name:             auditor.Name,
		Status:           string(auditor.Status),
		ActiveKeyVersion: auditor.ActiveKeyVersion,
		CreatedAt:        auditor.CreatedAt,
		DeletedAt:        auditor.DeletedAt,
		KeyVersions:      items,
	}, nil
}
