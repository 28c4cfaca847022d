package auditor_management

import (
	"context"

	"github.com/securematch/securematch/application/port/inbound"
	"github.com/securematch/securematch/application/port/outbound"
)

type ListAuditorsUseCase struct {
	auditorRepo outbound.AuditorRepository
}

func NewListAuditorsUseCase(auditorRepo outbound.AuditorRepository) *ListAuditorsUseCase {
	return &ListAuditorsUseCase{auditorRepo: auditorRepo}
}

// Execute returns active auditors in creation order.
func (uc *ListAuditorsUseCase) Execute(ctx context.Context) ([]inbound.AuditorListItem, error) {
	auditors, err := uc.auditorRepo.ListActive(ctx)
	if err != nil {
		return nil, outbound.WrapPersistence("list auditors", err)
	}

	items := make([]inbound.AuditorListItem, 0, len(auditors))
	for _, a := range auditors {
		items = append(items, inbound.AuditorListItem{
			AuditorID:        a.ID,
			Name:             a.Name,
			ActiveKeyVersion: a.ActiveKeyVersion,
		})
	}
	return items, nil
}
