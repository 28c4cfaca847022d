package outbound

import (
	"context"
	"time"

	"github.com/securematch/securematch/domain/entity"
)

// AuditLogRepository is append-only. There is no update or delete.
type AuditLogRepository interface {
	Append(ctx context.Context, record *entity.SearchAuditRecord) error
	// ListByAuditor returns records newest first.
	ListByAuditor(ctx context.Context, auditorID int64, limit int) ([]*entity.SearchAuditRecord, error)
	// Summarize rolls up every record with Timestamp >= since.
	Summarize(ctx context.Context, since time.Time) (*entity.AuditSummary, error)
}
