package memory

import (
	"context"
	"sync"
	"time"

	"github.com/securematch/securematch/application/port/outbound"
	"github.com/securematch/securematch/domain/entity"
)

// AuditLogRepository is an append-only slice of records.
type AuditLogRepository struct {
	mu      sync.RWMutex
	records []entity.SearchAuditRecord
}

func NewAuditLogRepository() *AuditLogRepository {
	return &AuditLogRepository{}
}

var _ outbound.AuditLogRepository = (*AuditLogRepository)(nil)

func (r *AuditLogRepository) Append(ctx context.Context, record *entity.SearchAuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// stored by value so later changes to the caller's pointer do not leak in
	r.records = append(r.records, *record)
	return nil
}

func (r *AuditLogRepository) ListByAuditor(ctx context.Context, auditorID int64, limit int) ([]*entity.SearchAuditRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.SearchAuditRecord, 0)
	for i := len(r.records) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		if r.records[i].AuditorID == auditorID {
			rec := r.records[i]
			out = append(out, &rec)
		}
	}
	return out, nil
}

func (r *AuditLogRepository) Summarize(ctx context.Context, since time.Time) (*entity.AuditSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summary := &entity.AuditSummary{RejectionsByReason: make(map[entity.VerificationOutcome]int)}
	var totalMs float64
	for _, rec := range r.records {
		if rec.Timestamp.Before(since) {
			continue
		}
		summary.Total++
		totalMs += rec.DurationMs
		if !rec.Verified {
			summary.Failed++
			summary.RejectionsByReason[rec.Outcome]++
		}
	}
	if summary.Total > 0 {
		summary.AvgDurationMs = totalMs / float64(summary.Total)
	}
	return summary, nil
}

// Len is used by tests and the dev server banner.
func (r *AuditLogRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
