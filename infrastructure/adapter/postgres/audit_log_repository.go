package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/securematch/securematch/application/port/outbound"
	"github.com/securematch/securematch/domain/entity"
)

// AuditLogRepositoryAdapter only ever inserts into search_audit_records.
type AuditLogRepositoryAdapter struct {
	db *sql.DB
}

func NewAuditLogRepositoryAdapter(db *sql.DB) outbound.AuditLogRepository {
	return &AuditLogRepositoryAdapter{
		db: db,
	}
}

func (r *AuditLogRepositoryAdapter) Append(ctx context.Context, record *entity.SearchAuditRecord) error {
	if record == nil {
		return fmt.Errorf("audit record cannot be nil")
	}

	query := `
		INSERT INTO search_audit_records
			(id, auditor_id, key_version_used, keyword_hash, signature, verified, outcome, duration_ms, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.AuditorID,
		record.KeyVersionUsed,
		record.KeywordHash,
		record.Signature,
		record.Verified,
		string(record.Outcome),
		record.DurationMs,
		record.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	return nil
}

func (r *AuditLogRepositoryAdapter) ListByAuditor(ctx context.Context, auditorID int64, limit int) ([]*entity.SearchAuditRecord, error) {
	// LIMIT NULL returns every row
	query := `
		SELECT id, auditor_id, key_version_used, keyword_hash, signature, verified, outcome, duration_ms, recorded_at
		FROM search_audit_records
		WHERE auditor_id = $1
		ORDER BY recorded_at DESC, id DESC
		LIMIT NULLIF($2::int, 0)
	`

	rows, err := r.db.QueryContext(ctx, query, auditorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit records: %w", err)
	}
	defer rows.Close()

	records := make([]*entity.SearchAuditRecord, 0)
	for rows.Next() {
		var rec entity.SearchAuditRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.AuditorID,
			&rec.KeyVersionUsed,
			&rec.KeywordHash,
			&rec.Signature,
			&rec.Verified,
			&rec.Outcome,
			&rec.DurationMs,
			&rec.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit records: %w", err)
	}
	return records, nil
}

func (r *AuditLogRepositoryAdapter) Summarize(ctx context.Context, since time.Time) (*entity.AuditSummary, error) {
	summary := &entity.AuditSummary{RejectionsByReason: make(map[entity.VerificationOutcome]int)}

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE NOT verified),
		       COALESCE(AVG(duration_ms), 0)
		FROM search_audit_records
		WHERE recorded_at >= $1
	`, since).Scan(&summary.Total, &summary.Failed, &summary.AvgDurationMs)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize audit records: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT outcome, COUNT(*)
		FROM search_audit_records
		WHERE recorded_at >= $1 AND NOT verified
		GROUP BY outcome
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count rejections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, fmt.Errorf("failed to scan rejection count: %w", err)
		}
		summary.RejectionsByReason[entity.VerificationOutcome(outcome)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rejection counts: %w", err)
	}
	return summary, nil
}
