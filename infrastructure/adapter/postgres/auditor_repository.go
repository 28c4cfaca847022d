package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/securematch/securematch/application/port/outbound"
	"github.com/securematch/securematch/domain/entity"
)

type AuditorRepositoryAdapter struct {
	db *sql.DB
}

func NewAuditorRepositoryAdapter(db *sql.DB) outbound.AuditorRepository {
	return &AuditorRepositoryAdapter{
		db: db,
	}
}

func (r *AuditorRepositoryAdapter) CreateWithKey(ctx context.Context, auditor *entity.Auditor, key *entity.KeyVersion) error {
	if auditor == nil || key == nil {
		return fmt.Errorf("auditor and key version are required")
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO auditors (name, status, active_key_version, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		var id int64
		if err := tx.QueryRowContext(ctx, query,
			auditor.Name,
			string(auditor.Status),
			key.Version,
			auditor.CreatedAt,
		).Scan(&id); err != nil {
			return fmt.Errorf("failed to create auditor: %w", err)
		}

		key.AuditorID = id
		if err := insertKeyVersion(ctx, tx, key); err != nil {
			return err
		}

		auditor.ID = id
		auditor.ActiveKeyVersion = key.Version
		return nil
	})
}

func (r *AuditorRepositoryAdapter) FindByID(ctx context.Context, id int64) (*entity.Auditor, error) {
	query := `
		SELECT id, name, status, active_key_version, created_at, deleted_at
		FROM auditors
		WHERE id = $1
	`

	auditor, err := scanAuditor(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrAuditorNotFound
		}
		return nil, fmt.Errorf("failed to find auditor by ID: %w", err)
	}
	return auditor, nil
}

func (r *AuditorRepositoryAdapter) ListActive(ctx context.Context) ([]*entity.Auditor, error) {
	query := `
		SELECT id, name, status, active_key_version, created_at, deleted_at
		FROM auditors
		WHERE status = $1
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, string(entity.AuditorStatusActive))
	if err != nil {
		return nil, fmt.Errorf("failed to list auditors: %w", err)
	}
	defer rows.Close()

	auditors := make([]*entity.Auditor, 0)
	for rows.Next() {
		auditor, err := scanAuditor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan auditor: %w", err)
		}
		auditors = append(auditors, auditor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate auditors: %w", err)
	}
	return auditors, nil
}

func (r *AuditorRepositoryAdapter) ListKeyVersions(ctx context.Context, auditorID int64) ([]*entity.KeyVersion, error) {
	if _, err := r.FindByID(ctx, auditorID); err != nil {
		return nil, err
	}

	query := `
		SELECT auditor_id, version, public_key, fingerprint, created_at, revoked_at
		FROM key_versions
		WHERE auditor_id = $1
		ORDER BY version ASC
	`

	rows, err := r.db.QueryContext(ctx, query, auditorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list key versions: %w", err)
	}
	defer rows.Close()

	keys := make([]*entity.KeyVersion, 0)
	for rows.Next() {
		var key entity.KeyVersion
		var revokedAt sql.NullTime
		if err := rows.Scan(
			&key.AuditorID,
			&key.Version,
			&key.PublicKey,
			&key.Fingerprint,
			&key.CreatedAt,
			&revokedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan key version: %w", err)
		}
		if revokedAt.Valid {
			key.RevokedAt = &revokedAt.Time
		}
		keys = append(keys, &key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate key versions: %w", err)
	}
	return keys, nil
}

// FindActiveKey reads the auditor and its active key in one statement, so
// the pair always comes from the same snapshot.
func (r *AuditorRepositoryAdapter) FindActiveKey(ctx context.Context, auditorID int64) (*entity.Auditor, *entity.KeyVersion, error) {
	query := `
		SELECT a.id, a.name, a.status, a.active_key_version, a.created_at, a.deleted_at,
		       k.version, k.public_key, k.fingerprint, k.created_at
		FROM auditors a
		LEFT JOIN key_versions k
		       ON k.auditor_id = a.id
		      AND k.version = a.active_key_version
		      AND k.revoked_at IS NULL
		WHERE a.id = $1
	`

	var auditor entity.Auditor
	var deletedAt sql.NullTime
	var version sql.NullInt64
	var publicKey, fingerprint sql.NullString
	var keyCreatedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, auditorID).Scan(
		&auditor.ID,
		&auditor.Name,
		&auditor.Status,
		&auditor.ActiveKeyVersion,
		&auditor.CreatedAt,
		&deletedAt,
		&version,
		&publicKey,
		&fingerprint,
		&keyCreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, outbound.ErrAuditorNotFound
		}
		return nil, nil, fmt.Errorf("failed to find active key: %w", err)
	}
	if deletedAt.Valid {
		auditor.DeletedAt = &deletedAt.Time
	}
	if !auditor.IsActive() {
		return nil, nil, outbound.ErrAuditorNotFound
	}
	if !version.Valid {
		return &auditor, nil, outbound.ErrNoActiveKey
	}

	key := &entity.KeyVersion{
		AuditorID:   auditor.ID,
		Version:     int(version.Int64),
		PublicKey:   publicKey.String,
		Fingerprint: fingerprint.String,
		CreatedAt:   keyCreatedAt.Time,
	}
	return &auditor, key, nil
}

// RotateKey locks the auditor row, so concurrent rotations for the same
// auditor queue up and all but the first see a stale expectedVersion.
func (r *AuditorRepositoryAdapter) RotateKey(ctx context.Context, auditorID int64, expectedVersion int, next *entity.KeyVersion) error {
	if next == nil {
		return fmt.Errorf("key version cannot be nil")
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		status, active, err := lockAuditor(ctx, tx, auditorID)
		if err != nil {
			return err
		}
		if status != entity.AuditorStatusActive {
			return outbound.ErrAuditorNotFound
		}
		if active != expectedVersion || next.Version <= expectedVersion {
			return outbound.ErrKeyVersionConflict
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE key_versions
			SET revoked_at = $2
			WHERE auditor_id = $1 AND revoked_at IS NULL
		`, auditorID, next.CreatedAt); err != nil {
			return fmt.Errorf("failed to revoke key versions: %w", err)
		}

		next.AuditorID = auditorID
		if err := insertKeyVersion(ctx, tx, next); err != nil {
			if isUniqueViolation(err) {
				return outbound.ErrKeyVersionConflict
			}
			return err
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE auditors
			SET active_key_version = $2
			WHERE id = $1 AND active_key_version = $3
		`, auditorID, next.Version, expectedVersion)
		if err != nil {
			return fmt.Errorf("failed to move active key version: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return outbound.ErrKeyVersionConflict
		}
		return nil
	})
}

func (r *AuditorRepositoryAdapter) Delete(ctx context.Context, auditorID int64, now time.Time) (bool, error) {
	alreadyDeleted := false

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		status, _, err := lockAuditor(ctx, tx, auditorID)
		if err != nil {
			return err
		}
		if status == entity.AuditorStatusDeleted {
			alreadyDeleted = true
			return nil
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE key_versions
			SET revoked_at = $2
			WHERE auditor_id = $1 AND revoked_at IS NULL
		`, auditorID, now); err != nil {
			return fmt.Errorf("failed to revoke key versions: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE auditors
			SET status = $2, deleted_at = $3
			WHERE id = $1
		`, auditorID, string(entity.AuditorStatusDeleted), now); err != nil {
			return fmt.Errorf("failed to delete auditor: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return alreadyDeleted, nil
}

func lockAuditor(ctx context.Context, tx *sql.Tx, auditorID int64) (entity.AuditorStatus, int, error) {
	var status string
	var active int
	err := tx.QueryRowContext(ctx, `
		SELECT status, active_key_version
		FROM auditors
		WHERE id = $1
		FOR UPDATE
	`, auditorID).Scan(&status, &active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", 0, outbound.ErrAuditorNotFound
		}
		return "", 0, fmt.Errorf("failed to lock auditor: %w", err)
	}
	return entity.AuditorStatus(status), active, nil
}

func insertKeyVersion(ctx context.Context, tx *sql.Tx, key *entity.KeyVersion) error {
	query := `
		INSERT INTO key_versions (auditor_id, version, public_key, fingerprint, created_at, revoked_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.ExecContext(ctx, query,
		key.AuditorID,
		key.Version,
		key.PublicKey,
		key.Fingerprint,
		key.CreatedAt,
		key.RevokedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create key version: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAuditor(row rowScanner) (*entity.Auditor, error) {
	var auditor entity.Auditor
	var deletedAt sql.NullTime
	if err := row.Scan(
		&auditor.ID,
		&auditor.Name,
		&auditor.Status,
		&auditor.ActiveKeyVersion,
		&auditor.CreatedAt,
		&deletedAt,
	); err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		auditor.DeletedAt = &deletedAt.Time
	}
	return &auditor, nil
}
