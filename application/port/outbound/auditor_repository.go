package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/securematch/securematch/domain/entity"
)

var (
	ErrAuditorNotFound    = errors.New("auditor not found")
	ErrNoActiveKey        = errors.New("no active key version")
	ErrKeyVersionConflict = errors.New("active key version changed concurrently")
)

// AuditorRepository owns auditors and their key versions. Every method that
// mutates more than one row does so atomically.
type AuditorRepository interface {
	// CreateWithKey stores a new auditor together with its first key version
	// and assigns auditor.ID and key.AuditorID.
	CreateWithKey(ctx context.Context, auditor *entity.Auditor, key *entity.KeyVersion) error
	// FindByID returns the auditor regardless of status.
	FindByID(ctx context.Context, id int64) (*entity.Auditor, error)
	// ListActive returns active auditors in insertion order.
	ListActive(ctx context.Context) ([]*entity.Auditor, error)
	ListKeyVersions(ctx context.Context, auditorID int64) ([]*entity.KeyVersion, error)
	// FindActiveKey returns a consistent snapshot of an active auditor and its
	// single non-revoked key version. It returns ErrAuditorNotFound for unknown
	// or deleted auditors and ErrNoActiveKey when no usable version exists.
	FindActiveKey(ctx context.Context, auditorID int64) (*entity.Auditor, *entity.KeyVersion, error)
	// RotateKey revokes the active version, stores next and moves the active
	// pointer, provided the active version still equals expectedVersion.
	// Otherwise it returns ErrKeyVersionConflict and changes nothing.
	RotateKey(ctx context.Context, auditorID int64, expectedVersion int, next *entity.KeyVersion) error
	// Delete marks the auditor deleted and revokes all its key versions.
	// Deleting an already deleted auditor reports alreadyDeleted and succeeds.
	Delete(ctx context.Context, auditorID int64, now time.Time) (alreadyDeleted bool, err error)
}
