package memory

import (
	"context"
	"sync"
	"time"

	"github.com/securematch/securematch/application/port/outbound"
	"github.com/securematch/securematch/domain/entity"
)

// AuditorRepository keeps auditors and key versions in process memory. All
// multi-row mutations happen under one write lock, so readers always see
// either the state before or after a rotation or deletion.
type AuditorRepository struct {
	mu       sync.RWMutex
	nextID   int64
	order    []int64
	auditors map[int64]*entity.Auditor
	keys     map[int64][]*entity.KeyVersion
}

func NewAuditorRepository() *AuditorRepository {
	return &AuditorRepository{
		auditors: make(map[int64]*entity.Auditor),
		keys:     make(map[int64][]*entity.KeyVersion),
	}
}

var _ outbound.AuditorRepository = (*AuditorRepository)(nil)

func (r *AuditorRepository) CreateWithKey(ctx context.Context, auditor *entity.Auditor, key *entity.KeyVersion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	auditor.ID = r.nextID
	key.AuditorID = auditor.ID
	auditor.ActiveKeyVersion = key.Version

	r.auditors[auditor.ID] = copyAuditor(auditor)
	r.keys[auditor.ID] = []*entity.KeyVersion{copyKey(key)}
	r.order = append(r.order, auditor.ID)
	return nil
}

func (r *AuditorRepository) FindByID(ctx context.Context, id int64) (*entity.Auditor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.auditors[id]
	if !ok {
		return nil, outbound.ErrAuditorNotFound
	}
	return copyAuditor(a), nil
}

func (r *AuditorRepository) ListActive(ctx context.Context) ([]*entity.Auditor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Auditor, 0, len(r.order))
	for _, id := range r.order {
		if a := r.auditors[id]; a.IsActive() {
			out = append(out, copyAuditor(a))
		}
	}
	return out, nil
}

func (r *AuditorRepository) ListKeyVersions(ctx context.Context, auditorID int64) ([]*entity.KeyVersion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.auditors[auditorID]; !ok {
		return nil, outbound.ErrAuditorNotFound
	}
	versions := r.keys[auditorID]
	out := make([]*entity.KeyVersion, 0, len(versions))
	for _, k := range versions {
		out = append(out, copyKey(k))
	}
	return out, nil
}

func (r *AuditorRepository) FindActiveKey(ctx context.Context, auditorID int64) (*entity.Auditor, *entity.KeyVersion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.auditors[auditorID]
	if !ok || !a.IsActive() {
		return nil, nil, outbound.ErrAuditorNotFound
	}
	for _, k := range r.keys[auditorID] {
		if k.Version == a.ActiveKeyVersion && !k.IsRevoked() {
			return copyAuditor(a), copyKey(k), nil
		}
	}
	return copyAuditor(a), nil, outbound.ErrNoActiveKey
}

func (r *AuditorRepository) RotateKey(ctx context.Context, auditorID int64, expectedVersion int, next *entity.KeyVersion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.auditors[auditorID]
	if !ok || !a.IsActive() {
		return outbound.ErrAuditorNotFound
	}
	if a.ActiveKeyVersion != expectedVersion || next.Version <= expectedVersion {
		return outbound.ErrKeyVersionConflict
	}

	for _, k := range r.keys[auditorID] {
		k.Revoke(next.CreatedAt)
	}
	next.AuditorID = auditorID
	r.keys[auditorID] = append(r.keys[auditorID], copyKey(next))
	a.ActiveKeyVersion = next.Version
	return nil
}

func (r *AuditorRepository) Delete(ctx context.Context, auditorID int64, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.auditors[auditorID]
	if !ok {
		return false, outbound.ErrAuditorNotFound
	}
	if a.IsDeleted() {
		return true, nil
	}
	for _, k := range r.keys[auditorID] {
		k.Revoke(now)
	}
	a.MarkDeleted(now)
	return false, nil
}

func copyAuditor(a *entity.Auditor) *entity.Auditor {
	c := *a
	if a.DeletedAt != nil {
		t := *a.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}

func copyKey(k *entity.KeyVersion) *entity.KeyVersion {
	c := *k
	if k.RevokedAt != nil {
		t := *k.RevokedAt
		c.RevokedAt = &t
	}
	return &c
}
