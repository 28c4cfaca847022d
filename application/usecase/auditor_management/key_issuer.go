package auditor_management

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/securematch/securematch/application/port/outbound"
	"github.com/securematch/securematch/domain/entity"
	"github.com/securematch/securematch/infrastructure/service/logger"
)

const DefaultRotationRetries = 3

// KeyIssuer generates key pairs and persists only their public half. The
// private half travels back to the caller inside an IssuedKey and nowhere else.
type KeyIssuer struct {
	auditorRepo outbound.AuditorRepository
	generator   outbound.KeyPairGenerator
	logger      logger.Logger
	maxRetries  int
	now         func() time.Time
}

func NewKeyIssuer(
	auditorRepo outbound.AuditorRepository,
	generator outbound.KeyPairGenerator,
	log logger.Logger,
	maxRetries int,
) *KeyIssuer {
	if maxRetries < 1 {
		maxRetries = DefaultRotationRetries
	}
	return &KeyIssuer{
		auditorRepo: auditorRepo,
		generator:   generator,
		logger:      log,
		maxRetries:  maxRetries,
		now:         time.Now,
	}
}

// Issue creates the auditor together with key version 1.
func (k *KeyIssuer) Issue(ctx context.Context, auditor *entity.Auditor) (*entity.IssuedKey, error) {
	material, err := k.generator.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key pair: %w", err)
	}

	key := entity.NewKeyVersion(0, 1, material.PublicKeyPEM, material.Fingerprint, auditor.CreatedAt)
	if err := k.auditorRepo.CreateWithKey(ctx, auditor, key); err != nil {
		return nil, outbound.WrapPersistence("create auditor", err)
	}

	logger.LogKeyEvent(ctx, k.logger, "key_issued", auditor.ID, key.Version, map[string]interface{}{
		"fingerprint": key.Fingerprint,
	})

	return issued(key, material), nil
}

// Rotate replaces the active key version. The new pair is generated before
// touching storage; the swap itself is a compare-and-swap on the active
// version, retried when another rotation wins the race.
func (k *KeyIssuer) Rotate(ctx context.Context, auditorID int64) (*entity.IssuedKey, error) {
	material, err := k.generator.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key pair: %w", err)
	}

	for attempt := 1; attempt <= k.maxRetries; attempt++ {
		auditor, err := k.auditorRepo.FindByID(ctx, auditorID)
		if err != nil {
			return nil, outbound.WrapPersistence("load auditor", err)
		}
		if !auditor.IsActive() {
			return nil, outbound.ErrAuditorNotFound
		}

		expected := auditor.ActiveKeyVersion
		next := entity.NewKeyVersion(auditorID, expected+1, material.PublicKeyPEM, material.Fingerprint, k.now())

		err = k.auditorRepo.RotateKey(ctx, auditorID, expected, next)
		if err == nil {
			logger.LogKeyEvent(ctx, k.logger, "key_rotated", auditorID, next.Version, map[string]interface{}{
				"revoked_version": expected,
				"fingerprint":     next.Fingerprint,
				"attempt":         attempt,
			})
			return issued(next, material), nil
		}
		if !errors.Is(err, outbound.ErrKeyVersionConflict) {
			return nil, outbound.WrapPersistence("rotate key", err)
		}

		k.logger.Warn(ctx, "Key rotation conflicted, retrying", map[string]interface{}{
			"auditor_id":       auditorID,
			"expected_version": expected,
			"attempt":          attempt,
		})
	}

	return nil, ErrRotationContended
}

func issued(key *entity.KeyVersion, material *entity.KeyMaterial) *entity.IssuedKey {
	return &entity.IssuedKey{
		AuditorID:   key.AuditorID,
		Version:     key.Version,
		PublicKey:   key.PublicKey,
		Fingerprint: key.Fingerprint,
		PrivateKey:  material.PrivateKey,
		CreatedAt:   key.CreatedAt,
	}
}
