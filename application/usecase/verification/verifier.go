package verification

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/securematch/securematch/application/port/outbound"
	"github.com/securematch/securematch/domain/entity"
	"github.com/securematch/securematch/infrastructure/service/logger"
	"github.com/securematch/securematch/pkg/keyword"
	"github.com/securematch/securematch/pkg/signer"
)

// Result is the internal outcome of one verification attempt. The Outcome
// tag must not reach external callers.
type Result struct {
	Outcome entity.VerificationOutcome
	Record  *entity.SearchAuditRecord
}

func (r *Result) Verified() bool {
	return r.Outcome.IsVerified()
}

// Verifier authenticates signed search requests against the auditor's active
// key and writes an audit record for every attempt.
type Verifier struct {
	auditorRepo  outbound.AuditorRepository
	auditLogRepo outbound.AuditLogRepository
	signatures   outbound.SignatureVerifier
	logger       logger.Logger
	now          func() time.Time
	newID        func() string
}

func NewVerifier(
	auditorRepo outbound.AuditorRepository,
	auditLogRepo outbound.AuditLogRepository,
	signatures outbound.SignatureVerifier,
	log logger.Logger,
) *Verifier {
	return &Verifier{
		auditorRepo:  auditorRepo,
		auditLogRepo: auditLogRepo,
		signatures:   signatures,
		logger:       log,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// Verify resolves the active key, checks the signature and records the
// attempt. It detaches from ctx cancellation so a disconnecting client cannot
// leave an attempt unrecorded. A non-nil error means the attempt could not be
// recorded or the key store was unreachable; the request must fail.
func (v *Verifier) Verify(ctx context.Context, auditorID int64, keywordHash, signature string) (*Result, error) {
	ctx = context.WithoutCancel(ctx)
	start := time.Now()

	outcome, keyVersion, err := v.check(ctx, auditorID, keywordHash, signature)
	if err != nil {
		v.logger.Error(ctx, "Failed to resolve auditor key", err, map[string]interface{}{
			"auditor_id": auditorID,
		})
		return nil, err
	}
	duration := time.Since(start)

	record := entity.NewSearchAuditRecord(v.newID(), auditorID, keyVersion, keywordHash, signature, outcome, duration, v.now())
	if err := v.auditLogRepo.Append(ctx, record); err != nil {
		v.logger.Error(ctx, "Failed to record search audit", err, map[string]interface{}{
			"auditor_id": auditorID,
			"outcome":    string(outcome),
		})
		return nil, outbound.WrapPersistence("append search audit record", err)
	}

	logger.LogPerformance(ctx, v.logger, "signature_verification", duration, map[string]interface{}{
		"auditor_id": auditorID,
	})
	if !outcome.IsVerified() {
		logger.LogSecurityEvent(ctx, v.logger, "search_rejected", "MEDIUM", map[string]interface{}{
			"auditor_id":  auditorID,
			"key_version": keyVersion,
			"outcome":     string(outcome),
			"record_id":   record.ID,
		})
	}

	return &Result{Outcome: outcome, Record: record}, nil
}

func (v *Verifier) check(ctx context.Context, auditorID int64, keywordHash, signature string) (entity.VerificationOutcome, int, error) {
	if auditorID <= 0 {
		return entity.OutcomeAuditorNotFound, 0, nil
	}

	auditor, key, err := v.auditorRepo.FindActiveKey(ctx, auditorID)
	switch {
	case errors.Is(err, outbound.ErrAuditorNotFound):
		return entity.OutcomeAuditorNotFound, 0, nil
	case errors.Is(err, outbound.ErrNoActiveKey):
		version := 0
		if auditor != nil {
			version = auditor.ActiveKeyVersion
		}
		return entity.OutcomeNoActiveKey, version, nil
	case err != nil:
		return "", 0, outbound.WrapPersistence("resolve active key", err)
	}

	if !keyword.IsHashHex(keywordHash) {
		return entity.OutcomeSignatureInvalid, key.Version, nil
	}
	if err := v.signatures.Verify(key.PublicKey, keywordHash, signature); err != nil {
		if !signer.IsMismatch(err) {
			logger.LogSecurityEvent(ctx, v.logger, "stored_key_unusable", "HIGH", map[string]interface{}{
				"auditor_id":  auditorID,
				"key_version": key.Version,
				"error":       err.Error(),
			})
		}
		return entity.OutcomeSignatureInvalid, key.Version, nil
	}
	return entity.OutcomeVerified, key.Version, nil
}
