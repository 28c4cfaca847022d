package auditor_management

import (
	"context"
	"errors"

	"github.com/securematch/securematch/application/port/inbound"
	"github.com/securematch/securematch/application/port/outbound"
)

type RotateKeyUseCase struct {
	issuer *KeyIssuer
}

func NewRotateKeyUseCase(issuer *KeyIssuer) *RotateKeyUseCase {
	return &RotateKeyUseCase{issuer: issuer}
}

func (uc *RotateKeyUseCase) Execute(ctx context.Context, req inbound.RotateKeyRequest) (*inbound.RotateKeyResponse, error) {
	if req.AuditorID <= 0 {
		return nil, ErrInvalidAuditorID
	}

	key, err := uc.issuer.Rotate(ctx, req.AuditorID)
	if err != nil {
		if errors.Is(err, outbound.ErrAuditorNotFound) {
			return nil, ErrAuditorNotFound
		}
		return nil, err
	}

	return &inbound.RotateKeyResponse{
		AuditorID:            key.AuditorID,
		NewKeyVersion:        key.Version,
		PrivateKey:           key.PrivateKey.Reveal(),
		PublicKeyFingerprint: key.Fingerprint,
	}, nil
}
