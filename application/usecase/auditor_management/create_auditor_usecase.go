package auditor_management

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/securematch/securematch/application/port/inbound"
	"github.com/securematch/securematch/domain/entity"
)

type CreateAuditorUseCase struct {
	issuer *KeyIssuer
	now    func() time.Time
}

func NewCreateAuditorUseCase(issuer *KeyIssuer) *CreateAuditorUseCase {
	return &CreateAuditorUseCase{
		issuer: issuer,
		now:    time.Now,
	}
}

func (uc *CreateAuditorUseCase) Execute(ctx context.Context, req inbound.CreateAuditorRequest) (*inbound.CreateAuditorResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidAuditorName
	}
	if utf8.RuneCountInString(name) > maxAuditorNameLength {
		return nil, ErrAuditorNameTooLong
	}

	auditor := entity.NewAuditor(name, uc.now())
	key, err := uc.issuer.Issue(ctx, auditor)
	if err != nil {
		return nil, err
	}

	return &inbound.CreateAuditorResponse{
		AuditorID:            auditor.ID,
		Name:                 auditor.Name,
		ActiveKeyVersion:     key.Version,
		PrivateKey:           key.PrivateKey.Reveal(),
		PublicKeyFingerprint: key.Fingerprint,
	}, nil
}
