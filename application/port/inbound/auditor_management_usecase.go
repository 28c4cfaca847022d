package inbound

import (
	"context"
	"time"

	"github.com/securematch/securematch/domain/entity"
)

// Create Auditor
type CreateAuditorRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateAuditorResponse is the only place besides RotateKeyResponse where a
// private key ever appears.
type CreateAuditorResponse struct {
	AuditorID            int64  `json:"auditor_id"`
	Name                 string `json:"name"`
	ActiveKeyVersion     int    `json:"active_key_version"`
	PrivateKey           string `json:"private_key"`
	PublicKeyFingerprint string `json:"public_key_fingerprint"`
}

// Rotate Key
type RotateKeyRequest struct {
	AuditorID int64 `json:"auditor_id" validate:"required"`
}

type RotateKeyResponse struct {
	AuditorID            int64  `json:"auditor_id"`
	NewKeyVersion        int    `json:"new_key_version"`
	PrivateKey           string `json:"private_key"`
	PublicKeyFingerprint string `json:"public_key_fingerprint"`
}

// Get Auditor
type KeyVersionItem struct {
	Version     int        `json:"version"`
	Fingerprint string     `json:"fingerprint"`
	PublicKey   string     `json:"public_key"`
	CreatedAt   time.Time  `json:"created_at"`
	RevokedAt   *time.Time `json:"revoked_at"`
}

type AuditorDetailResponse struct {
	AuditorID        int64            `json:"auditor_id"`
	Name             string           `json:"name"`
	Status           string           `json:"status"`
	ActiveKeyVersion int              `json:"active_key_version"`
	CreatedAt        time.Time        `json:"created_at"`
	DeletedAt        *time.Time       `json:"deleted_at,omitempty"`
	KeyVersions      []KeyVersionItem `json:"key_versions"`
}

// List Auditors
type AuditorListItem struct {
	AuditorID        int64  `json:"auditor_id"`
	Name             string `json:"name"`
	ActiveKeyVersion int    `json:"active_key_version"`
}

// Auditor Logs
type AuditorLogsRequest struct {
	AuditorID int64
	Limit     int
}

type AuditorLogsResponse struct {
	AuditorID int64                       `json:"auditor_id"`
	Records   []*entity.SearchAuditRecord `json:"records"`
}

type AuditorManagementUseCase interface {
	CreateAuditor(ctx context.Context, req CreateAuditorRequest) (*CreateAuditorResponse, error)
	RotateKey(ctx context.Context, req RotateKeyRequest) (*RotateKeyResponse, error)
	DeleteAuditor(ctx context.Context, auditorID int64) error
	GetAuditor(ctx context.Context, auditorID int64) (*AuditorDetailResponse, error)
	ListAuditors(ctx context.Context) ([]AuditorListItem, error)
	GetAuditorLogs(ctx context.Context, req AuditorLogsRequest) (*AuditorLogsResponse, error)
}
