package entity

import (
	"fmt"
	"time"
)

// KeyVersion is the persisted half of an auditor key pair. It has no field
// able to hold private key material.
type KeyVersion struct {
	AuditorID   int64      `json:"auditor_id"`
	Version     int        `json:"version"`
	PublicKey   string     `json:"public_key"`
	Fingerprint string     `json:"fingerprint"`
	CreatedAt   time.Time  `json:"created_at"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
}

func NewKeyVersion(auditorID int64, version int, publicKey, fingerprint string, now time.Time) *KeyVersion {
	return &KeyVersion{
		AuditorID:   auditorID,
		Version:     version,
		PublicKey:   publicKey,
		Fingerprint: fingerprint,
		CreatedAt:   now,
	}
}

func (k *KeyVersion) IsRevoked() bool {
	return k.RevokedAt != nil
}

func (k *KeyVersion) Revoke(now time.Time) {
	if k.RevokedAt != nil {
		return
	}
	k.RevokedAt = &now
}

// PrivateKeyPEM holds a freshly issued private key on its way to the caller.
// It formats and marshals as a redacted placeholder so it cannot leak through
// %v, log fields or an accidental json.Marshal. Reveal is the only way out.
type PrivateKeyPEM string

const redacted = "[REDACTED]"

func (p PrivateKeyPEM) String() string {
	return redacted
}

func (p PrivateKeyPEM) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}

func (p PrivateKeyPEM) MarshalText() ([]byte, error) {
	return []byte(redacted), nil
}

func (p PrivateKeyPEM) GoString() string {
	return "entity.PrivateKeyPEM([REDACTED])"
}

// Reveal returns the PEM text. Only the one-time issuing response should
// call it.
func (p PrivateKeyPEM) Reveal() string {
	return string(p)
}

// KeyMaterial is a freshly generated key pair before it is persisted.
type KeyMaterial struct {
	PublicKeyPEM string
	Fingerprint  string
	PrivateKey   PrivateKeyPEM
}

// IssuedKey is returned exactly once, from auditor creation or key rotation.
type IssuedKey struct {
	AuditorID   int64
	Version     int
	PublicKey   string
	Fingerprint string
	PrivateKey  PrivateKeyPEM
	CreatedAt   time.Time
}

func (k IssuedKey) String() string {
	return fmt.Sprintf("IssuedKey{auditor=%d version=%d fingerprint=%s}", k.AuditorID, k.Version, k.Fingerprint)
}
