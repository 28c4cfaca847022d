// Package signer produces and checks search signatures.
//
// A signature is RSASSA-PKCS1-v1_5 with SHA-256 computed over the UTF-8 bytes
// of the lowercase hex keyword hash, not over the raw digest bytes. Browsers
// using WebCrypto and this package therefore agree on what was signed.
// Signatures travel as lowercase hex.
package signer

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
)

const (
	privateKeyBlockType = "PRIVATE KEY"
	publicKeyBlockType  = "PUBLIC KEY"
)

var (
	ErrKeyFormat        = errors.New("private key is not a valid PKCS8 PEM RSA key")
	ErrPublicKeyFormat  = errors.New("public key is not a valid PKIX PEM RSA key")
	ErrSignatureFormat  = errors.New("signature is not valid hex")
	ErrSignatureInvalid = errors.New("signature does not match")
)

// KeyFormatError is returned when the supplied private key cannot be parsed.
// It never carries any part of the key.
type KeyFormatError struct {
	Reason string
}

func (e *KeyFormatError) Error() string {
	return fmt.Sprintf("key format error: %s", e.Reason)
}

func (e *KeyFormatError) Unwrap() error { return ErrKeyFormat }

// SigningError wraps a failure of the signing backend.
type SigningError struct {
	Cause error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("signing failed: %v", e.Cause)
}

func (e *SigningError) Unwrap() error { return e.Cause }

// Sign signs hashHex with a PKCS8 PEM encoded RSA private key and returns the
// signature as lowercase hex. The key is parsed for the duration of the call
// only.
func Sign(hashHex string, privateKeyPEM string) (string, error) {
	key, err := ParsePrivateKey(privateKeyPEM)
	if err != nil {
		return "", err
	}

	digest := sha256.Sum256([]byte(hashHex))
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	if err != nil {
		return "", &SigningError{Cause: err}
	}

	return hex.EncodeToString(sig), nil
}

// Verify checks signatureHex over hashHex against pub.
func Verify(pub *rsa.PublicKey, hashHex string, signatureHex string) error {
	sig, err := hex.DecodeString(strings.TrimSpace(signatureHex))
	if err != nil || len(sig) == 0 {
		return ErrSignatureFormat
	}

	digest := sha256.Sum256([]byte(hashHex))
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], sig); err != nil {
		return ErrSignatureInvalid
	}
	return nil
}

// IsMismatch reports whether err from Verify means the signature did not
// match, as opposed to an unreadable public key.
func IsMismatch(err error) bool {
	return errors.Is(err, ErrSignatureInvalid) || errors.Is(err, ErrSignatureFormat)
}

// ParsePrivateKey decodes a "PRIVATE KEY" PEM block holding a PKCS8 RSA key.
func ParsePrivateKey(privateKeyPEM string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(privateKeyPEM))
	if block == nil {
		return nil, &KeyFormatError{Reason: "no PEM block found"}
	}
	if block.Type != privateKeyBlockType {
		return nil, &KeyFormatError{Reason: fmt.Sprintf("unexpected PEM block type %q", block.Type)}
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, &KeyFormatError{Reason: "invalid PKCS8 encoding"}
	}

	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, &KeyFormatError{Reason: "not an RSA key"}
	}
	return key, nil
}

// ParsePublicKey decodes a "PUBLIC KEY" PEM block holding a PKIX RSA key.
func ParsePublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil || block.Type != publicKeyBlockType {
		return nil, ErrPublicKeyFormat
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPublicKeyFormat, err)
	}

	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, ErrPublicKeyFormat
	}
	return pub, nil
}

// EncodePrivateKey renders key as a PKCS8 "PRIVATE KEY" PEM block.
func EncodePrivateKey(key *rsa.PrivateKey) (string, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return "", fmt.Errorf("failed to marshal private key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: privateKeyBlockType, Bytes: der})), nil
}

// EncodePublicKey renders pub as a PKIX "PUBLIC KEY" PEM block.
func EncodePublicKey(pub *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("failed to marshal public key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: publicKeyBlockType, Bytes: der})), nil
}
