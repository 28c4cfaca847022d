package keypair

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"

	"golang.org/x/crypto/ssh"

	"github.com/securematch/securematch/domain/entity"
	"github.com/securematch/securematch/pkg/signer"
)

// MinKeyBits is the smallest modulus the service will generate.
const MinKeyBits = 2048

var ErrKeyTooSmall = fmt.Errorf("RSA key size must be at least %d bits", MinKeyBits)

// RSAService generates auditor key pairs and checks search signatures.
type RSAService struct {
	bits int
}

func NewRSAService(bits int) (*RSAService, error) {
	if bits == 0 {
		bits = MinKeyBits
	}
	if bits < MinKeyBits {
		return nil, ErrKeyTooSmall
	}
	return &RSAService{bits: bits}, nil
}

// Generate creates a fresh key pair. The private half is returned in memory
// only; nothing here persists it.
func (s *RSAService) Generate() (*entity.KeyMaterial, error) {
	key, err := rsa.GenerateKey(rand.Reader, s.bits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key: %w", err)
	}

	publicPEM, err := signer.EncodePublicKey(&key.PublicKey)
	if err != nil {
		return nil, err
	}
	privatePEM, err := signer.EncodePrivateKey(key)
	if err != nil {
		return nil, err
	}
	fingerprint, err := Fingerprint(&key.PublicKey)
	if err != nil {
		return nil, err
	}

	return &entity.KeyMaterial{
		PublicKeyPEM: publicPEM,
		Fingerprint:  fingerprint,
		PrivateKey:   entity.PrivateKeyPEM(privatePEM),
	}, nil
}

// Verify implements outbound.SignatureVerifier.
func (s *RSAService) Verify(publicKeyPEM, keywordHash, signatureHex string) error {
	pub, err := signer.ParsePublicKey(publicKeyPEM)
	if err != nil {
		return fmt.Errorf("failed to load stored public key: %w", err)
	}
	return signer.Verify(pub, keywordHash, signatureHex)
}

// Fingerprint renders the OpenSSH style SHA256 fingerprint of pub.
func Fingerprint(pub *rsa.PublicKey) (string, error) {
	sshKey, err := ssh.NewPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("failed to derive fingerprint: %w", err)
	}
	return ssh.FingerprintSHA256(sshKey), nil
}
