package outbound

import "github.com/securematch/securematch/domain/entity"

type KeyPairGenerator interface {
	Generate() (*entity.KeyMaterial, error)
}

type SignatureVerifier interface {
	// Verify returns nil only when signatureHex is a valid signature over
	// keywordHash under publicKeyPEM.
	Verify(publicKeyPEM, keywordHash, signatureHex string) error
}
