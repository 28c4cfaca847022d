// Package keyword canonicalizes search keywords and hashes them the same way
// on the client and on the server.
package keyword

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashHexLength is the length of a rendered SHA-256 digest.
const HashHexLength = sha256.Size * 2

// Normalize trims surrounding whitespace and lowercases the keyword.
// An empty keyword normalizes to an empty string.
func Normalize(keyword string) string {
	return strings.ToLower(strings.TrimSpace(keyword))
}

// Hash returns the lowercase hex SHA-256 digest of the UTF-8 bytes of s.
func Hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// NormalizeAndHash is the client pipeline up to the point of signing.
func NormalizeAndHash(keyword string) string {
	return Hash(Normalize(keyword))
}

// IsHashHex reports whether s looks like a digest produced by Hash.
func IsHashHex(s string) bool {
	if len(s) != HashHexLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
