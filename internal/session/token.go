package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// mintToken generates a cryptographically random opaque token and the hash
// it is stored under. The table keeps only the hash, so a table dump never
// yields usable tokens.
func mintToken() (value, hash string, err error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	value = base64.RawURLEncoding.EncodeToString(raw)
	return value, hashToken(value), nil
}

func hashToken(value string) string {
	sum := sha256.Sum256([]byte(value))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
