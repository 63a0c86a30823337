package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken produces the at-rest form of refresh and password-reset tokens.
// Only the digest is stored; the raw token never touches the database.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
