package password

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

const cost = 12 // bcrypt cost factor

// preHash runs the password through SHA-256 first so inputs longer than
// bcrypt's 72-byte limit still hash and verify consistently.
func preHash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(hex.EncodeToString(sum[:]))
}

// Hash hashes password using bcrypt over a SHA-256 pre-hash
func Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword(preHash(password), cost)
	return string(bytes), err
}

// Verify compares password with hash. Hashes created from the raw
// password by older tooling still verify, as long as the raw password
// fits bcrypt's input limit.
func Verify(password, hash string) bool {
	if bcrypt.CompareHashAndPassword([]byte(hash), preHash(password)) == nil {
		return true
	}
	if len(password) < 72 {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	}
	return false
}
