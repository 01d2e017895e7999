package hash

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = bcrypt.DefaultCost

// Hash returns a salted bcrypt hash of password.
func Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}

// Compare returns nil when password matches a hash produced by Hash.
func Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// SHA256 returns the unsalted base64 SHA-256 digest of password. It is kept
// for records written by the user administration endpoints and is not
// interchangeable with Hash.
func SHA256(password string) string {
	sum := sha256.Sum256([]byte(password))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// CompareSHA256 reports whether password digests to hashedPassword.
func CompareSHA256(hashedPassword, password string) bool {
	return SHA256(password) == hashedPassword
}
