package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/pbkdf2"
)

/*
This package derives and compares password keys. The derivation parameters
live in one Params value: changing them invalidates every stored credential,
so they are configured here once and never per call site.
*/

const SALT_LENGTH = 16

type Params struct {
	Iterations int
	KeyLength  int
}

// DefaultParams matches the credentials already in production databases.
var DefaultParams = Params{
	Iterations: 310000,
	KeyLength:  32,
}

// DeriveKey derives a fixed-length key from a password and salt using
// PBKDF2-SHA256. Deterministic for a given password/salt pair.
func (p Params) DeriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, p.Iterations, p.KeyLength, sha256.New)
}

// NewSalt returns SALT_LENGTH cryptographically random bytes.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SALT_LENGTH)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// ConstantTimeEqual reports whether a and b are equal without leaking where
// they first differ. Inputs of unequal length compare unequal.
func ConstantTimeEqual(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
