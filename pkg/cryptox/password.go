package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters, following the RFC 9106 low-memory profile.
const (
	saltLength  = 16
	iterations  = 3
	memory      = 64 * 1024
	parallelism = 4
	keyLength   = 32
)

// ErrPasswordMismatch is returned by verifiers when the provided password
// does not match the stored credential.
var ErrPasswordMismatch = errors.New("cryptox: password does not match")

// PasswordVerifier compares a provided password against a stored credential.
// The stored form is verifier-specific: raw for PlainVerifier, a PHC-encoded
// argon2id hash for Argon2Verifier. Swapping the verifier changes how
// credentials are stored without touching the authentication service.
type PasswordVerifier interface {
	Verify(stored, provided string) error
}

// PlainVerifier compares raw passwords in constant time. This matches how
// the seeded demo roster stores credentials; real deployments should use
// Argon2Verifier.
type PlainVerifier struct{}

func (PlainVerifier) Verify(stored, provided string) error {
	if subtle.ConstantTimeCompare([]byte(stored), []byte(provided)) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

// Argon2Verifier compares against PHC-format argon2id hashes produced by
// HashPassword.
type Argon2Verifier struct{}

func (Argon2Verifier) Verify(stored, provided string) error {
	return VerifyPassword(provided, stored)
}

// HashPassword generates a PHC-format argon2id hash string including salt
// and parameters.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword compares a plaintext password against a PHC-style argon2id
// hash such as those produced by HashPassword.
func VerifyPassword(password, encodedHash string) error {
	// PHC format: $argon2id$v=19$m=X,t=Y,p=Z$salt$hash
	parts := splitDollar(encodedHash)
	if len(parts) != 6 {
		return errors.New("invalid hash format: expected 6 parts")
	}
	if parts[1] != "argon2id" {
		return errors.New("invalid hash format: not argon2id")
	}
	if parts[2] != "v=19" {
		return errors.New("invalid hash format: wrong version")
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("invalid hash format: failed to parse parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("invalid hash format: failed to decode salt: %w", err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("invalid hash format: failed to decode hash: %w", err)
	}

	computed := argon2.IDKey([]byte(password), salt, iters, mem, par, uint32(len(expected))) // #nosec G115

	if subtle.ConstantTimeCompare(computed, expected) == 1 {
		return nil
	}
	return ErrPasswordMismatch
}

func splitDollar(s string) []string {
	parts := make([]string, 0, 6)
	start := 0
	for i := range len(s) {
		if s[i] == '$' {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}
