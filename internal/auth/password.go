package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier is the single place credentials are compared and encoded.
// The service never touches stored passwords directly, so the scheme can be
// swapped without changing any policy or handler code.
type PasswordVerifier interface {
	// Verify reports whether supplied matches the stored credential.
	Verify(stored, supplied string) bool
	// Encode converts a new plaintext password to its stored form.
	Encode(plaintext string) (string, error)
}

// PlainVerifier stores and compares plaintext passwords. This mirrors the
// original system and is the default scheme.
type PlainVerifier struct{}

func (PlainVerifier) Verify(stored, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

func (PlainVerifier) Encode(plaintext string) (string, error) {
	return plaintext, nil
}

// BcryptVerifier stores bcrypt hashes. Selectable via the password_scheme
// config key for deployments that want to leave plaintext behind.
type BcryptVerifier struct{}

func (BcryptVerifier) Verify(stored, supplied string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
}

func (BcryptVerifier) Encode(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerifierForScheme returns the verifier for a config scheme name. Unknown
// names fall back to plaintext.
func VerifierForScheme(scheme string) PasswordVerifier {
	if scheme == "bcrypt" {
		return BcryptVerifier{}
	}
	return PlainVerifier{}
}
