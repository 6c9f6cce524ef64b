// Package secrets generates and vets the shared keys used to sign client
// tokens.
package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"slices"

	dErrors "mrzgate/pkg/domain-errors"
)

// MinSigningKeyLength is the shortest HS256 key accepted outside development.
const MinSigningKeyLength = 32

// Generate creates a cryptographically secure random secret.
// Returns a base64url string suitable for use as a signing key.
func Generate() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not generate secret")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// CheckSigningKey rejects keys that are too short or appear in forbidden,
// such as a well-known development default.
func CheckSigningKey(key string, forbidden ...string) error {
	if slices.Contains(forbidden, key) {
		return dErrors.New(dErrors.CodeValidation, "signing key is a development default")
	}
	if len(key) < MinSigningKeyLength {
		return dErrors.New(dErrors.CodeValidation, "signing key is too short")
	}
	return nil
}
