package clerk

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrInvalidKeyFormat is returned when a publishable key does not have the
	// expected pk_<env>_<payload> shape
	ErrInvalidKeyFormat = errors.New("invalid publishable key format")

	// ErrKeyEncoding is returned when the payload segment of a publishable key
	// cannot be decoded
	ErrKeyEncoding = errors.New("failed to decode publishable key")
)

// noPadStd decodes the payload segment. Clerk uses the standard base64
// alphabet without padding.
var noPadStd = base64.StdEncoding.WithPadding(base64.NoPadding)

// ParsePublishableKey extracts the frontend API domain from a Clerk
// publishable key. The key has the form pk_test_<payload> or
// pk_live_<payload>, where payload is the base64-encoded domain followed by
// a trailing '$' delimiter. The decoded domain carries its own trailing '$'
// which is stripped as well.
func ParsePublishableKey(key string) (string, error) {
	parts := strings.Split(key, "_")
	if len(parts) < 3 {
		return "", fmt.Errorf("%w: expected pk_<env>_<payload>", ErrInvalidKeyFormat)
	}

	// The trailing $ is a delimiter, not base64
	encoded := strings.TrimRight(parts[2], "$")

	decoded, err := noPadStd.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyEncoding, err)
	}
	if !utf8.Valid(decoded) {
		return "", fmt.Errorf("%w: decoded domain is not valid UTF-8", ErrKeyEncoding)
	}

	domain := strings.TrimRight(string(decoded), "$")
	if domain == "" {
		return "", fmt.Errorf("%w: empty domain", ErrInvalidKeyFormat)
	}

	return domain, nil
}

// JWKSURL returns the well-known JWKS endpoint for a frontend API domain.
func JWKSURL(domain string) string {
	return fmt.Sprintf("https://%s/.well-known/jwks.json", domain)
}
