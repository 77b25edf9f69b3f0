package clerk

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformedToken is returned when the token cannot be parsed at all
	ErrMalformedToken = errors.New("malformed token")

	// ErrMissingKeyID is returned when the token header carries no kid
	ErrMissingKeyID = errors.New("token missing kid header")

	// ErrSignatureInvalid is returned when the signature does not verify or
	// the header claims an algorithm other than RS256
	ErrSignatureInvalid = errors.New("token signature invalid")

	// ErrTokenExpired is returned when the token is past its exp claim
	ErrTokenExpired = errors.New("token expired")

	// ErrClaimDecode is returned when the verified payload does not have the
	// expected claim shape
	ErrClaimDecode = errors.New("failed to decode token claims")
)

// Claims are the verified contents of a Clerk session token. They are only
// ever produced by Verifier.Verify; an unverified token never reaches this
// shape.
type Claims struct {
	jwt.RegisteredClaims

	AuthorizedParty string `json:"azp,omitempty"`
	Email           string `json:"email,omitempty"`
	EmailVerified   bool   `json:"email_verified,omitempty"`
	Name            string `json:"name,omitempty"`
	GivenName       string `json:"given_name,omitempty"`
	FamilyName      string `json:"family_name,omitempty"`
}

// Verifier validates Clerk session tokens against a key ring.
type Verifier struct {
	keyRing  *KeyRing
	timeFunc func() time.Time
}

// VerifierOption customizes a Verifier.
type VerifierOption func(*Verifier)

// WithTimeFunc overrides the clock used for expiry validation.
func WithTimeFunc(timeFunc func() time.Time) VerifierOption {
	return func(v *Verifier) {
		v.timeFunc = timeFunc
	}
}

// NewVerifier creates a Verifier backed by the given key ring.
func NewVerifier(keyRing *KeyRing, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		keyRing:  keyRing,
		timeFunc: time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify checks the token's signature and expiry and returns its claims.
// It has no side effects: the result depends only on the token, the key
// ring, and the clock.
//
// Audience is not validated. Clerk session tokens do not populate a
// conventional aud claim; the authorized party is surfaced as azp instead.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, v.resolveKey,
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.timeFunc),
	)
	if err != nil {
		return nil, classifyTokenError(err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrClaimDecode)
	}

	return claims, nil
}

// resolveKey is the jwt keyfunc: it selects the verification key by the kid
// header. The algorithm has already been checked against RS256 by the time
// this runs.
func (v *Verifier) resolveKey(token *jwt.Token) (interface{}, error) {
	kid, ok := token.Header["kid"].(string)
	if !ok || kid == "" {
		return nil, ErrMissingKeyID
	}
	return v.keyRing.Lookup(kid)
}

// classifyTokenError maps jwt/v5 parse errors onto this package's error
// taxonomy. Keyfunc errors pass through so callers can distinguish an
// unknown kid from a bad signature.
func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, ErrMissingKeyID) || errors.Is(err, ErrUnknownKeyID):
		return err
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	default:
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
}
