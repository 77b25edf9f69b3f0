package clerk

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

var (
	// ErrKeyFetch is returned when the JWKS endpoint cannot be reached or
	// answers with a non-200 status
	ErrKeyFetch = errors.New("failed to fetch JWKS")

	// ErrKeyParse is returned when the JWKS document is malformed or contains
	// invalid key components
	ErrKeyParse = errors.New("failed to parse JWKS")

	// ErrUnknownKeyID is returned when a token references a kid that is not in
	// the key ring
	ErrUnknownKeyID = errors.New("unknown key id")
)

// JWKS is the JSON Web Key Set document served at the well-known endpoint.
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// JWK is a single RSA public key entry as defined in RFC 7517.
type JWK struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg,omitempty"`
	Use string `json:"use,omitempty"`

	// RSA modulus and exponent, base64url encoded
	N string `json:"n"`
	E string `json:"e"`
}

// KeyRing holds the verification keys indexed by kid. It is populated once
// by FetchKeyRing and never mutated afterwards, so concurrent lookups need
// no locking.
type KeyRing struct {
	keys map[string]*rsa.PublicKey
}

// Lookup returns the verification key for kid, or ErrUnknownKeyID.
func (kr *KeyRing) Lookup(kid string) (*rsa.PublicKey, error) {
	key, ok := kr.keys[kid]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKeyID, kid)
	}
	return key, nil
}

// Len returns the number of keys in the ring.
func (kr *KeyRing) Len() int {
	return len(kr.keys)
}

type fetchOptions struct {
	timeout  time.Duration
	retryMax int
}

// FetchOption customizes FetchKeyRing.
type FetchOption func(*fetchOptions)

// WithTimeout bounds each HTTP attempt against the JWKS endpoint.
func WithTimeout(timeout time.Duration) FetchOption {
	return func(o *fetchOptions) {
		o.timeout = timeout
	}
}

// WithRetryMax sets how many times a failed fetch is retried.
func WithRetryMax(retryMax int) FetchOption {
	return func(o *fetchOptions) {
		o.retryMax = retryMax
	}
}

// FetchKeyRing performs a one-shot GET against the JWKS endpoint and builds
// an immutable key ring from the response. Transient transport failures are
// retried with backoff; a ring is never built from a partial document.
func FetchKeyRing(ctx context.Context, jwksURL string, opts ...FetchOption) (*KeyRing, error) {
	options := fetchOptions{
		timeout:  10 * time.Second,
		retryMax: 3,
	}
	for _, opt := range opts {
		opt(&options)
	}

	client := retryablehttp.NewClient()
	client.RetryMax = options.retryMax
	client.HTTPClient.Timeout = options.timeout
	client.Logger = nil

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, jwksURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFetch, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrKeyFetch, resp.StatusCode)
	}

	var jwks JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyParse, err)
	}

	return NewKeyRing(jwks)
}

// NewKeyRing builds a key ring from an already-parsed JWKS document.
func NewKeyRing(jwks JWKS) (*KeyRing, error) {
	keys := make(map[string]*rsa.PublicKey, len(jwks.Keys))
	for _, jwk := range jwks.Keys {
		publicKey, err := jwk.PublicKey()
		if err != nil {
			return nil, err
		}
		keys[jwk.Kid] = publicKey
	}

	slog.Info("Loaded JWKS keys", "count", len(keys))
	return &KeyRing{keys: keys}, nil
}

// PublicKey decodes the modulus and exponent into an rsa.PublicKey.
func (j JWK) PublicKey() (*rsa.PublicKey, error) {
	if j.Kid == "" {
		return nil, fmt.Errorf("%w: key entry missing kid", ErrKeyParse)
	}

	nBytes, err := base64.RawURLEncoding.DecodeString(j.N)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid modulus for kid %q: %v", ErrKeyParse, j.Kid, err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(j.E)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid exponent for kid %q: %v", ErrKeyParse, j.Kid, err)
	}
	if len(nBytes) == 0 || len(eBytes) == 0 {
		return nil, fmt.Errorf("%w: empty key components for kid %q", ErrKeyParse, j.Kid)
	}

	e := 0
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: e,
	}, nil
}
