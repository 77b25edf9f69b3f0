package clerk

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePublishableKey(t *testing.T) {
	t.Run("DecodesDomain", func(t *testing.T) {
		// base64("hello-world$") without padding, trailing $ delimiter
		domain, err := ParsePublishableKey("pk_test_aGVsbG8td29ybGQk$")
		require.NoError(t, err)
		assert.Equal(t, "hello-world", domain)
	})

	t.Run("LiveKey", func(t *testing.T) {
		encoded := base64.StdEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte("clerk.example.com$"))
		domain, err := ParsePublishableKey("pk_live_" + encoded + "$")
		require.NoError(t, err)
		assert.Equal(t, "clerk.example.com", domain)
	})

	t.Run("NoTrailingDelimiter", func(t *testing.T) {
		encoded := base64.StdEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte("clerk.example.com"))
		domain, err := ParsePublishableKey("pk_test_" + encoded)
		require.NoError(t, err)
		assert.Equal(t, "clerk.example.com", domain)
	})

	t.Run("TooFewSegments", func(t *testing.T) {
		_, err := ParsePublishableKey("pk_test")
		assert.ErrorIs(t, err, ErrInvalidKeyFormat)

		_, err = ParsePublishableKey("")
		assert.ErrorIs(t, err, ErrInvalidKeyFormat)
	})

	t.Run("InvalidBase64", func(t *testing.T) {
		_, err := ParsePublishableKey("pk_test_!!!not-base64!!!")
		assert.ErrorIs(t, err, ErrKeyEncoding)
	})

	t.Run("InvalidUTF8", func(t *testing.T) {
		encoded := base64.StdEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte{0xff, 0xfe, 0xfd})
		_, err := ParsePublishableKey("pk_test_" + encoded)
		assert.ErrorIs(t, err, ErrKeyEncoding)
	})

	t.Run("EmptyPayload", func(t *testing.T) {
		_, err := ParsePublishableKey("pk_test_$")
		assert.ErrorIs(t, err, ErrInvalidKeyFormat)
	})
}

func TestJWKSURL(t *testing.T) {
	assert.Equal(t, "https://hello-world/.well-known/jwks.json", JWKSURL("hello-world"))
}
