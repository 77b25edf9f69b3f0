package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cynnycty/backend/pkg/clerk"
)

type stubVerifier struct {
	claims *clerk.Claims
	err    error
}

func (v stubVerifier) Verify(tokenString string) (*clerk.Claims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func okVerifier(sub, email, name string) stubVerifier {
	return stubVerifier{claims: &clerk.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: sub},
		Email:            email,
		Name:             name,
	}}
}

func okResolver(user AuthUser) IdentityResolverFunc {
	return func(ctx context.Context, clerkID, email, name string) (AuthUser, error) {
		return user, nil
	}
}

// serve runs one request through the middleware and captures the AuthUser
// the downstream handler sees.
func serve(t *testing.T, verifier TokenVerifier, resolver IdentityResolver, authorization string) (*httptest.ResponseRecorder, *AuthUser) {
	t.Helper()

	var seen *AuthUser
	handler := Middleware(verifier, resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := FromContext(r.Context())
		require.True(t, ok, "identity must be attached once authorized")
		seen = user
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles/me", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder, seen
}

func TestMiddleware(t *testing.T) {
	resolver := okResolver(AuthUser{UserID: "U1", ClerkID: "ext-42", DisplayName: "Stored Name"})

	t.Run("Authorized", func(t *testing.T) {
		recorder, seen := serve(t, okVerifier("ext-42", "", ""), resolver, "Bearer token")
		assert.Equal(t, http.StatusOK, recorder.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "U1", seen.UserID)
		assert.Equal(t, "ext-42", seen.ClerkID)
		assert.Equal(t, "Stored Name", seen.DisplayName)
	})

	t.Run("ClaimHintsOverlayStoredRecord", func(t *testing.T) {
		recorder, seen := serve(t, okVerifier("ext-42", "fresh@example.com", "Fresh Name"), resolver, "Bearer token")
		assert.Equal(t, http.StatusOK, recorder.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "Fresh Name", seen.DisplayName)
		assert.Equal(t, "fresh@example.com", seen.Email)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		recorder, seen := serve(t, okVerifier("ext-42", "", ""), resolver, "")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Nil(t, seen)
	})

	t.Run("NotBearer", func(t *testing.T) {
		recorder, _ := serve(t, okVerifier("ext-42", "", ""), resolver, "Basic dXNlcjpwYXNz")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)

		recorder, _ = serve(t, okVerifier("ext-42", "", ""), resolver, "bearer token")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)

		recorder, _ = serve(t, okVerifier("ext-42", "", ""), resolver, "Bearer ")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("VerifierFailuresAreUniform401", func(t *testing.T) {
		for _, verifyErr := range []error{
			clerk.ErrMalformedToken,
			clerk.ErrMissingKeyID,
			clerk.ErrUnknownKeyID,
			clerk.ErrSignatureInvalid,
			clerk.ErrTokenExpired,
			clerk.ErrClaimDecode,
		} {
			recorder, seen := serve(t, stubVerifier{err: verifyErr}, resolver, "Bearer token")
			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.Equal(t, http.StatusText(http.StatusUnauthorized)+"\n", recorder.Body.String(),
				"body must not leak which step rejected the token")
			assert.Nil(t, seen)
		}
	})

	t.Run("ResolverFailureIs500", func(t *testing.T) {
		failing := IdentityResolverFunc(func(ctx context.Context, clerkID, email, name string) (AuthUser, error) {
			return AuthUser{}, errors.New("store unreachable")
		})
		recorder, seen := serve(t, okVerifier("ext-42", "", ""), failing, "Bearer token")
		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.Nil(t, seen)
	})
}

func TestFromContext(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		user := &AuthUser{UserID: "U1"}
		ctx := NewContext(context.Background(), user)

		got, ok := FromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, user, got)
	})

	t.Run("Absent", func(t *testing.T) {
		_, ok := FromContext(context.Background())
		assert.False(t, ok)
	})
}
