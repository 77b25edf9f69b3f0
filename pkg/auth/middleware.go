package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cynnycty/backend/pkg/clerk"
)

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(tokenString string) (*clerk.Claims, error)
}

// IdentityResolver maps a verified external subject id to a local identity,
// creating one on first contact.
type IdentityResolver interface {
	ResolveAuthUser(ctx context.Context, clerkID, email, name string) (AuthUser, error)
}

// IdentityResolverFunc adapts a function to the IdentityResolver interface.
type IdentityResolverFunc func(ctx context.Context, clerkID, email, name string) (AuthUser, error)

func (f IdentityResolverFunc) ResolveAuthUser(ctx context.Context, clerkID, email, name string) (AuthUser, error) {
	return f(ctx, clerkID, email, name)
}

// Middleware authenticates each request: it extracts the bearer token,
// verifies it, resolves the local identity, and attaches the result to the
// request context. Every verification failure answers a uniform 401 so the
// caller cannot tell which step rejected the token; store failures answer
// 500. Details go to the log only.
func Middleware(verifier TokenVerifier, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				slog.Error("Token verification failed", "err", err)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			authUser, err := resolver.ResolveAuthUser(r.Context(), claims.Subject, claims.Email, claims.Name)
			if err != nil {
				slog.Error("Failed to resolve identity", "clerk_id", claims.Subject, "err", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			// Claims carry fresher hints than the stored record
			if claims.Name != "" {
				authUser.DisplayName = claims.Name
			}
			if claims.Email != "" {
				authUser.Email = claims.Email
			}

			slog.Debug("Authenticated user", "user", authUser)

			ctx := NewContext(r.Context(), &authUser)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}
