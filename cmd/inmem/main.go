// Package main runs the backend without ArcadeDB or a Clerk instance:
// profiles live in memory and tokens are signed with a locally generated
// RSA key. Useful for frontend development and API exploration; all data
// is lost when the server stops.
package main

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"
	"github.com/tendant/chi-demo/app"

	"github.com/cynnycty/backend/pkg/auth"
	"github.com/cynnycty/backend/pkg/clerk"
	"github.com/cynnycty/backend/pkg/profile"
)

const devKid = "dev-key-1"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting in-memory backend (no database or Clerk instance required)")

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		slog.Error("Failed generating dev signing key", "err", err)
		os.Exit(-1)
	}

	keyRing, err := clerk.NewKeyRing(clerk.JWKS{Keys: []clerk.JWK{devJWK(&privateKey.PublicKey)}})
	if err != nil {
		slog.Error("Failed building key ring", "err", err)
		os.Exit(-1)
	}

	verifier := clerk.NewVerifier(keyRing)
	profileService := profile.NewProfileService(profile.NewInMemoryProfileRepository())
	profileHandle := profile.NewHandle(profileService)

	server := app.DefaultApp()
	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	server.R.Get("/api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, http.StatusText(http.StatusOK))
	})

	server.R.Group(func(r chi.Router) {
		r.Use(auth.Middleware(verifier, profileService))
		r.Route("/api/v1", func(r chi.Router) {
			profile.Routes(r, profileHandle)
		})
	})

	token, err := signDevToken(privateKey)
	if err != nil {
		slog.Error("Failed signing dev token", "err", err)
		os.Exit(-1)
	}
	slog.Info("Dev bearer token (valid 24h)", "token", token)
	slog.Info("Try: curl -H 'Authorization: Bearer <token>' http://localhost:8080/api/v1/profiles/me")

	server.Run()
}

func devJWK(publicKey *rsa.PublicKey) clerk.JWK {
	return clerk.JWK{
		Kid: devKid,
		Kty: "RSA",
		Alg: "RS256",
		Use: "sig",
		N:   base64.RawURLEncoding.EncodeToString(publicKey.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(publicKey.E)).Bytes()),
	}
}

func signDevToken(privateKey *rsa.PrivateKey) (string, error) {
	claims := &clerk.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_dev_1",
			Issuer:    "http://localhost:8080",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
		AuthorizedParty: "http://localhost:8080",
		Email:           "dev@example.com",
		Name:            "Dev User",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = devKid
	return token.SignedString(privateKey)
}
