package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/tendant/chi-demo/app"

	"github.com/cynnycty/backend/pkg/arcade"
	"github.com/cynnycty/backend/pkg/auth"
	"github.com/cynnycty/backend/pkg/bootstrap"
	"github.com/cynnycty/backend/pkg/clerk"
	"github.com/cynnycty/backend/pkg/profile"
)

type ClerkConfig struct {
	PublishableKey string `env:"CLERK_PUBLISHABLE_KEY" env-required:"true"`
}

type Config struct {
	ClerkConfig  ClerkConfig
	ArcadeConfig arcade.Config
	AppConfig    app.AppConfig
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type DatabaseHealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Connected bool   `json:"connected"`
	Message   string `json:"message"`
}

func main() {
	config := Config{}
	if err := cleanenv.ReadEnv(&config); err != nil {
		slog.Error("Failed reading config", "err", err)
		os.Exit(-1)
	}

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	arcadeClient := arcade.New(config.ArcadeConfig)

	ctx := context.Background()
	if err := bootstrap.EnsureSchema(ctx, arcadeClient); err != nil {
		slog.Error("Failed initializing database schema", "database", arcadeClient.Database(), "err", err)
		os.Exit(-1)
	}

	domain, err := clerk.ParsePublishableKey(config.ClerkConfig.PublishableKey)
	if err != nil {
		slog.Error("Failed parsing Clerk publishable key", "err", err)
		os.Exit(-1)
	}

	jwksURL := clerk.JWKSURL(domain)
	slog.Info("Fetching JWKS", "url", jwksURL)

	// A service with no verification keys cannot authenticate anyone
	keyRing, err := clerk.FetchKeyRing(ctx, jwksURL)
	if err != nil {
		slog.Error("Failed fetching JWKS, refusing to serve", "err", err)
		os.Exit(-1)
	}
	if keyRing.Len() == 0 {
		slog.Error("JWKS endpoint returned no keys, refusing to serve", "url", jwksURL)
		os.Exit(-1)
	}

	verifier := clerk.NewVerifier(keyRing)

	profileService := profile.NewProfileService(profile.NewArcadeProfileRepository(arcadeClient))
	profileHandle := profile.NewHandle(profileService)

	server.R.Get("/api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, HealthResponse{Status: "ok", Message: "Cynnycty backend is running"})
	})

	server.R.Get("/api/v1/db/health", func(w http.ResponseWriter, r *http.Request) {
		if err := arcadeClient.HealthCheck(r.Context()); err != nil {
			slog.Error("Database health check failed", "err", err)
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, DatabaseHealthResponse{
				Status:    "error",
				Database:  arcadeClient.Database(),
				Connected: false,
				Message:   "Database connection is unhealthy",
			})
			return
		}
		render.JSON(w, r, DatabaseHealthResponse{
			Status:    "ok",
			Database:  arcadeClient.Database(),
			Connected: true,
			Message:   "Database connection is healthy",
		})
	})

	server.R.Group(func(r chi.Router) {
		r.Use(auth.Middleware(verifier, profileService))
		r.Route("/api/v1", func(r chi.Router) {
			profile.Routes(r, profileHandle)
		})
	})

	server.Run()
}
