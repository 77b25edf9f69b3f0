package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cynnycty/backend/pkg/auth"
)

func newTestRouter(t *testing.T, service *ProfileService, user *auth.AuthUser) *chi.Mux {
	t.Helper()
	r := chi.NewRouter()
	if user != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(auth.NewContext(req.Context(), user)))
			})
		})
	}
	Routes(r, NewHandle(service))
	return r
}

func seedProfile(t *testing.T, service *ProfileService) Profile {
	t.Helper()
	resolved, err := service.ResolveIdentity(context.Background(), "ext-42", "", "Ada")
	require.NoError(t, err)
	return resolved
}

func TestGetCurrentProfile(t *testing.T) {
	t.Run("ReturnsStoredProfile", func(t *testing.T) {
		service := NewProfileService(NewInMemoryProfileRepository())
		seeded := seedProfile(t, service)
		router := newTestRouter(t, service, &auth.AuthUser{
			UserID:  seeded.UserID,
			ClerkID: "ext-42",
			Email:   "ada@example.com",
		})

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/profiles/me", nil))
		require.Equal(t, http.StatusOK, recorder.Code)

		var response ProfileResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, seeded.UserID, response.UserID)
		assert.Equal(t, "ext-42", response.ClerkID)
		assert.Equal(t, "Ada", response.DisplayName)
		// Store has no email; the authentication-time hint fills the gap
		assert.Equal(t, "ada@example.com", response.Email)
	})

	t.Run("NoIdentityAttached", func(t *testing.T) {
		service := NewProfileService(NewInMemoryProfileRepository())
		router := newTestRouter(t, service, nil)

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/profiles/me", nil))
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestUpdateCurrentProfile(t *testing.T) {
	t.Run("UpdatesFields", func(t *testing.T) {
		service := NewProfileService(NewInMemoryProfileRepository())
		seeded := seedProfile(t, service)
		router := newTestRouter(t, service, &auth.AuthUser{UserID: seeded.UserID, ClerkID: "ext-42"})

		body := `{"display_name":"Countess","about_me":"Mathematics"}`
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPut, "/profiles/me", strings.NewReader(body)))
		require.Equal(t, http.StatusOK, recorder.Code)

		var response UpdateProfileResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.True(t, response.Success)

		updated, err := service.GetProfile(context.Background(), seeded.UserID)
		require.NoError(t, err)
		assert.Equal(t, "Countess", updated.DisplayName)
		assert.Equal(t, "Mathematics", updated.AboutMe)
	})

	t.Run("NoFields", func(t *testing.T) {
		service := NewProfileService(NewInMemoryProfileRepository())
		seeded := seedProfile(t, service)
		router := newTestRouter(t, service, &auth.AuthUser{UserID: seeded.UserID, ClerkID: "ext-42"})

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPut, "/profiles/me", strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("BadBody", func(t *testing.T) {
		service := NewProfileService(NewInMemoryProfileRepository())
		seeded := seedProfile(t, service)
		router := newTestRouter(t, service, &auth.AuthUser{UserID: seeded.UserID, ClerkID: "ext-42"})

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPut, "/profiles/me", strings.NewReader(`{not json`)))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
