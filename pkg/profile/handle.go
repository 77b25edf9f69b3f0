package profile

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/jinzhu/copier"

	"github.com/cynnycty/backend/pkg/auth"
)

type Handle struct {
	profileService *ProfileService
}

func NewHandle(profileService *ProfileService) Handle {
	return Handle{
		profileService: profileService,
	}
}

type ProfileResponse struct {
	UserID      string `json:"user_id"`
	ClerkID     string `json:"clerk_id"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
	AboutMe     string `json:"about_me,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	AboutMe     *string `json:"about_me"`
	AvatarURL   *string `json:"avatar_url"`
}

type UpdateProfileResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Get current user's profile
// (GET /profiles/me)
func (h Handle) GetCurrentProfile(w http.ResponseWriter, r *http.Request) {
	authUser, ok := auth.FromContext(r.Context())
	if !ok {
		slog.Error("Failed getting AuthUser", "ok", ok)
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	stored, err := h.profileService.GetProfile(r.Context(), authUser.UserID)
	if err != nil {
		slog.Error("Failed getting profile", "user", authUser, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	response := ProfileResponse{}
	copier.Copy(&response, &stored)
	if response.Email == "" {
		response.Email = authUser.Email
	}
	render.JSON(w, r, response)
}

// Update current user's profile
// (PUT /profiles/me)
func (h Handle) UpdateCurrentProfile(w http.ResponseWriter, r *http.Request) {
	authUser, ok := auth.FromContext(r.Context())
	if !ok {
		slog.Error("Failed getting AuthUser", "ok", ok)
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var data UpdateProfileRequest
	if err := render.DecodeJSON(r.Body, &data); err != nil {
		slog.Error("Failed to decode request body", "err", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, UpdateProfileResponse{Success: false, Message: "Invalid request body"})
		return
	}

	params := UpdateProfileParams{}
	copier.Copy(&params, &data)

	err := h.profileService.UpdateProfile(r.Context(), authUser.UserID, params)
	switch {
	case errors.Is(err, ErrNoFieldsToUpdate):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, UpdateProfileResponse{Success: false, Message: "No fields to update"})
	case errors.Is(err, ErrProfileNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, UpdateProfileResponse{Success: false, Message: "Profile not found"})
	case err != nil:
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, UpdateProfileResponse{Success: false, Message: "Failed to update profile"})
	default:
		render.JSON(w, r, UpdateProfileResponse{Success: true, Message: "Profile updated successfully"})
	}
}

// Routes mounts the profile endpoints.
func Routes(r chi.Router, handle Handle) {
	r.Get("/profiles/me", handle.GetCurrentProfile)
	r.Put("/profiles/me", handle.UpdateCurrentProfile)
}
