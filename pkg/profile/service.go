package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cynnycty/backend/pkg/auth"
)

const (
	// defaultDisplayName is used when a first-contact token carries no name
	defaultDisplayName = "User"

	// resolveMaxAttempts bounds the lookup/create loop. One lost race means
	// the winner's row is already visible, so a second pass suffices; the
	// extra attempt absorbs a concurrent delete-and-recreate.
	resolveMaxAttempts = 3
)

// ProfileService provides profile resolution and editing on top of a
// ProfileRepository.
type ProfileService struct {
	repository ProfileRepository
}

// NewProfileService creates a new ProfileService
func NewProfileService(repository ProfileRepository) *ProfileService {
	return &ProfileService{
		repository: repository,
	}
}

// ResolveIdentity returns the profile for the given external subject id,
// creating one on first contact. Concurrent first-time requests may both
// attempt the create; the store's unique index on clerkId lets exactly one
// win, and the loser retries the lookup instead of failing. The email hint
// enriches the returned value in memory but is not written back.
func (s *ProfileService) ResolveIdentity(ctx context.Context, clerkID, email, name string) (Profile, error) {
	for attempt := 0; attempt < resolveMaxAttempts; attempt++ {
		found, err := s.repository.GetByClerkID(ctx, clerkID)
		if err == nil {
			if found.Email == "" && email != "" {
				found.Email = email
			}
			return found, nil
		}
		if !errors.Is(err, ErrProfileNotFound) {
			return Profile{}, fmt.Errorf("failed to look up profile: %w", err)
		}

		displayName := name
		if displayName == "" {
			displayName = defaultDisplayName
		}
		now := time.Now().UTC()
		created := Profile{
			UserID:      uuid.New().String(),
			ClerkID:     clerkID,
			DisplayName: displayName,
			Email:       email,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		err = s.repository.Create(ctx, created)
		if err == nil {
			slog.Info("Created new profile", "userId", created.UserID, "clerkId", clerkID)
			return created, nil
		}
		if errors.Is(err, ErrDuplicateProfile) {
			// Lost the first-contact race; the winner's row is now visible
			slog.Debug("Profile create lost race, retrying lookup", "clerkId", clerkID)
			continue
		}
		return Profile{}, fmt.Errorf("failed to create profile: %w", err)
	}

	return Profile{}, fmt.Errorf("profile resolution for clerkId %q did not converge", clerkID)
}

// ResolveAuthUser adapts ResolveIdentity to the auth middleware's resolver
// interface.
func (s *ProfileService) ResolveAuthUser(ctx context.Context, clerkID, email, name string) (auth.AuthUser, error) {
	resolved, err := s.ResolveIdentity(ctx, clerkID, email, name)
	if err != nil {
		return auth.AuthUser{}, err
	}

	authUser := auth.AuthUser{
		UserID:      resolved.UserID,
		ClerkID:     resolved.ClerkID,
		DisplayName: resolved.DisplayName,
		Email:       resolved.Email,
	}
	userUUID, err := uuid.Parse(resolved.UserID)
	if err != nil {
		slog.Warn("Profile userId is not a UUID", "userId", resolved.UserID, "err", err)
	} else {
		authUser.UserUuid = userUUID
	}
	return authUser, nil
}

// GetProfile returns the profile with the given internal id.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (Profile, error) {
	return s.repository.GetByUserID(ctx, userID)
}

// ErrNoFieldsToUpdate is returned by UpdateProfile when no editable field
// is supplied.
var ErrNoFieldsToUpdate = errors.New("no fields to update")

// UpdateProfile applies field-level edits to the profile with the given
// internal id.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, params UpdateProfileParams) error {
	if params.Empty() {
		return ErrNoFieldsToUpdate
	}

	if err := s.repository.Update(ctx, userID, params); err != nil {
		slog.Error("Failed to update profile", "userId", userID, "err", err)
		return err
	}
	return nil
}
