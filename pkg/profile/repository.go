package profile

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrProfileNotFound = errors.New("profile not found")

	// ErrDuplicateProfile is returned by Create when another profile already
	// holds the clerkId. Callers treat it as a lost first-contact race, not a
	// fault.
	ErrDuplicateProfile = errors.New("profile already exists")
)

// ProfileRepository defines the interface for profile storage operations
type ProfileRepository interface {
	// GetByClerkID retrieves a profile by its external subject id
	GetByClerkID(ctx context.Context, clerkID string) (Profile, error)

	// GetByUserID retrieves a profile by its internal id
	GetByUserID(ctx context.Context, userID string) (Profile, error)

	// Create inserts a new profile. Returns ErrDuplicateProfile when the
	// clerkId unique constraint is violated.
	Create(ctx context.Context, profile Profile) error

	// Update applies field-level edits to the profile with the given
	// internal id
	Update(ctx context.Context, userID string, params UpdateProfileParams) error
}
