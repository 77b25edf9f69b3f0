package profile

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// InMemoryProfileRepository implements ProfileRepository using in-memory
// storage. It enforces the same clerkId uniqueness constraint as the real
// store, which makes it usable for exercising the first-contact race in
// tests and in the inmem server variant.
type InMemoryProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]Profile // keyed by userId
	byClerk  map[string]string  // clerkId -> userId
}

// NewInMemoryProfileRepository creates a new in-memory profile repository
func NewInMemoryProfileRepository() *InMemoryProfileRepository {
	return &InMemoryProfileRepository{
		profiles: make(map[string]Profile),
		byClerk:  make(map[string]string),
	}
}

// GetByClerkID retrieves a profile by clerkId
func (r *InMemoryProfileRepository) GetByClerkID(ctx context.Context, clerkID string) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userID, ok := r.byClerk[clerkID]
	if !ok {
		return Profile{}, fmt.Errorf("%w: clerkId %q", ErrProfileNotFound, clerkID)
	}
	return r.profiles[userID], nil
}

// GetByUserID retrieves a profile by internal id
func (r *InMemoryProfileRepository) GetByUserID(ctx context.Context, userID string) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[userID]
	if !ok {
		return Profile{}, fmt.Errorf("%w: userId %q", ErrProfileNotFound, userID)
	}
	return profile, nil
}

// Create inserts a profile, enforcing uniqueness on clerkId and userId
func (r *InMemoryProfileRepository) Create(ctx context.Context, profile Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byClerk[profile.ClerkID]; exists {
		return fmt.Errorf("%w: clerkId %q", ErrDuplicateProfile, profile.ClerkID)
	}
	if _, exists := r.profiles[profile.UserID]; exists {
		return fmt.Errorf("%w: userId %q", ErrDuplicateProfile, profile.UserID)
	}

	r.profiles[profile.UserID] = profile
	r.byClerk[profile.ClerkID] = profile.UserID
	return nil
}

// Update applies field-level edits
func (r *InMemoryProfileRepository) Update(ctx context.Context, userID string, params UpdateProfileParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile, ok := r.profiles[userID]
	if !ok {
		return fmt.Errorf("%w: userId %q", ErrProfileNotFound, userID)
	}

	if params.DisplayName != nil {
		profile.DisplayName = *params.DisplayName
	}
	if params.AboutMe != nil {
		profile.AboutMe = *params.AboutMe
	}
	if params.AvatarURL != nil {
		profile.AvatarURL = *params.AvatarURL
	}
	profile.UpdatedAt = time.Now().UTC()

	r.profiles[userID] = profile
	return nil
}
