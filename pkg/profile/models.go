package profile

import "time"

// Profile is a local user record linked 1:1 to a Clerk subject.
type Profile struct {
	// UserID is the internally generated id, immutable once assigned
	UserID string `json:"userId"`
	// ClerkID is the external subject id, unique across all profiles
	ClerkID     string    `json:"clerkId"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email,omitempty"`
	AboutMe     string    `json:"aboutMe,omitempty"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UpdateProfileParams are the editable fields. Nil means leave unchanged.
type UpdateProfileParams struct {
	DisplayName *string
	AboutMe     *string
	AvatarURL   *string
}

// Empty reports whether no field is set.
func (p UpdateProfileParams) Empty() bool {
	return p.DisplayName == nil && p.AboutMe == nil && p.AvatarURL == nil
}
