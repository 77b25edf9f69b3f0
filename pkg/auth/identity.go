package auth

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// AuthUser is the resolved identity attached to each authenticated request:
// the durable internal id joined with the authentication-time hints carried
// by the token.
type AuthUser struct {
	// UserID is the internal id from the Profile record
	UserID string `json:"user_id"`
	// UserUuid is UserID parsed as a uuid.UUID, convenient for callers
	UserUuid uuid.UUID `json:"-"`
	// ClerkID is the external subject id issued by Clerk
	ClerkID     string `json:"clerk_id"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
}

// LogValue keeps emails out of logs.
func (u AuthUser) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("user_id", u.UserID),
		slog.String("clerk_id", u.ClerkID),
	)
}

// contextKey is a value for use with context.WithValue. It's used as
// a pointer so it fits in an interface{} without allocation.
type contextKey struct {
	name string
}

func (k *contextKey) String() string {
	return "auth context value " + k.name
}

// AuthUserKey is the context key under which the middleware stores the
// resolved identity.
var AuthUserKey = &contextKey{"AuthUser"}

// NewContext returns a copy of ctx carrying the resolved identity.
func NewContext(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, AuthUserKey, user)
}

// FromContext returns the resolved identity attached by the middleware.
func FromContext(ctx context.Context) (*AuthUser, bool) {
	user, ok := ctx.Value(AuthUserKey).(*AuthUser)
	return user, ok
}
