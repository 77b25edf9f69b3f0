package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cynnycty/backend/pkg/arcade"
)

// timeLayout matches ArcadeDB's default datetime format.
const timeLayout = "2006-01-02 15:04:05"

// ArcadeProfileRepository implements ProfileRepository against ArcadeDB's
// HTTP command API. All values travel as command parameters.
type ArcadeProfileRepository struct {
	client *arcade.Client
}

// NewArcadeProfileRepository creates a new ArcadeDB-backed profile repository
func NewArcadeProfileRepository(client *arcade.Client) *ArcadeProfileRepository {
	return &ArcadeProfileRepository{
		client: client,
	}
}

// GetByClerkID implements ProfileRepository.GetByClerkID
func (r *ArcadeProfileRepository) GetByClerkID(ctx context.Context, clerkID string) (Profile, error) {
	rows, err := r.client.Query(ctx,
		"SELECT FROM Profile WHERE clerkId = :clerkId",
		map[string]any{"clerkId": clerkID})
	if err != nil {
		return Profile{}, fmt.Errorf("failed to query profile: %w", err)
	}
	if len(rows) == 0 {
		return Profile{}, fmt.Errorf("%w: clerkId %q", ErrProfileNotFound, clerkID)
	}
	return rowToProfile(rows[0])
}

// GetByUserID implements ProfileRepository.GetByUserID
func (r *ArcadeProfileRepository) GetByUserID(ctx context.Context, userID string) (Profile, error) {
	rows, err := r.client.Query(ctx,
		"SELECT FROM Profile WHERE userId = :userId",
		map[string]any{"userId": userID})
	if err != nil {
		return Profile{}, fmt.Errorf("failed to query profile: %w", err)
	}
	if len(rows) == 0 {
		return Profile{}, fmt.Errorf("%w: userId %q", ErrProfileNotFound, userID)
	}
	return rowToProfile(rows[0])
}

// Create implements ProfileRepository.Create. A unique-index violation on
// clerkId surfaces as ErrDuplicateProfile.
func (r *ArcadeProfileRepository) Create(ctx context.Context, profile Profile) error {
	_, err := r.client.Command(ctx,
		"INSERT INTO Profile SET userId = :userId, clerkId = :clerkId, displayName = :displayName, "+
			"email = :email, aboutMe = :aboutMe, avatarUrl = :avatarUrl, createdAt = :createdAt, updatedAt = :updatedAt",
		map[string]any{
			"userId":      profile.UserID,
			"clerkId":     profile.ClerkID,
			"displayName": profile.DisplayName,
			"email":       profile.Email,
			"aboutMe":     profile.AboutMe,
			"avatarUrl":   profile.AvatarURL,
			"createdAt":   profile.CreatedAt.UTC().Format(timeLayout),
			"updatedAt":   profile.UpdatedAt.UTC().Format(timeLayout),
		})
	if err != nil {
		if errors.Is(err, arcade.ErrDuplicateKey) {
			return fmt.Errorf("%w: clerkId %q", ErrDuplicateProfile, profile.ClerkID)
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// Update implements ProfileRepository.Update. The SET clause is assembled
// from fixed column literals; values are always bound through params.
func (r *ArcadeProfileRepository) Update(ctx context.Context, userID string, params UpdateProfileParams) error {
	set := make([]string, 0, 4)
	bound := map[string]any{"userId": userID}

	if params.DisplayName != nil {
		set = append(set, "displayName = :displayName")
		bound["displayName"] = *params.DisplayName
	}
	if params.AboutMe != nil {
		set = append(set, "aboutMe = :aboutMe")
		bound["aboutMe"] = *params.AboutMe
	}
	if params.AvatarURL != nil {
		set = append(set, "avatarUrl = :avatarUrl")
		bound["avatarUrl"] = *params.AvatarURL
	}
	set = append(set, "updatedAt = :updatedAt")
	bound["updatedAt"] = time.Now().UTC().Format(timeLayout)

	rows, err := r.client.Command(ctx,
		"UPDATE Profile SET "+strings.Join(set, ", ")+" WHERE userId = :userId",
		bound)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if updateCount(rows) == 0 {
		return fmt.Errorf("%w: userId %q", ErrProfileNotFound, userID)
	}
	return nil
}

// updateCount extracts the affected-record count an UPDATE reports.
func updateCount(rows []map[string]any) int {
	if len(rows) == 0 {
		return 0
	}
	if count, ok := rows[0]["count"].(float64); ok {
		return int(count)
	}
	// Some versions return the updated records themselves
	return len(rows)
}

// rowToProfile maps a result row onto a Profile.
func rowToProfile(row map[string]any) (Profile, error) {
	var record struct {
		UserID      string `json:"userId"`
		ClerkID     string `json:"clerkId"`
		DisplayName string `json:"displayName"`
		Email       string `json:"email"`
		AboutMe     string `json:"aboutMe"`
		AvatarURL   string `json:"avatarUrl"`
		CreatedAt   any    `json:"createdAt"`
		UpdatedAt   any    `json:"updatedAt"`
	}

	data, err := json.Marshal(row)
	if err == nil {
		err = json.Unmarshal(data, &record)
	}
	if err != nil {
		return Profile{}, fmt.Errorf("failed to decode profile row: %w", err)
	}
	if record.UserID == "" {
		return Profile{}, fmt.Errorf("profile row missing userId")
	}

	return Profile{
		UserID:      record.UserID,
		ClerkID:     record.ClerkID,
		DisplayName: record.DisplayName,
		Email:       record.Email,
		AboutMe:     record.AboutMe,
		AvatarURL:   record.AvatarURL,
		CreatedAt:   parseTime(record.CreatedAt),
		UpdatedAt:   parseTime(record.UpdatedAt),
	}, nil
}

// parseTime tolerates the datetime shapes ArcadeDB serializes: its default
// string format, RFC 3339, or epoch milliseconds.
func parseTime(value any) time.Time {
	switch v := value.(type) {
	case string:
		if t, err := time.Parse(timeLayout, v); err == nil {
			return t
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	case float64:
		return time.UnixMilli(int64(v)).UTC()
	}
	return time.Time{}
}
