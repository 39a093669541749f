package dto

import "github.com/noah-isme/campus-paws-api/internal/models"

// ProfileResponse is the signed-in user's own profile.
type ProfileResponse struct {
	User               models.User                   `json:"user"`
	Rank               *int                          `json:"rank"`
	CanParticipate     bool                          `json:"can_participate"`
	RecentInteractions []models.InteractionWithNames `json:"recent_interactions"`
	UsernameCooldown   models.CooldownStatus         `json:"username_cooldown"`
	BirthdateCooldown  models.CooldownStatus         `json:"birthdate_cooldown"`
}

// PreviewURL is a short lived link to a pending object.
type PreviewURL struct {
	URL       string `json:"url"`
	ExpiresAt int64  `json:"expires_at"`
}

// PendingImage is a gallery image in the moderation queue with its preview link.
type PendingImage struct {
	models.GalleryImageWithUploader
	Preview PreviewURL `json:"preview"`
}

// ModerationQueue lists everything awaiting a moderator.
type ModerationQueue struct {
	Counts    models.ModerationQueueCounts `json:"counts"`
	Dogs      []models.Dog                 `json:"dogs"`
	Images    []PendingImage               `json:"images"`
	Usernames []models.UsernameRequest     `json:"usernames"`
	Avatars   []models.User                `json:"avatars"`
}
