package models

import (
	"strings"
	"time"
)

// InteractionType enumerates the caring actions a participant can log.
type InteractionType string

const (
	InteractionFeeding        InteractionType = "feeding"
	InteractionPetting        InteractionType = "petting"
	InteractionLocationUpdate InteractionType = "location_update"
)

// ParseInteractionType accepts the canonical names and the short client aliases.
func ParseInteractionType(raw string) (InteractionType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "feeding", "feed":
		return InteractionFeeding, true
	case "petting", "pet":
		return InteractionPetting, true
	case "location_update", "location", "spotted":
		return InteractionLocationUpdate, true
	}
	return "", false
}

// DogInteraction is an immutable caring event.
type DogInteraction struct {
	ID              string          `db:"id" json:"id"`
	DogID           string          `db:"dog_id" json:"dog_id"`
	UserID          string          `db:"user_id" json:"user_id"`
	InteractionType InteractionType `db:"interaction_type" json:"interaction_type"`
	MoodRating      *int            `db:"mood_rating" json:"mood_rating,omitempty"`
	Latitude        *float64        `db:"latitude" json:"latitude,omitempty"`
	Longitude       *float64        `db:"longitude" json:"longitude,omitempty"`
	PointsAwarded   int             `db:"points_awarded" json:"points_awarded"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// InteractionWithNames joins an interaction with the dog and actor display names.
type InteractionWithNames struct {
	DogInteraction
	DogName  *string `db:"dog_name" json:"dog_name,omitempty"`
	Username *string `db:"username" json:"username,omitempty"`
}

// LogInteractionRequest records feeding, petting or a location sighting.
type LogInteractionRequest struct {
	Type       string   `json:"type" validate:"required"`
	MoodRating *int     `json:"mood_rating" validate:"omitempty,min=1,max=5"`
	Latitude   *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude  *float64 `json:"longitude" validate:"omitempty,longitude"`
}
