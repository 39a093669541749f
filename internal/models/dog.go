package models

import (
	"time"

	"github.com/lib/pq"
)

// VaccinationStatus records what is known about a dog's vaccinations.
type VaccinationStatus string

const (
	VaccinationUnknown    VaccinationStatus = "unknown"
	VaccinationPartial    VaccinationStatus = "partial"
	VaccinationVaccinated VaccinationStatus = "vaccinated"
)

// Dog represents a campus dog profile.
type Dog struct {
	ID                string            `db:"id" json:"id"`
	TemporaryName     *string           `db:"temporary_name" json:"temporary_name,omitempty"`
	OfficialName      *string           `db:"official_name" json:"official_name,omitempty"`
	NameLocked        bool              `db:"name_locked" json:"name_locked"`
	QRCode            *string           `db:"qr_code" json:"qr_code,omitempty"`
	Description       *string           `db:"description" json:"description,omitempty"`
	ProfileImage      *string           `db:"profile_image" json:"profile_image,omitempty"`
	SoftLocations     pq.StringArray    `db:"soft_locations" json:"soft_locations"`
	VaccinationStatus VaccinationStatus `db:"vaccination_status" json:"vaccination_status"`
	Verified          bool              `db:"verified" json:"verified"`
	IsActive          bool              `db:"is_active" json:"is_active"`
	IsHidden          bool              `db:"is_hidden" json:"is_hidden"`
	CreatedBy         *string           `db:"created_by" json:"created_by,omitempty"`
	ReportedBy        *string           `db:"reported_by" json:"reported_by,omitempty"`
	RegisteredBy      *string           `db:"registered_by" json:"registered_by,omitempty"`
	Latitude          *float64          `db:"latitude" json:"latitude,omitempty"`
	Longitude         *float64          `db:"longitude" json:"longitude,omitempty"`
	CreatedAt         time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time         `db:"updated_at" json:"updated_at"`
}

// DisplayName prefers the official name over the temporary one.
func (d Dog) DisplayName() string {
	if d.OfficialName != nil && *d.OfficialName != "" {
		return *d.OfficialName
	}
	if d.TemporaryName != nil {
		return *d.TemporaryName
	}
	return ""
}

// DogSummary is the database maintained aggregate for one dog.
type DogSummary struct {
	DogID             string     `db:"dog_id" json:"dog_id"`
	LastFedAt         *time.Time `db:"last_fed_at" json:"last_fed_at,omitempty"`
	BehaviourScore    int        `db:"behaviour_score" json:"behaviour_score"`
	TotalInteractions int        `db:"total_interactions" json:"total_interactions"`
	AvgMood           *float64   `db:"avg_mood" json:"avg_mood,omitempty"`
}

// DogFilter narrows the public dog listing.
type DogFilter struct {
	Search string
}

// ReportDogRequest is a participant reporting an unregistered stray.
type ReportDogRequest struct {
	TemporaryName     string            `json:"temporary_name" validate:"required,min=1,max=60"`
	Description       string            `json:"description" validate:"max=1000"`
	SoftLocations     []string          `json:"soft_locations" validate:"max=10,dive,min=1,max=120"`
	VaccinationStatus VaccinationStatus `json:"vaccination_status" validate:"omitempty,oneof=unknown partial vaccinated"`
	Latitude          *float64          `json:"latitude" validate:"omitempty,latitude"`
	Longitude         *float64          `json:"longitude" validate:"omitempty,longitude"`
}

// RegisterDogRequest is a moderator registering a dog with its QR tag directly.
type RegisterDogRequest struct {
	QRCode            string            `json:"qr_code" validate:"required,max=120"`
	OfficialName      string            `json:"official_name" validate:"max=60"`
	TemporaryName     string            `json:"temporary_name" validate:"max=60"`
	Description       string            `json:"description" validate:"max=1000"`
	SoftLocations     []string          `json:"soft_locations" validate:"max=10,dive,min=1,max=120"`
	VaccinationStatus VaccinationStatus `json:"vaccination_status" validate:"omitempty,oneof=unknown partial vaccinated"`
}

// ApproveDogRequest verifies a pending dog. QR code is required, the official name is optional.
type ApproveDogRequest struct {
	QRCode       string `json:"qr_code" validate:"required,max=120"`
	OfficialName string `json:"official_name" validate:"max=60"`
}

// NameDogRequest assigns the official name of a verified dog.
type NameDogRequest struct {
	OfficialName string `json:"official_name" validate:"required,min=1,max=60"`
}
