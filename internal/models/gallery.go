package models

import "time"

// ImageStatus tracks gallery moderation.
type ImageStatus string

const (
	ImagePending  ImageStatus = "pending"
	ImageApproved ImageStatus = "approved"
)

// Storage prefixes for gallery objects.
const (
	GalleryPendingPrefix  = "pending/"
	GalleryApprovedPrefix = "approved/"
)

// GalleryImage is an uploaded photo.
type GalleryImage struct {
	ID        string      `db:"id" json:"id"`
	UserID    string      `db:"user_id" json:"user_id"`
	DogID     *string     `db:"dog_id" json:"dog_id,omitempty"`
	FilePath  string      `db:"file_path" json:"file_path"`
	Status    ImageStatus `db:"status" json:"status"`
	IsHidden  bool        `db:"is_hidden" json:"is_hidden"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}

// GalleryImageWithUploader joins the uploader profile for display.
type GalleryImageWithUploader struct {
	GalleryImage
	Username  *string `db:"username" json:"username,omitempty"`
	AvatarURL *string `db:"avatar_url" json:"avatar_url,omitempty"`
	URL       string  `db:"-" json:"url"`
}

// UploadInput describes a file handed to the gallery or avatar workflows.
type UploadInput struct {
	Size   int64
	DogID  *string
	Header []byte
}
