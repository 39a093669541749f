package models

import "time"

// ReportTargetType identifies what a report points at.
type ReportTargetType string

const (
	ReportTargetUser  ReportTargetType = "user"
	ReportTargetImage ReportTargetType = "image"
	ReportTargetDog   ReportTargetType = "dog"
)

// ReportStatus tracks the lifecycle of a content report.
type ReportStatus string

const (
	ReportPending     ReportStatus = "pending"
	ReportDismissed   ReportStatus = "dismissed"
	ReportActionTaken ReportStatus = "action_taken"
)

// UserReport is a participant flagging a user, image or dog.
type UserReport struct {
	ID           string           `db:"id" json:"id"`
	ReportedBy   string           `db:"reported_by" json:"reported_by"`
	ReportedUser *string          `db:"reported_user" json:"reported_user,omitempty"`
	TargetType   ReportTargetType `db:"target_type" json:"target_type"`
	TargetID     string           `db:"target_id" json:"target_id"`
	Reason       string           `db:"reason" json:"reason"`
	Status       ReportStatus     `db:"status" json:"status"`
	ReportDate   time.Time        `db:"report_date" json:"report_date"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time        `db:"updated_at" json:"updated_at"`
}

// ReportWithNames joins reporter and reported usernames for the moderation queue.
type ReportWithNames struct {
	UserReport
	ReporterUsername *string `db:"reporter_username" json:"reporter_username,omitempty"`
	ReportedUsername *string `db:"reported_username" json:"reported_username,omitempty"`
}

// ReportFilter narrows the moderation queue.
type ReportFilter struct {
	Status     *ReportStatus
	TargetType *ReportTargetType
	Limit      int
}

// CreateReportRequest flags content. For user reports TargetID may be omitted and
// ReportedUserID is used; for image and dog reports ReportedUserID is the owner when known.
type CreateReportRequest struct {
	TargetType     ReportTargetType `json:"target_type" validate:"required,oneof=user image dog"`
	TargetID       string           `json:"target_id" validate:"omitempty,uuid"`
	ReportedUserID string           `json:"reported_user_id" validate:"omitempty,uuid"`
	Reason         string           `json:"reason" validate:"required,min=3,max=500"`
}

// ResolveReportRequest marks a report as actioned, optionally hiding the reported user.
type ResolveReportRequest struct {
	HideUser bool `json:"hide_user"`
}
