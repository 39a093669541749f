package models

import "time"

// UserRole represents the community roles.
type UserRole string

const (
	RoleStudent   UserRole = "student"
	RolePresident UserRole = "president"
	RoleAdmin     UserRole = "admin"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RolePresident, RoleAdmin:
		return true
	}
	return false
}

// Privileged reports whether r grants moderation rights and bypasses the username gate.
func (r UserRole) Privileged() bool {
	return r == RolePresident || r == RoleAdmin
}

// AvatarStatus tracks moderation of a profile picture.
type AvatarStatus string

const (
	AvatarApproved AvatarStatus = "approved"
	AvatarPending  AvatarStatus = "pending"
	AvatarRejected AvatarStatus = "rejected"
)

// User represents a community member stored in the users table.
type User struct {
	ID                 string        `db:"id" json:"id"`
	Email              string        `db:"email" json:"email"`
	FullName           *string       `db:"full_name" json:"full_name,omitempty"`
	Role               UserRole      `db:"role" json:"role"`
	IsSuperAdmin       bool          `db:"is_super_admin" json:"is_super_admin"`
	Username           *string       `db:"username" json:"username,omitempty"`
	RequestedUsername  *string       `db:"requested_username" json:"requested_username,omitempty"`
	UsernameVerified   bool          `db:"username_verified" json:"username_verified"`
	NextUsernameChange *time.Time    `db:"next_username_change" json:"next_username_change,omitempty"`
	Points             int           `db:"points" json:"points"`
	IsHidden           bool          `db:"is_hidden" json:"is_hidden"`
	IsActive           bool          `db:"is_active" json:"is_active"`
	IsSuspended        bool          `db:"is_suspended" json:"is_suspended"`
	SuspendedUntil     *time.Time    `db:"suspended_until" json:"suspended_until,omitempty"`
	SuspendedReason    *string       `db:"suspended_reason" json:"suspended_reason,omitempty"`
	AvatarURL          *string       `db:"avatar_url" json:"avatar_url,omitempty"`
	AvatarStatus       *AvatarStatus `db:"avatar_status" json:"avatar_status,omitempty"`
	AvatarUpdatedAt    *time.Time    `db:"avatar_updated_at" json:"avatar_updated_at,omitempty"`
	Birthdate          *time.Time    `db:"birthdate" json:"birthdate,omitempty"`
	BirthdateUpdatedAt *time.Time    `db:"birthdate_updated_at" json:"birthdate_updated_at,omitempty"`
	CreatedAt          time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time     `db:"updated_at" json:"updated_at"`
}

// HasUsername reports whether a committed username exists.
func (u User) HasUsername() bool {
	return u.Username != nil && *u.Username != ""
}

// UserFilter captures filtering criteria for the admin user listing.
type UserFilter struct {
	Role     *UserRole
	Search   string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// UsernameRequest is a pending username awaiting moderation.
type UsernameRequest struct {
	UserID            string    `db:"id" json:"user_id"`
	Email             string    `db:"email" json:"email"`
	Username          *string   `db:"username" json:"current_username,omitempty"`
	RequestedUsername string    `db:"requested_username" json:"requested_username"`
	UpdatedAt         time.Time `db:"updated_at" json:"requested_at"`
}

// RequestUsernameRequest asks for a new username.
type RequestUsernameRequest struct {
	Username string `json:"username" validate:"required,username"`
}

// UpdateBirthdateRequest sets the birthdate, formatted YYYY-MM-DD.
type UpdateBirthdateRequest struct {
	Birthdate string `json:"birthdate" validate:"required,datetime=2006-01-02"`
}

// UpdateRoleRequest changes another user's role.
type UpdateRoleRequest struct {
	Role UserRole `json:"role" validate:"required,oneof=student president admin"`
}

// SuspendUserRequest suspends an account, optionally until a point in time.
type SuspendUserRequest struct {
	Reason string     `json:"reason" validate:"required,min=3,max=500"`
	Until  *time.Time `json:"until,omitempty"`
}

// CooldownStatus describes whether a field can be changed right now.
type CooldownStatus struct {
	Active        bool       `json:"active"`
	DaysRemaining int        `json:"days_remaining"`
	Until         *time.Time `json:"until,omitempty"`
}
