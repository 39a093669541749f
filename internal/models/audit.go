package models

import "time"

// Audit actions written by moderators and administrators.
const (
	AuditActionDogApprove      = "DOG_APPROVE"
	AuditActionDogReject       = "DOG_REJECT"
	AuditActionDogRegister     = "DOG_REGISTER"
	AuditActionDogName         = "DOG_NAME"
	AuditActionImageApprove    = "IMAGE_APPROVE"
	AuditActionImageReject     = "IMAGE_REJECT"
	AuditActionUsernameApprove = "USERNAME_APPROVE"
	AuditActionUsernameReject  = "USERNAME_REJECT"
	AuditActionAvatarApprove   = "AVATAR_APPROVE"
	AuditActionAvatarReject    = "AVATAR_REJECT"
	AuditActionReportDismiss   = "REPORT_DISMISS"
	AuditActionReportAction    = "REPORT_ACTION_TAKEN"
	AuditActionReportRestore   = "REPORT_RESTORE"
	AuditActionUserRole        = "USER_ROLE"
	AuditActionUserSuspend     = "USER_SUSPEND"
	AuditActionUserUnsuspend   = "USER_UNSUSPEND"
	AuditActionUserHide        = "USER_HIDE"
	AuditActionUserDelete      = "USER_DELETE"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	OldValues  []byte    `db:"old_values" json:"old_values,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// AuditFilter narrows the audit listing.
type AuditFilter struct {
	Resource string
	ActorID  string
	Limit    int
}

// RequestMeta carries client details recorded alongside audit entries.
type RequestMeta struct {
	IP        string
	UserAgent string
}
