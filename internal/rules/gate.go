package rules

import (
	"time"

	"github.com/noah-isme/campus-paws-api/internal/models"
)

// CanParticipate reports whether s may act on shared content. Presidents and admins
// bypass the username requirement; students need a verified username.
func CanParticipate(s models.Session) bool {
	return s.Role.Privileged() || s.UsernameVerified
}

// CanModerate reports whether s may run moderation transitions.
func CanModerate(s models.Session) bool {
	return s.Role.Privileged()
}

// CanAdminister reports whether s may manage other accounts.
func CanAdminister(s models.Session) bool {
	return s.IsSuperAdmin
}

// CanAdministerTarget reports whether actor may change target. Super admins cannot
// act on themselves or on other super admins.
func CanAdministerTarget(actor models.Session, target models.User) bool {
	return CanAdminister(actor) && actor.UserID != target.ID && !target.IsSuperAdmin
}

// SuspensionState is the outcome of checking an account's suspension on sign-in.
type SuspensionState int

const (
	NotSuspended SuspensionState = iota
	SuspensionExpired
	Suspended
)

// CheckSuspension decides whether u is locked out at now. A suspension whose
// end has passed is expired and must be lifted by the caller.
func CheckSuspension(u models.User, now time.Time) SuspensionState {
	if !u.IsSuspended {
		return NotSuspended
	}
	if u.SuspendedUntil != nil && !now.Before(*u.SuspendedUntil) {
		return SuspensionExpired
	}
	return Suspended
}

// DefaultSuspensionReason is shown when a moderator gave none.
const DefaultSuspensionReason = "Please contact support for details."

// SuspensionReason returns the reason shown to a suspended user.
func SuspensionReason(u models.User) string {
	if u.SuspendedReason != nil && *u.SuspendedReason != "" {
		return *u.SuspendedReason
	}
	return DefaultSuspensionReason
}
