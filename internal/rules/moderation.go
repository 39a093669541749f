package rules

import (
	"errors"

	"github.com/noah-isme/campus-paws-api/internal/models"
)

// ErrInvalidTransition is returned when an entity is not in a state the transition starts from.
var ErrInvalidTransition = errors.New("invalid moderation transition")

// DogState is the moderation state of a dog profile.
type DogState string

const (
	DogPending  DogState = "pending"
	DogVerified DogState = "verified"
	DogRejected DogState = "rejected"
)

// DogStateOf derives the moderation state. Inactive dogs are terminal.
func DogStateOf(d models.Dog) DogState {
	switch {
	case !d.IsActive:
		return DogRejected
	case d.Verified:
		return DogVerified
	default:
		return DogPending
	}
}

// NeedsNaming reports a verified dog that has no official name yet.
// Naming and QR verification are independent.
func NeedsNaming(d models.Dog) bool {
	return d.Verified && d.IsActive && (d.OfficialName == nil || *d.OfficialName == "")
}

// CanApproveDog allows pending -> verified.
func CanApproveDog(d models.Dog) error {
	if DogStateOf(d) != DogPending {
		return ErrInvalidTransition
	}
	return nil
}

// CanRejectDog allows pending -> rejected.
func CanRejectDog(d models.Dog) error {
	return CanApproveDog(d)
}

// CanNameDog allows assigning an official name to an active dog whose name is not locked.
func CanNameDog(d models.Dog) error {
	if !d.IsActive || d.NameLocked {
		return ErrInvalidTransition
	}
	return nil
}

// CanApproveImage allows pending -> approved.
func CanApproveImage(img models.GalleryImage) error {
	if img.Status != models.ImagePending {
		return ErrInvalidTransition
	}
	return nil
}

// CanRejectImage allows pending -> deleted.
func CanRejectImage(img models.GalleryImage) error {
	return CanApproveImage(img)
}

// HasPendingUsername reports whether u sits in the username queue.
func HasPendingUsername(u models.User) bool {
	return u.RequestedUsername != nil && *u.RequestedUsername != ""
}

// CanResolveUsername allows approving or rejecting a queued username.
func CanResolveUsername(u models.User) error {
	if !HasPendingUsername(u) {
		return ErrInvalidTransition
	}
	return nil
}

// CanResolveAvatar allows approving or rejecting a pending avatar.
func CanResolveAvatar(u models.User) error {
	if u.AvatarURL == nil || u.AvatarStatus == nil || *u.AvatarStatus != models.AvatarPending {
		return ErrInvalidTransition
	}
	return nil
}

// CanResolveReport allows pending -> dismissed and pending -> action_taken.
func CanResolveReport(r models.UserReport) error {
	if r.Status != models.ReportPending {
		return ErrInvalidTransition
	}
	return nil
}

// CanRestoreReport allows restoring the target of a pending or actioned report.
// Restoring always ends in dismissed.
func CanRestoreReport(r models.UserReport) error {
	if r.Status == models.ReportDismissed {
		return ErrInvalidTransition
	}
	if r.TargetType != models.ReportTargetImage && r.TargetType != models.ReportTargetDog {
		return ErrInvalidTransition
	}
	return nil
}

// NormalizeReportTarget enforces target_id = reported_user for user reports.
// It returns false when the request lacks the id it needs.
func NormalizeReportTarget(req models.CreateReportRequest) (models.UserReport, bool) {
	report := models.UserReport{
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Reason:     req.Reason,
		Status:     models.ReportPending,
	}
	if req.ReportedUserID != "" {
		reported := req.ReportedUserID
		report.ReportedUser = &reported
	}
	if req.TargetType == models.ReportTargetUser {
		if report.ReportedUser == nil {
			if req.TargetID == "" {
				return models.UserReport{}, false
			}
			reported := req.TargetID
			report.ReportedUser = &reported
		}
		report.TargetID = *report.ReportedUser
	}
	return report, report.TargetID != ""
}
