package models

import "time"

// ChangeKind names a committed domain transition.
type ChangeKind string

const (
	ChangeDogCreated        ChangeKind = "dog.created"
	ChangeDogVerified       ChangeKind = "dog.verified"
	ChangeDogRejected       ChangeKind = "dog.rejected"
	ChangeDogNamed          ChangeKind = "dog.named"
	ChangeDogHidden         ChangeKind = "dog.hidden"
	ChangeDogRestored       ChangeKind = "dog.restored"
	ChangeInteractionLogged ChangeKind = "interaction.logged"
	ChangeImageUploaded     ChangeKind = "image.uploaded"
	ChangeImageApproved     ChangeKind = "image.approved"
	ChangeImageRejected     ChangeKind = "image.rejected"
	ChangeImageHidden       ChangeKind = "image.hidden"
	ChangeImageRestored     ChangeKind = "image.restored"
	ChangeReportCreated     ChangeKind = "report.created"
	ChangeReportResolved    ChangeKind = "report.resolved"
	ChangeUserUpdated       ChangeKind = "user.updated"
	ChangeUserPointsAwarded ChangeKind = "user.points_awarded"
	ChangeUserHidden        ChangeKind = "user.hidden"
	ChangeUserDeleted       ChangeKind = "user.deleted"
	ChangeUsernameRequested ChangeKind = "username.requested"
	ChangeUsernameApproved  ChangeKind = "username.approved"
	ChangeUsernameRejected  ChangeKind = "username.rejected"
	ChangeAvatarUpdated     ChangeKind = "avatar.updated"
	ChangeAvatarModerated   ChangeKind = "avatar.moderated"
	ChangeUserRoleChanged   ChangeKind = "user.role_changed"
	ChangeUserSuspension    ChangeKind = "user.suspension"
)

// ChangeEvent is published after a workflow commits so read models can refresh.
type ChangeEvent struct {
	Kind       ChangeKind `json:"kind"`
	EntityID   string     `json:"entity_id"`
	ActorID    string     `json:"actor_id,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}
