package models

// CampusStats are the community counters shown on the home page.
type CampusStats struct {
	TotalDogs     int `db:"total_dogs" json:"total_dogs"`
	NamedDogs     int `db:"named_dogs" json:"named_dogs"`
	NeedsNaming   int `db:"needs_naming" json:"needs_naming"`
	PendingDogs   int `db:"pending_dogs" json:"pending_dogs"`
	ActionsToday  int `db:"actions_today" json:"actions_today"`
	TotalMembers  int `db:"total_members" json:"total_members"`
	TotalPhotos   int `db:"total_photos" json:"total_photos"`
	TotalFeedings int `db:"total_feedings" json:"total_feedings"`
}

// LeaderboardEntry is one ranked participant.
type LeaderboardEntry struct {
	Rank      int     `db:"-" json:"rank"`
	UserID    string  `db:"id" json:"user_id"`
	Username  string  `db:"username" json:"username"`
	AvatarURL *string `db:"avatar_url" json:"avatar_url,omitempty"`
	Points    int     `db:"points" json:"points"`
}

// ModerationQueueCounts summarises pending moderation work.
type ModerationQueueCounts struct {
	PendingDogs      int `db:"pending_dogs" json:"pending_dogs"`
	PendingImages    int `db:"pending_images" json:"pending_images"`
	PendingUsernames int `db:"pending_usernames" json:"pending_usernames"`
	PendingAvatars   int `db:"pending_avatars" json:"pending_avatars"`
	PendingReports   int `db:"pending_reports" json:"pending_reports"`
}
