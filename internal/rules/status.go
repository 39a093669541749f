// Package rules holds the pure community rules: derived dog statuses, the
// participation gate, change cooldowns, moderation transitions, points and rank.
// Nothing here performs I/O; time is always passed in.
package rules

import "time"

// FeedingStatus is derived from the time since a dog was last fed.
type FeedingStatus string

const (
	FeedingRecentlyFed  FeedingStatus = "recently_fed"
	FeedingDueSoon      FeedingStatus = "due_soon"
	FeedingNeedsFeeding FeedingStatus = "needs_feeding"
)

const (
	RecentlyFedWindow = 6 * time.Hour
	DueSoonWindow     = 12 * time.Hour
)

// FeedingStatusAt classifies lastFedAt relative to now. A dog never fed needs feeding.
func FeedingStatusAt(lastFedAt *time.Time, now time.Time) FeedingStatus {
	if lastFedAt == nil {
		return FeedingNeedsFeeding
	}
	elapsed := now.Sub(*lastFedAt)
	switch {
	case elapsed < RecentlyFedWindow:
		return FeedingRecentlyFed
	case elapsed < DueSoonWindow:
		return FeedingDueSoon
	default:
		return FeedingNeedsFeeding
	}
}

// BehaviourLabel is derived from the aggregated behaviour score.
type BehaviourLabel string

const (
	BehaviourGenerallyFriendly BehaviourLabel = "generally_friendly"
	BehaviourUsuallyCalm       BehaviourLabel = "usually_calm"
	BehaviourShyCautious       BehaviourLabel = "shy_cautious"
	BehaviourNeedsSpace        BehaviourLabel = "needs_space"
)

// Lower bounds of the behaviour bands. A boundary belongs to the higher band.
const (
	FriendlyScore = 5
	CalmScore     = 1
	ShyScore      = -2
)

// BehaviourLabelFor maps a behaviour score to its band.
func BehaviourLabelFor(score int) BehaviourLabel {
	switch {
	case score >= FriendlyScore:
		return BehaviourGenerallyFriendly
	case score >= CalmScore:
		return BehaviourUsuallyCalm
	case score >= ShyScore:
		return BehaviourShyCautious
	default:
		return BehaviourNeedsSpace
	}
}

// Color tokens understood by the web client.
const (
	ColorSecondary = "secondary"
	ColorAccent    = "accent"
	ColorCoral     = "coral"
	ColorMuted     = "muted"
)

// Display is the text and color token a label renders with.
type Display struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

var feedingDisplay = map[FeedingStatus]Display{
	FeedingRecentlyFed:  {Text: "Recently fed", Color: ColorSecondary},
	FeedingDueSoon:      {Text: "Feeding due soon", Color: ColorAccent},
	FeedingNeedsFeeding: {Text: "Needs feeding", Color: ColorCoral},
}

var behaviourDisplay = map[BehaviourLabel]Display{
	BehaviourGenerallyFriendly: {Text: "Generally friendly", Color: ColorSecondary},
	BehaviourUsuallyCalm:       {Text: "Usually calm", Color: ColorAccent},
	BehaviourShyCautious:       {Text: "Shy / cautious", Color: ColorMuted},
	BehaviourNeedsSpace:        {Text: "Needs space", Color: ColorCoral},
}

// Display returns the rendering of s. Unknown values render as needing feeding.
func (s FeedingStatus) Display() Display {
	if d, ok := feedingDisplay[s]; ok {
		return d
	}
	return feedingDisplay[FeedingNeedsFeeding]
}

// Display returns the rendering of l. Unknown values render as needing space.
func (l BehaviourLabel) Display() Display {
	if d, ok := behaviourDisplay[l]; ok {
		return d
	}
	return behaviourDisplay[BehaviourNeedsSpace]
}
