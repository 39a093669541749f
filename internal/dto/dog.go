package dto

import (
	"time"

	"github.com/noah-isme/campus-paws-api/internal/models"
	"github.com/noah-isme/campus-paws-api/internal/rules"
)

// LabelView is a derived label with its display tuple.
type LabelView struct {
	Value string `json:"value"`
	Text  string `json:"text"`
	Color string `json:"color"`
}

// SummaryView attaches derived feeding and behaviour labels to a dog summary.
type SummaryView struct {
	models.DogSummary
	FeedingStatus LabelView `json:"feeding_status"`
	Behaviour     LabelView `json:"behaviour"`
}

// DogView is a dog profile as served to clients.
type DogView struct {
	models.Dog
	DisplayName string       `json:"display_name"`
	NeedsNaming bool         `json:"needs_naming"`
	Summary     *SummaryView `json:"summary,omitempty"`
}

// DogDetail is a dog profile with its recent activity.
type DogDetail struct {
	DogView
	RecentInteractions []models.InteractionWithNames `json:"recent_interactions"`
}

// NewSummaryView derives the labels for s at now.
func NewSummaryView(s models.DogSummary, now time.Time) SummaryView {
	feeding := rules.FeedingStatusAt(s.LastFedAt, now)
	behaviour := rules.BehaviourLabelFor(s.BehaviourScore)
	fd := feeding.Display()
	bd := behaviour.Display()
	return SummaryView{
		DogSummary:    s,
		FeedingStatus: LabelView{Value: string(feeding), Text: fd.Text, Color: fd.Color},
		Behaviour:     LabelView{Value: string(behaviour), Text: bd.Text, Color: bd.Color},
	}
}

// NewDogView builds the client view of d. summary may be nil.
func NewDogView(d models.Dog, summary *models.DogSummary, now time.Time) DogView {
	view := DogView{Dog: d, DisplayName: d.DisplayName(), NeedsNaming: rules.NeedsNaming(d)}
	if summary != nil {
		s := NewSummaryView(*summary, now)
		view.Summary = &s
	}
	return view
}

// Refresh re-derives the summary labels at now. Cached views carry the raw
// summary, so the feeding status is recomputed on every read.
func (v *DogView) Refresh(now time.Time) {
	if v.Summary == nil {
		return
	}
	s := NewSummaryView(v.Summary.DogSummary, now)
	v.Summary = &s
}
