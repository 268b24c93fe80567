package view

import (
	"giftwall/internal/models"
	"giftwall/internal/utils"
)

// ViewerRole names the two display modes of an event page. The role is
// derived from the unauthenticated ?recipient=true query flag by the HTTP
// layer; this package consumes it as given. A future authenticated version
// only changes how the role is derived, not how it is applied here.
type ViewerRole int

const (
	RoleGuest ViewerRole = iota
	RoleRecipient
)

func (r ViewerRole) String() string {
	if r == RoleRecipient {
		return "recipient"
	}
	return "guest"
}

// RoleFromQueryFlag maps the ?recipient=true flag to a role.
func RoleFromQueryFlag(recipient bool) ViewerRole {
	if recipient {
		return RoleRecipient
	}
	return RoleGuest
}

// Project returns the greetings a viewer with the given role should see.
// The recipient sees messages from others, never their own entries; guests
// see the full list. Input order (newest first) is preserved.
func Project(greetings []models.Greeting, role ViewerRole) []models.Greeting {
	projected := make([]models.Greeting, 0, len(greetings))
	for _, g := range greetings {
		if role == RoleRecipient && g.IsRecipient {
			continue
		}
		projected = append(projected, g)
	}
	return projected
}

// EventView is the display projection handed to the presentation layer.
// All derived numbers are computed here, once per fetch, instead of being
// recomputed at every call site.
type EventView struct {
	Event              models.Event      `json:"event"`
	Greetings          []models.Greeting `json:"greetings"`
	ViewerRole         string            `json:"viewer_role"`
	ContributorCount   int               `json:"contributor_count"`
	TotalContributions float64           `json:"total_contributions"`
	DaysLeft           *int              `json:"days_left,omitempty"`
	ProgressPercent    float64           `json:"progress_percent,omitempty"`
}

// BuildEventView projects the greeting list for the role and derives the
// display stats. ContributorCount counts projected greetings carrying an
// amount; TotalContributions is taken from the event aggregate so it
// reflects all contributions regardless of recipient filtering.
func BuildEventView(data *models.EventWithGreetings, role ViewerRole) EventView {
	projected := Project(data.Greetings, role)

	contributors := 0
	for _, g := range projected {
		if g.Amount > 0 {
			contributors++
		}
	}

	ev := EventView{
		Event:              data.Event,
		Greetings:          projected,
		ViewerRole:         role.String(),
		ContributorCount:   contributors,
		TotalContributions: data.TotalContributions,
	}

	if !data.Event.EndDate.IsZero() {
		days := utils.DaysUntil(data.Event.EndDate)
		ev.DaysLeft = &days
	}

	if data.Event.TargetAmount > 0 {
		pct := data.TotalContributions / data.Event.TargetAmount * 100
		if pct > 100 {
			pct = 100
		}
		ev.ProgressPercent = pct
	}

	return ev
}
