package logic

import "github.com/crease-labs/matchdesk/internal/models"

// SideView is the derived display state of one side of the setup form.
type SideView struct {
	Side          models.Side   `json:"side"`
	Team          string        `json:"team"`
	Label         string        `json:"label"`
	Entries       []RosterEntry `json:"entries"`
	CountLabel    string        `json:"count_label"`
	Complete      bool          `json:"complete"`
	SearchEnabled bool          `json:"search_enabled"`
}

// SetupView is the derived display state of the whole setup form.
type SetupView struct {
	Venue               string      `json:"venue"`
	BattingFirst        string      `json:"batting_first"`
	BattingOptions      []string    `json:"batting_options"`
	BattingEnabled      bool        `json:"batting_enabled"`
	FirstInningsTotal   string      `json:"first_innings_total"`
	FirstInningsEnabled bool        `json:"first_innings_enabled"`
	Sides               [2]SideView `json:"sides"`
}

// SessionView is everything a client needs to paint a session.
type SessionView struct {
	ID        string    `json:"id"`
	Setup     SetupView `json:"setup"`
	Dashboard Dashboard `json:"dashboard"`
}

// Snapshot derives the view of s. Enabled flags and option lists are computed
// from the stored setup, so they can never disagree with it.
func Snapshot(reg *Registry, s *Session) SessionView {
	setup := &s.Setup
	view := SessionView{
		ID: s.ID,
		Setup: SetupView{
			Venue:               setup.Venue,
			BattingFirst:        setup.BattingFirst,
			BattingOptions:      BattingOptions(setup),
			BattingEnabled:      BattingEnabled(setup),
			FirstInningsTotal:   setup.FirstInningsTotal,
			FirstInningsEnabled: setup.FirstInningsEnabled(),
		},
		Dashboard: s.Dashboard,
	}
	for i, side := range models.Sides {
		r := setup.Roster(side)
		view.Setup.Sides[i] = SideView{
			Side:          side,
			Team:          setup.Team(side),
			Label:         RosterLabel(side, setup.Team(side)),
			Entries:       r.Entries(),
			CountLabel:    r.CountLabel(),
			Complete:      r.Complete(),
			SearchEnabled: SearchEnabled(reg, setup, side),
		}
	}
	return view
}
