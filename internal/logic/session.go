package logic

import (
	"time"

	"github.com/crease-labs/matchdesk/internal/models"
)

// MatchSetup is the editable match description of one session.
// Only essential state is stored; option lists and enabled flags are derived.
type MatchSetup struct {
	TeamA             string    `json:"team_a"`
	TeamB             string    `json:"team_b"`
	Venue             string    `json:"venue"`
	BattingFirst      string    `json:"batting_first"`
	FirstInningsTotal string    `json:"first_innings_total"`
	Rosters           [2]Roster `json:"rosters"`
}

// NewMatchSetup returns an empty setup with both rosters bound to their side.
func NewMatchSetup() MatchSetup {
	return MatchSetup{
		Rosters: [2]Roster{{Side: models.SideA}, {Side: models.SideB}},
	}
}

// Team returns the team chosen for side
func (m *MatchSetup) Team(side models.Side) string {
	if side == models.SideB {
		return m.TeamB
	}
	return m.TeamA
}

func (m *MatchSetup) setTeam(side models.Side, team string) {
	if side == models.SideB {
		m.TeamB = team
		return
	}
	m.TeamA = team
}

// Roster returns the roster of side.
func (m *MatchSetup) Roster(side models.Side) *Roster {
	if side == models.SideB {
		return &m.Rosters[1]
	}
	return &m.Rosters[0]
}

// FirstInningsEnabled holds iff a batting-first team is chosen.
func (m *MatchSetup) FirstInningsEnabled() bool {
	return m.BattingFirst != ""
}

// Dashboard is the visibility and content state of the result region.
// View is kept while a new request is in flight; it is only hidden.
type Dashboard struct {
	Visible        bool           `json:"visible"`
	Busy           bool           `json:"busy"`
	BusySince      time.Time      `json:"busy_since"`
	ContentVisible bool           `json:"content_visible"`
	View           *DashboardView `json:"view,omitempty"`
	Notice         *Notice        `json:"notice,omitempty"`
}

// Session is the controller state of one page session.
type Session struct {
	ID        string     `json:"id"`
	CSRFToken string     `json:"csrf_token"`
	CreatedAt time.Time  `json:"created_at"`
	Setup     MatchSetup `json:"setup"`
	Dashboard Dashboard  `json:"dashboard"`
	// Seq is the sequence number of the latest issued prediction request.
	Seq uint64 `json:"seq"`
}

// NewSession creates an empty session.
func NewSession(id, csrfToken string) *Session {
	return &Session{
		ID:        id,
		CSRFToken: csrfToken,
		CreatedAt: time.Now().UTC(),
		Setup:     NewMatchSetup(),
	}
}
