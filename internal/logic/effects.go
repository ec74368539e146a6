package logic

import (
	"encoding/json"

	"github.com/crease-labs/matchdesk/internal/models"
)

// Effect is a change a view layer has to apply after an event. The set is closed:
// only types in this file implement it.
type Effect interface {
	Kind() string
	isEffect()
}

// BattingOptionsReset replaces the batting-first choices. The neutral
// "Select Team..." option is implied and always first.
type BattingOptionsReset struct {
	Options []string `json:"options"`
	Enabled bool     `json:"enabled"`
}

type FirstInningsToggled struct {
	Enabled bool `json:"enabled"`
}

// RosterReset clears a side's tags and relabels its heading.
type RosterReset struct {
	Side  models.Side `json:"side"`
	Label string      `json:"label"`
}

type SearchToggled struct {
	Side    models.Side `json:"side"`
	Enabled bool        `json:"enabled"`
}

// SuggestionsReplaced carries the complete suggestion list for a side, never a delta.
type SuggestionsReplaced struct {
	Side    models.Side `json:"side"`
	Players []string    `json:"players"`
}

// SearchCleared empties a side's search input.
type SearchCleared struct {
	Side models.Side `json:"side"`
}

type TagAdded struct {
	Side   models.Side `json:"side"`
	Player string      `json:"player"`
}

type TagRemoved struct {
	Side   models.Side `json:"side"`
	Player string      `json:"player"`
}

type CountUpdated struct {
	Side     models.Side `json:"side"`
	Count    int         `json:"count"`
	Label    string      `json:"label"`
	Complete bool        `json:"complete"`
}

type ValidationFailed struct {
	Message string `json:"message"`
}

// DashboardUpdated reports the visibility of the result dashboard regions.
type DashboardUpdated struct {
	Visible        bool `json:"visible"`
	Spinner        bool `json:"spinner"`
	ContentVisible bool `json:"content_visible"`
}

// ResultRendered carries a freshly built display model.
type ResultRendered struct {
	View *DashboardView `json:"view"`
}

// Notice is a message surfaced to the user outside the dashboard.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func (BattingOptionsReset) Kind() string { return "batting_options_reset" }
func (FirstInningsToggled) Kind() string { return "first_innings_toggled" }
func (RosterReset) Kind() string         { return "roster_reset" }
func (SearchToggled) Kind() string       { return "search_toggled" }
func (SuggestionsReplaced) Kind() string { return "suggestions_replaced" }
func (SearchCleared) Kind() string       { return "search_cleared" }
func (TagAdded) Kind() string            { return "tag_added" }
func (TagRemoved) Kind() string          { return "tag_removed" }
func (CountUpdated) Kind() string        { return "count_updated" }
func (ValidationFailed) Kind() string    { return "validation_failed" }
func (DashboardUpdated) Kind() string    { return "dashboard_updated" }
func (ResultRendered) Kind() string      { return "result_rendered" }
func (Notice) Kind() string              { return "notice" }

func (BattingOptionsReset) isEffect() {}
func (FirstInningsToggled) isEffect() {}
func (RosterReset) isEffect()         {}
func (SearchToggled) isEffect()       {}
func (SuggestionsReplaced) isEffect() {}
func (SearchCleared) isEffect()       {}
func (TagAdded) isEffect()            {}
func (TagRemoved) isEffect()          {}
func (CountUpdated) isEffect()        {}
func (ValidationFailed) isEffect()    {}
func (DashboardUpdated) isEffect()    {}
func (ResultRendered) isEffect()      {}
func (Notice) isEffect()              {}

// Notice levels
const (
	NoticeError    = "error"
	NoticeCritical = "critical"
)

// EffectList serialises as [{"type": "...", "data": {...}}, ...].
type EffectList []Effect

func (l EffectList) MarshalJSON() ([]byte, error) {
	type envelope struct {
		Type string `json:"type"`
		Data Effect `json:"data"`
	}
	out := make([]envelope, len(l))
	for i, e := range l {
		out[i] = envelope{Type: e.Kind(), Data: e}
	}
	return json.Marshal(out)
}

func countUpdated(r *Roster) CountUpdated {
	return CountUpdated{Side: r.Side, Count: r.Count(), Label: r.CountLabel(), Complete: r.Complete()}
}
