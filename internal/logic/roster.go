package logic

import (
	"fmt"

	"github.com/crease-labs/matchdesk/internal/models"
)

// AddOutcome describes what an add request did to a roster.
type AddOutcome int

const (
	AddedPlayer AddOutcome = iota
	IgnoredEmpty
	IgnoredFull
	IgnoredDuplicate
	IgnoredDisabled
)

func (o AddOutcome) String() string {
	switch o {
	case AddedPlayer:
		return "added"
	case IgnoredEmpty:
		return "ignored_empty"
	case IgnoredFull:
		return "ignored_full"
	case IgnoredDuplicate:
		return "ignored_duplicate"
	case IgnoredDisabled:
		return "ignored_disabled"
	}
	return "unknown"
}

// RosterEntry is one selected player. Identity is (Side, Player).
type RosterEntry struct {
	Side   models.Side `json:"side"`
	Player string      `json:"player"`
}

// Roster is the ordered set of players picked for one side.
// Insertion order is display order; it is never sorted.
type Roster struct {
	Side    models.Side `json:"side"`
	Players []string    `json:"players"`
}

// Add appends name unless it is empty, already present, or the roster is full.
func (r *Roster) Add(name string) AddOutcome {
	switch {
	case name == "":
		return IgnoredEmpty
	case len(r.Players) >= models.MaxRosterSize:
		return IgnoredFull
	case r.Contains(name):
		return IgnoredDuplicate
	}
	r.Players = append(r.Players, name)
	return AddedPlayer
}

// Remove deletes the entry for name. It reports false when name was not selected.
func (r *Roster) Remove(name string) bool {
	for i, p := range r.Players {
		if p == name {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Roster) Contains(name string) bool {
	for _, p := range r.Players {
		if p == name {
			return true
		}
	}
	return false
}

// Reset empties the roster
func (r *Roster) Reset() {
	r.Players = nil
}

func (r *Roster) Count() int {
	return len(r.Players)
}

// Complete reports whether a full XI has been picked.
func (r *Roster) Complete() bool {
	return len(r.Players) == models.MaxRosterSize
}

// CountLabel renders the count display, e.g. "7/11 Players".
func (r *Roster) CountLabel() string {
	return fmt.Sprintf("%d/%d Players", len(r.Players), models.MaxRosterSize)
}

// Entries returns the roster as (side, player) values in display order.
func (r *Roster) Entries() []RosterEntry {
	entries := make([]RosterEntry, len(r.Players))
	for i, p := range r.Players {
		entries[i] = RosterEntry{Side: r.Side, Player: p}
	}
	return entries
}

// Snapshot returns a copy of the player names.
func (r *Roster) Snapshot() []string {
	return append([]string{}, r.Players...)
}

// RosterLabel is the heading shown above a side's roster.
func RosterLabel(side models.Side, team string) string {
	if team == "" {
		return fmt.Sprintf("Team %d Squad", int(side))
	}
	return team + " Squad"
}
