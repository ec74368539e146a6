package logic

import (
	"strconv"
	"strings"

	"github.com/crease-labs/matchdesk/internal/models"
)

// BattingPlaceholder is the neutral, unselected batting-first option.
const BattingPlaceholder = "Select Team..."

// ValidationError is a user input problem reported before any network activity.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ChangeTeam applies a change of either team identifier. Batting first is reset,
// both rosters are cleared (even if only one team changed) and each side's
// player search is rebound to its team's pool.
func ChangeTeam(reg *Registry, setup *MatchSetup, side models.Side, team string) []Effect {
	setup.setTeam(side, strings.TrimSpace(team))
	setup.BattingFirst = ""
	setup.FirstInningsTotal = ""

	effects := []Effect{
		BattingOptionsReset{Options: BattingOptions(setup), Enabled: BattingEnabled(setup)},
		FirstInningsToggled{Enabled: false},
	}
	for _, s := range models.Sides {
		r := setup.Roster(s)
		r.Reset()
		effects = append(effects,
			RosterReset{Side: s, Label: RosterLabel(s, setup.Team(s))},
			countUpdated(r),
		)
		effects = append(effects, bindSuggestions(reg, s, setup.Team(s))...)
	}
	return effects
}

// BattingOptions returns the chosen, non-empty teams in side order.
func BattingOptions(setup *MatchSetup) []string {
	options := make([]string, 0, 2)
	for _, s := range models.Sides {
		if team := setup.Team(s); team != "" {
			options = append(options, team)
		}
	}
	return options
}

// BattingEnabled holds iff both teams are chosen.
func BattingEnabled(setup *MatchSetup) bool {
	return setup.TeamA != "" && setup.TeamB != ""
}

// SelectBattingFirst sets the team batting first. An empty team returns to the
// unselected option; anything else must be one of the two chosen teams.
func SelectBattingFirst(setup *MatchSetup, team string) ([]Effect, error) {
	team = strings.TrimSpace(team)
	if team != "" {
		if !BattingEnabled(setup) {
			return nil, &ValidationError{Message: "Select both teams before choosing who bats first."}
		}
		if team != setup.TeamA && team != setup.TeamB {
			return nil, &ValidationError{Message: "Batting first must be one of the selected teams."}
		}
	}
	setup.BattingFirst = team
	if team == "" {
		setup.FirstInningsTotal = ""
	}
	return []Effect{FirstInningsToggled{Enabled: setup.FirstInningsEnabled()}}, nil
}

// SetVenue records the venue; an empty venue is allowed.
func SetVenue(setup *MatchSetup, venue string) {
	setup.Venue = strings.TrimSpace(venue)
}

// SetFirstInningsTotal records the first innings total. It is only accepted
// while a batting-first team is chosen; an empty value clears it.
func SetFirstInningsTotal(setup *MatchSetup, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		setup.FirstInningsTotal = ""
		return nil
	}
	if !setup.FirstInningsEnabled() {
		return &ValidationError{Message: "Choose the team batting first before entering a first innings total."}
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return &ValidationError{Message: "First innings total must be a whole number of runs."}
	}
	setup.FirstInningsTotal = strconv.Itoa(n)
	return nil
}

// AddPlayer runs the roster builder of side for a submitted search value.
// Every outcome clears the search input; only a real addition adds a tag.
func AddPlayer(reg *Registry, setup *MatchSetup, side models.Side, candidate string) (AddOutcome, []Effect) {
	cleared := SearchCleared{Side: side}
	if !SearchEnabled(reg, setup, side) {
		return IgnoredDisabled, []Effect{cleared}
	}

	r := setup.Roster(side)
	name := strings.TrimSpace(candidate)
	outcome := r.Add(name)
	if outcome != AddedPlayer {
		return outcome, []Effect{cleared}
	}
	return outcome, []Effect{TagAdded{Side: side, Player: name}, countUpdated(r), cleared}
}

// RemovePlayer handles the dismiss control of a roster tag.
func RemovePlayer(setup *MatchSetup, side models.Side, name string) []Effect {
	r := setup.Roster(side)
	if !r.Remove(name) {
		return nil
	}
	return []Effect{TagRemoved{Side: side, Player: name}, countUpdated(r)}
}
