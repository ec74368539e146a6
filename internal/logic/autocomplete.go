package logic

import (
	"strings"

	"github.com/crease-labs/matchdesk/internal/models"
)

// Suggestions returns the full suggestion list for team: the registry pool
// verbatim, or an empty list when the team is unset or unknown. The result is
// always a fresh list so binding it twice never duplicates entries.
func Suggestions(reg *Registry, team string) []string {
	players := reg.Players(team)
	if players == nil {
		return []string{}
	}
	return players
}

// SearchPlayers filters the pool of team by a case-insensitive substring.
// A limit <= 0 means no limit.
func SearchPlayers(reg *Registry, team, query string, limit int) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	out := []string{}
	for _, p := range Suggestions(reg, team) {
		if query != "" && !strings.Contains(strings.ToLower(p), query) {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// bindSuggestions rebinds the suggestion source of side after its team changed.
func bindSuggestions(reg *Registry, side models.Side, team string) []Effect {
	enabled := reg.HasPool(team)
	players := []string{}
	if enabled {
		players = Suggestions(reg, team)
	}
	return []Effect{
		SearchToggled{Side: side, Enabled: enabled},
		SuggestionsReplaced{Side: side, Players: players},
	}
}

// SearchEnabled reports whether the player search of side accepts input.
func SearchEnabled(reg *Registry, setup *MatchSetup, side models.Side) bool {
	return reg.HasPool(setup.Team(side))
}
