package logic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Registry maps a team name to its eligible players. It is built once at
// startup and never mutated afterwards, so it is safe to share between sessions.
type Registry struct {
	teams map[string][]string
}

// NewRegistry copies src so later changes to it do not leak in.
func NewRegistry(src map[string][]string) *Registry {
	teams := make(map[string][]string, len(src))
	for team, players := range src {
		teams[team] = append([]string(nil), players...)
	}
	return &Registry{teams: teams}
}

// Players returns the pool for team in its original order, or nil when the team is unknown.
func (r *Registry) Players(team string) []string {
	if r == nil || team == "" {
		return nil
	}
	players, ok := r.teams[team]
	if !ok {
		return nil
	}
	return append([]string(nil), players...)
}

// HasPool reports whether team is known and has at least one player.
func (r *Registry) HasPool(team string) bool {
	if r == nil || team == "" {
		return false
	}
	return len(r.teams[team]) > 0
}

// Teams returns every team name, sorted.
func (r *Registry) Teams() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.teams))
	for name := range r.teams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of teams
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.teams)
}

// LoadRegistryJSON reads a {"Team": ["Player", ...]} document.
func LoadRegistryJSON(rd io.Reader) (*Registry, error) {
	var raw map[string][]string
	if err := json.NewDecoder(rd).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode roster registry: %w", err)
	}
	return NewRegistry(raw), nil
}

// LoadRegistryPostgres reads the team_players table, keeping each team's
// players in position order.
func LoadRegistryPostgres(ctx context.Context, pg PgPool) (*Registry, error) {
	rows, err := pg.Query(ctx, `
		SELECT team_name, player_name
		FROM team_players
		ORDER BY team_name, position, player_name
	`)
	if err != nil {
		return nil, fmt.Errorf("query team_players: %w", err)
	}
	defer rows.Close()

	teams := make(map[string][]string)
	for rows.Next() {
		var team, player string
		if err := rows.Scan(&team, &player); err != nil {
			return nil, fmt.Errorf("scan team_players: %w", err)
		}
		teams[team] = append(teams[team], player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team_players: %w", err)
	}
	return &Registry{teams: teams}, nil
}
