package models

import (
	"fmt"
	"strings"
)

// MaxRosterSize is the number of players that take the field for one side.
const MaxRosterSize = 11

// Side identifies one of the two competing teams of a match setup.
type Side int

const (
	SideA Side = 1
	SideB Side = 2
)

// Sides lists both sides in display order.
var Sides = [2]Side{SideA, SideB}

// Valid reports whether s is SideA or SideB.
func (s Side) Valid() bool {
	return s == SideA || s == SideB
}

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

func (s Side) String() string {
	return fmt.Sprintf("team%d", int(s))
}

// ParseSide accepts "1"/"2", "a"/"b" and "team1"/"team2".
func ParseSide(raw string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "a", "team1":
		return SideA, nil
	case "2", "b", "team2":
		return SideB, nil
	}
	return 0, fmt.Errorf("invalid side %q", raw)
}

// PredictionRequest is the composed match description sent to the prediction service.
// Player slices keep roster insertion order.
type PredictionRequest struct {
	CSRFToken         string   `json:"-"`
	Team1             string   `json:"team1"`
	Team2             string   `json:"team2"`
	Venue             string   `json:"venue"`
	BattingFirst      string   `json:"batting_first"`
	FirstInningsTotal string   `json:"first_innings_total"`
	Team1Players      []string `json:"team1_players"`
	Team2Players      []string `json:"team2_players"`
}

// Players returns the roster submitted for side.
func (r PredictionRequest) Players(side Side) []string {
	if side == SideB {
		return r.Team2Players
	}
	return r.Team1Players
}
