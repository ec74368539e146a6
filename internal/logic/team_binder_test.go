package logic

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/crease-labs/matchdesk/internal/models"
)

func findEffect[T Effect](effects []Effect, match func(T) bool) (T, bool) {
	for _, e := range effects {
		if v, ok := e.(T); ok && match(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func TestChangeTeam_ResetsDependentState(t *testing.T) {
	reg := testRegistry()
	setup := NewMatchSetup()

	ChangeTeam(reg, &setup, models.SideA, "India")
	ChangeTeam(reg, &setup, models.SideB, "Australia")
	AddPlayer(reg, &setup, models.SideA, "Virat Kohli")
	AddPlayer(reg, &setup, models.SideB, "Steve Smith")
	if _, err := SelectBattingFirst(&setup, "India"); err != nil {
		t.Fatalf("SelectBattingFirst: %v", err)
	}
	if err := SetFirstInningsTotal(&setup, "287"); err != nil {
		t.Fatalf("SetFirstInningsTotal: %v", err)
	}

	// Only side B changes, both rosters must still be cleared.
	effects := ChangeTeam(reg, &setup, models.SideB, "India")

	if setup.BattingFirst != "" || setup.FirstInningsEnabled() || setup.FirstInningsTotal != "" {
		t.Errorf("batting first not reset: %+v", setup)
	}
	if setup.Roster(models.SideA).Count() != 0 || setup.Roster(models.SideB).Count() != 0 {
		t.Error("both rosters must be cleared")
	}

	opts, ok := findEffect(effects, func(e BattingOptionsReset) bool { return true })
	if !ok {
		t.Fatal("missing BattingOptionsReset")
	}
	if !reflect.DeepEqual(opts.Options, []string{"India", "India"}) || !opts.Enabled {
		t.Errorf("options = %+v", opts)
	}
	for _, side := range models.Sides {
		if _, ok := findEffect(effects, func(e RosterReset) bool { return e.Side == side }); !ok {
			t.Errorf("missing RosterReset for %v", side)
		}
		c, ok := findEffect(effects, func(e CountUpdated) bool { return e.Side == side })
		if !ok || c.Label != "0/11 Players" || c.Complete {
			t.Errorf("count for %v = %+v", side, c)
		}
	}
}

func TestChangeTeam_BattingOptionsAndSearch(t *testing.T) {
	reg := testRegistry()

	tests := []struct {
		name          string
		teamA, teamB  string
		wantOptions   []string
		wantEnabled   bool
		wantSearchA   bool
		wantSearchB   bool
		wantLabelB    string
		wantSuggestsA int
	}{
		{"No teams", "", "", []string{}, false, false, false, "Team 2 Squad", 0},
		{"Only team 1", "India", "", []string{"India"}, false, true, false, "Team 2 Squad", 12},
		{"Unknown team", "India", "Mars", []string{"India", "Mars"}, true, true, false, "Mars Squad", 12},
		{"Team without pool", "Nowhere", "Australia", []string{"Nowhere", "Australia"}, true, false, true, "Australia Squad", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup := NewMatchSetup()
			ChangeTeam(reg, &setup, models.SideA, tt.teamA)
			effects := ChangeTeam(reg, &setup, models.SideB, tt.teamB)

			opts, _ := findEffect(effects, func(e BattingOptionsReset) bool { return true })
			if !reflect.DeepEqual(opts.Options, tt.wantOptions) || opts.Enabled != tt.wantEnabled {
				t.Errorf("options = %+v, want %v enabled=%v", opts, tt.wantOptions, tt.wantEnabled)
			}

			a, _ := findEffect(effects, func(e SearchToggled) bool { return e.Side == models.SideA })
			b, _ := findEffect(effects, func(e SearchToggled) bool { return e.Side == models.SideB })
			if a.Enabled != tt.wantSearchA || b.Enabled != tt.wantSearchB {
				t.Errorf("search enabled = %v/%v, want %v/%v", a.Enabled, b.Enabled, tt.wantSearchA, tt.wantSearchB)
			}

			s, _ := findEffect(effects, func(e SuggestionsReplaced) bool { return e.Side == models.SideA })
			if len(s.Players) != tt.wantSuggestsA {
				t.Errorf("suggestions A = %d, want %d", len(s.Players), tt.wantSuggestsA)
			}

			label, _ := findEffect(effects, func(e RosterReset) bool { return e.Side == models.SideB })
			if label.Label != tt.wantLabelB {
				t.Errorf("label B = %q, want %q", label.Label, tt.wantLabelB)
			}
		})
	}
}

func TestSelectBattingFirst(t *testing.T) {
	reg := testRegistry()
	setup := NewMatchSetup()
	ChangeTeam(reg, &setup, models.SideA, "India")

	var verr *ValidationError
	if _, err := SelectBattingFirst(&setup, "India"); !errors.As(err, &verr) {
		t.Errorf("batting first with one team should fail, got %v", err)
	}

	ChangeTeam(reg, &setup, models.SideB, "Australia")
	if _, err := SelectBattingFirst(&setup, "England"); !errors.As(err, &verr) {
		t.Errorf("foreign team should fail, got %v", err)
	}

	effects, err := SelectBattingFirst(&setup, "Australia")
	if err != nil {
		t.Fatalf("SelectBattingFirst: %v", err)
	}
	toggle, ok := findEffect(effects, func(e FirstInningsToggled) bool { return true })
	if !ok || !toggle.Enabled {
		t.Errorf("first innings should be enabled, got %+v", effects)
	}

	if err := SetFirstInningsTotal(&setup, "301"); err != nil {
		t.Fatalf("SetFirstInningsTotal: %v", err)
	}
	effects, _ = SelectBattingFirst(&setup, "")
	toggle, _ = findEffect(effects, func(e FirstInningsToggled) bool { return true })
	if toggle.Enabled || setup.FirstInningsTotal != "" {
		t.Errorf("unselecting batting first must disable and clear the total: %+v", setup)
	}
}

func TestSetFirstInningsTotal(t *testing.T) {
	setup := NewMatchSetup()
	setup.TeamA, setup.TeamB = "India", "Australia"

	var verr *ValidationError
	if err := SetFirstInningsTotal(&setup, "250"); !errors.As(err, &verr) {
		t.Errorf("total while disabled should fail, got %v", err)
	}

	setup.BattingFirst = "India"
	for _, bad := range []string{"abc", "-4", "12.5"} {
		if err := SetFirstInningsTotal(&setup, bad); !errors.As(err, &verr) {
			t.Errorf("SetFirstInningsTotal(%q) should fail", bad)
		}
	}
	if err := SetFirstInningsTotal(&setup, " 0287 "); err != nil || setup.FirstInningsTotal != "287" {
		t.Errorf("got %q, %v", setup.FirstInningsTotal, err)
	}
}

func TestAddPlayer_Effects(t *testing.T) {
	reg := testRegistry()
	setup := NewMatchSetup()

	outcome, effects := AddPlayer(reg, &setup, models.SideA, "Virat Kohli")
	if outcome != IgnoredDisabled || len(effects) != 1 {
		t.Errorf("add without team: %v %+v", outcome, effects)
	}

	ChangeTeam(reg, &setup, models.SideA, "India")
	players := reg.Players("India")
	for i, p := range players {
		outcome, effects = AddPlayer(reg, &setup, models.SideA, p)
		if _, ok := findEffect(effects, func(e SearchCleared) bool { return e.Side == models.SideA }); !ok {
			t.Fatalf("add %d did not clear the input", i)
		}
		if i < models.MaxRosterSize {
			if outcome != AddedPlayer {
				t.Fatalf("add %d = %v", i, outcome)
			}
			c, _ := findEffect(effects, func(e CountUpdated) bool { return true })
			if c.Complete != (i == models.MaxRosterSize-1) {
				t.Errorf("add %d complete = %v", i, c.Complete)
			}
		} else if outcome != IgnoredFull {
			t.Errorf("12th add = %v, want ignored_full", outcome)
		}
	}

	effects = RemovePlayer(&setup, models.SideA, players[3])
	c, ok := findEffect(effects, func(e CountUpdated) bool { return true })
	if !ok || c.Count != 10 || c.Complete || c.Label != "10/11 Players" {
		t.Errorf("after remove: %+v", c)
	}
	if RemovePlayer(&setup, models.SideA, "Nobody") != nil {
		t.Error("removing an unknown player should produce no effects")
	}
}

// For every reachable state the first innings total is enabled iff batting first is set.
func TestFirstInningsInvariant_RandomEvents(t *testing.T) {
	reg := testRegistry()
	rng := rand.New(rand.NewSource(7))
	teams := []string{"", "India", "Australia", "Mars"}

	for run := 0; run < 100; run++ {
		setup := NewMatchSetup()
		for step := 0; step < 30; step++ {
			switch rng.Intn(4) {
			case 0:
				ChangeTeam(reg, &setup, models.Sides[rng.Intn(2)], teams[rng.Intn(len(teams))])
			case 1:
				SelectBattingFirst(&setup, teams[rng.Intn(len(teams))])
			case 2:
				SetFirstInningsTotal(&setup, "180")
			case 3:
				AddPlayer(reg, &setup, models.Sides[rng.Intn(2)], "Virat Kohli")
			}

			if setup.FirstInningsEnabled() != (setup.BattingFirst != "") {
				t.Fatalf("run %d step %d: invariant broken %+v", run, step, setup)
			}
			if setup.BattingFirst != "" && setup.BattingFirst != setup.TeamA && setup.BattingFirst != setup.TeamB {
				t.Fatalf("run %d step %d: batting first %q not a chosen team", run, step, setup.BattingFirst)
			}
			if setup.FirstInningsTotal != "" && setup.BattingFirst == "" {
				t.Fatalf("run %d step %d: total kept without batting first", run, step)
			}
		}
	}
}
