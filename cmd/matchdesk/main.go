// Command matchdesk builds a match setup from flags, asks the prediction
// service for a forecast and prints the dashboard.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/crease-labs/matchdesk/internal/logic"
	"github.com/crease-labs/matchdesk/internal/models"
	"github.com/crease-labs/matchdesk/internal/predictor"
	"github.com/crease-labs/matchdesk/internal/views"
)

type options struct {
	team1, team2 string
	venue        string
	battingFirst string
	total        string
	team1Players string
	team2Players string
	rosterFile   string
	url          string
	token        string
	timeout      time.Duration
	asJSON       bool
	verbose      bool
}

func main() {
	_ = godotenv.Load()

	var opts options
	flag.StringVar(&opts.team1, "team1", "", "first team")
	flag.StringVar(&opts.team2, "team2", "", "second team")
	flag.StringVar(&opts.venue, "venue", "", "match venue")
	flag.StringVar(&opts.battingFirst, "batting-first", "", "team batting first")
	flag.StringVar(&opts.total, "total", "", "first innings total")
	flag.StringVar(&opts.team1Players, "team1-players", "", "comma separated team 1 roster")
	flag.StringVar(&opts.team2Players, "team2-players", "", "comma separated team 2 roster")
	flag.StringVar(&opts.rosterFile, "roster-file", os.Getenv("ROSTER_FILE"), "JSON roster registry")
	flag.StringVar(&opts.url, "url", envOr("PREDICTION_URL", "http://localhost:8000/predict/"), "prediction endpoint")
	flag.StringVar(&opts.token, "token", os.Getenv("PREDICTION_CSRF_TOKEN"), "anti-forgery token")
	flag.DurationVar(&opts.timeout, "timeout", 30*time.Second, "request timeout")
	flag.BoolVar(&opts.asJSON, "json", false, "print the session view as JSON")
	flag.BoolVar(&opts.verbose, "v", false, "verbose logging")
	flag.Parse()

	logger := newLogger(opts.verbose)
	defer logger.Sync()

	client := predictor.New(predictor.Config{URL: opts.url, Timeout: opts.timeout, Logger: logger})
	if err := run(context.Background(), opts, client, logger, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, p logic.Predictor, logger *zap.Logger, stdout, stderr io.Writer) error {
	reg, err := buildRegistry(opts)
	if err != nil {
		return err
	}

	s := logic.NewSession("cli", opts.token)
	if err := applySetup(reg, s, opts, stderr); err != nil {
		return err
	}

	dispatcher := logic.NewDispatcher(p, opts.timeout, logger)
	outcome, _, err := dispatcher.Submit(ctx, s)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(logic.Snapshot(reg, s)); err != nil {
			return err
		}
	} else if s.Dashboard.View != nil {
		if err := views.WriteText(stdout, s.Dashboard.View); err != nil {
			return err
		}
	}

	if outcome != logic.OutcomeSuccess && s.Dashboard.Notice != nil {
		return errors.New(s.Dashboard.Notice.Message)
	}
	return nil
}

// buildRegistry loads the registry file, or makes one from the rosters given
// on the command line so their search is enabled.
func buildRegistry(opts options) (*logic.Registry, error) {
	if opts.rosterFile != "" {
		f, err := os.Open(opts.rosterFile)
		if err != nil {
			return nil, fmt.Errorf("open roster file: %w", err)
		}
		defer f.Close()
		return logic.LoadRegistryJSON(f)
	}

	pools := map[string][]string{}
	for _, side := range []struct{ team, players string }{
		{opts.team1, opts.team1Players},
		{opts.team2, opts.team2Players},
	} {
		if side.team != "" {
			pools[side.team] = append(pools[side.team], splitList(side.players)...)
		}
	}
	return logic.NewRegistry(pools), nil
}

func applySetup(reg *logic.Registry, s *logic.Session, opts options, stderr io.Writer) error {
	setup := &s.Setup
	logic.ChangeTeam(reg, setup, models.SideA, opts.team1)
	logic.ChangeTeam(reg, setup, models.SideB, opts.team2)

	lists := [2]string{opts.team1Players, opts.team2Players}
	for i, side := range models.Sides {
		for _, name := range splitList(lists[i]) {
			if outcome, _ := logic.AddPlayer(reg, setup, side, name); outcome != logic.AddedPlayer {
				fmt.Fprintf(stderr, "%s: skipped %q (%s)\n", side, name, outcome)
			}
		}
	}

	if _, err := logic.SelectBattingFirst(setup, opts.battingFirst); err != nil {
		return err
	}
	logic.SetVenue(setup, opts.venue)
	return logic.SetFirstInningsTotal(setup, opts.total)
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
