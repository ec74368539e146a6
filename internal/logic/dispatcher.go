package logic

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/crease-labs/matchdesk/internal/models"
)

// User-facing messages of the dispatcher.
const (
	MsgSelectBothTeams = "Please select both teams to start the analysis."
	MsgSameTeams       = "Team 1 and Team 2 cannot be the same."
	MsgCriticalFailure = "A critical error occurred while fetching the prediction."
	msgServiceError    = "An error occurred: "
)

// ErrBusy is returned when a prediction is submitted while one is in flight.
var ErrBusy = errors.New("prediction already in flight")

// BusyTimeout bounds how long an unsettled request blocks new submissions,
// e.g. when the process handling it died. Its late response is then stale.
var BusyTimeout = 2 * time.Minute

// Outcome classifies how a prediction request settled
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeAppError  Outcome = "app_error"
	OutcomeTransport Outcome = "transport_error"
	OutcomeStale     Outcome = "stale"
)

// Ticket identifies an issued prediction request.
type Ticket struct {
	Seq     uint64
	Request models.PredictionRequest
}

// BuildRequest serialises the session's setup together with its anti-forgery token.
func BuildRequest(s *Session) models.PredictionRequest {
	setup := &s.Setup
	return models.PredictionRequest{
		CSRFToken:         s.CSRFToken,
		Team1:             setup.TeamA,
		Team2:             setup.TeamB,
		Venue:             setup.Venue,
		BattingFirst:      setup.BattingFirst,
		FirstInningsTotal: setup.FirstInningsTotal,
		Team1Players:      setup.Roster(models.SideA).Snapshot(),
		Team2Players:      setup.Roster(models.SideB).Snapshot(),
	}
}

// ValidateSubmission checks the preconditions of a prediction request.
func ValidateSubmission(setup *MatchSetup) error {
	if setup.TeamA == "" || setup.TeamB == "" {
		return &ValidationError{Message: MsgSelectBothTeams}
	}
	if setup.TeamA == setup.TeamB {
		return &ValidationError{Message: MsgSameTeams}
	}
	return nil
}

// Begin validates the setup and puts the session into the busy state.
// The previous result stays in the session but is hidden.
func Begin(s *Session) (Ticket, []Effect, error) {
	if err := ValidateSubmission(&s.Setup); err != nil {
		return Ticket{}, []Effect{ValidationFailed{Message: err.Error()}}, err
	}
	if s.Dashboard.Busy && time.Since(s.Dashboard.BusySince) < BusyTimeout {
		return Ticket{}, nil, ErrBusy
	}

	s.Seq++
	s.Dashboard.Visible = true
	s.Dashboard.Busy = true
	s.Dashboard.BusySince = time.Now()
	s.Dashboard.ContentVisible = false
	s.Dashboard.Notice = nil

	return Ticket{Seq: s.Seq, Request: BuildRequest(s)}, []Effect{dashboardUpdated(&s.Dashboard)}, nil
}

// Settle applies the outcome of the request identified by seq. Responses to
// anything but the latest issued request are discarded.
func Settle(s *Session, seq uint64, resp *models.PredictionResponse, callErr error) (Outcome, []Effect) {
	if seq != s.Seq || !s.Dashboard.Busy {
		return OutcomeStale, nil
	}

	d := &s.Dashboard
	d.Busy = false
	d.BusySince = time.Time{}

	switch {
	case callErr != nil || resp == nil:
		d.View = nil
		d.ContentVisible = false
		d.Notice = &Notice{Level: NoticeCritical, Message: MsgCriticalFailure}
		return OutcomeTransport, []Effect{dashboardUpdated(d), *d.Notice}

	case resp.Failed():
		d.View = nil
		d.ContentVisible = true
		d.Notice = &Notice{Level: NoticeError, Message: msgServiceError + resp.Error}
		return OutcomeAppError, []Effect{dashboardUpdated(d), *d.Notice}
	}

	d.View = Render(resp.Result)
	d.ContentVisible = true
	return OutcomeSuccess, []Effect{dashboardUpdated(d), ResultRendered{View: d.View}}
}

func dashboardUpdated(d *Dashboard) DashboardUpdated {
	return DashboardUpdated{Visible: d.Visible, Spinner: d.Busy, ContentVisible: d.ContentVisible}
}

// Dispatcher performs the remote call of an issued ticket.
type Dispatcher struct {
	predictor Predictor
	timeout   time.Duration
	logger    *zap.SugaredLogger
}

// NewDispatcher creates a dispatcher. A zero timeout leaves the deadline to the caller's context.
func NewDispatcher(p Predictor, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{predictor: p, timeout: timeout, logger: logger.Sugar()}
}

// Call performs exactly one prediction request for t.
func (d *Dispatcher) Call(ctx context.Context, t Ticket) (*models.PredictionResponse, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := d.predictor.Predict(ctx, t.Request)
	if err != nil {
		d.logger.Warnw("Prediction request failed",
			"seq", t.Seq,
			"team1", t.Request.Team1,
			"team2", t.Request.Team2,
			"duration", time.Since(start),
			"error", err,
		)
		return nil, err
	}
	d.logger.Infow("Prediction request settled",
		"seq", t.Seq,
		"team1", t.Request.Team1,
		"team2", t.Request.Team2,
		"failed", resp.Failed(),
		"duration", time.Since(start),
	)
	return resp, nil
}

// Submit runs Begin, Call and Settle back to back on a session owned by the caller.
func (d *Dispatcher) Submit(ctx context.Context, s *Session) (Outcome, []Effect, error) {
	ticket, effects, err := Begin(s)
	if err != nil {
		return "", effects, err
	}
	resp, callErr := d.Call(ctx, ticket)
	outcome, settled := Settle(s, ticket.Seq, resp, callErr)
	return outcome, append(effects, settled...), nil
}
