package logic

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/crease-labs/matchdesk/internal/models"
)

func readySession(reg *Registry) *Session {
	s := NewSession("sess-1", "tok-123")
	ChangeTeam(reg, &s.Setup, models.SideA, "India")
	ChangeTeam(reg, &s.Setup, models.SideB, "Australia")
	return s
}

func TestSubmit_ValidationNeverCallsService(t *testing.T) {
	reg := testRegistry()

	tests := []struct {
		name    string
		teamA   string
		teamB   string
		message string
	}{
		{"No teams", "", "", MsgSelectBothTeams},
		{"One team", "India", "", MsgSelectBothTeams},
		{"Same teams", "India", "India", MsgSameTeams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			predictor := &MockPredictor{}
			d := NewDispatcher(predictor, time.Second, zap.NewNop())
			s := NewSession("s", "tok")
			ChangeTeam(reg, &s.Setup, models.SideA, tt.teamA)
			ChangeTeam(reg, &s.Setup, models.SideB, tt.teamB)

			_, effects, err := d.Submit(context.Background(), s)

			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Message != tt.message {
				t.Errorf("err = %v, want %q", err, tt.message)
			}
			if predictor.Calls != 0 {
				t.Errorf("predictor called %d times", predictor.Calls)
			}
			if len(effects) != 1 || effects[0] != (ValidationFailed{Message: tt.message}) {
				t.Errorf("effects = %+v", effects)
			}
			if s.Dashboard.Visible || s.Dashboard.Busy {
				t.Errorf("dashboard touched: %+v", s.Dashboard)
			}
		})
	}
}

func TestBegin_SerialisesSetup(t *testing.T) {
	reg := testRegistry()
	s := readySession(reg)
	SetVenue(&s.Setup, "Wankhede Stadium")
	SelectBattingFirst(&s.Setup, "India")
	SetFirstInningsTotal(&s.Setup, "312")
	for _, p := range []string{"Virat Kohli", "Rohit Sharma", "Jasprit Bumrah"} {
		AddPlayer(reg, &s.Setup, models.SideA, p)
	}
	AddPlayer(reg, &s.Setup, models.SideB, "Travis Head")

	ticket, _, err := Begin(s)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	want := models.PredictionRequest{
		CSRFToken:         "tok-123",
		Team1:             "India",
		Team2:             "Australia",
		Venue:             "Wankhede Stadium",
		BattingFirst:      "India",
		FirstInningsTotal: "312",
		Team1Players:      []string{"Virat Kohli", "Rohit Sharma", "Jasprit Bumrah"},
		Team2Players:      []string{"Travis Head"},
	}
	if !reflect.DeepEqual(ticket.Request, want) {
		t.Errorf("request = %+v\nwant %+v", ticket.Request, want)
	}

	// The request is a snapshot, later roster edits must not leak into it.
	RemovePlayer(&s.Setup, models.SideA, "Virat Kohli")
	if ticket.Request.Team1Players[0] != "Virat Kohli" {
		t.Error("request shares storage with the roster")
	}
}

func TestBegin_BusyStateAndGuard(t *testing.T) {
	s := readySession(testRegistry())
	s.Dashboard.View = &DashboardView{Headline: "old"}
	s.Dashboard.ContentVisible = true

	ticket, effects, err := Begin(s)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if ticket.Seq != 1 {
		t.Errorf("seq = %d, want 1", ticket.Seq)
	}
	want := DashboardUpdated{Visible: true, Spinner: true, ContentVisible: false}
	if len(effects) != 1 || effects[0] != want {
		t.Errorf("effects = %+v", effects)
	}
	if s.Dashboard.View == nil {
		t.Error("previous result must only be hidden, not cleared")
	}

	if _, _, err := Begin(s); !errors.Is(err, ErrBusy) {
		t.Errorf("second Begin = %v, want ErrBusy", err)
	}
}

func TestBegin_ExpiredBusyIsReissued(t *testing.T) {
	s := readySession(testRegistry())
	first, _, _ := Begin(s)
	s.Dashboard.BusySince = time.Now().Add(-2 * BusyTimeout)

	second, _, err := Begin(s)
	if err != nil {
		t.Fatalf("Begin after expiry: %v", err)
	}
	if second.Seq != first.Seq+1 {
		t.Errorf("seq = %d, want %d", second.Seq, first.Seq+1)
	}

	outcome, effects := Settle(s, first.Seq, &models.PredictionResponse{Error: "late"}, nil)
	if outcome != OutcomeStale || effects != nil {
		t.Errorf("late response applied: %s %+v", outcome, effects)
	}
	if !s.Dashboard.Busy {
		t.Error("stale response cleared the busy state of the newer request")
	}
}

func TestSubmit_Success(t *testing.T) {
	predictor := &MockPredictor{PredictFunc: func(ctx context.Context, req models.PredictionRequest) (*models.PredictionResponse, error) {
		return &models.PredictionResponse{Result: &models.PredictionResult{
			FinalPrediction: models.FinalPrediction{Winner: "India", Probability: 62},
			StatisticalFactors: []models.StatisticalFactor{
				{Name: "Form", Advantage: "India"},
				{Name: "Pitch", Advantage: "Neutral"},
			},
			MLModels: []models.MLModel{},
		}}, nil
	}}
	d := NewDispatcher(predictor, time.Second, zap.NewNop())
	s := readySession(testRegistry())

	outcome, effects, err := d.Submit(context.Background(), s)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if outcome != OutcomeSuccess || predictor.Calls != 1 {
		t.Errorf("outcome %s calls %d", outcome, predictor.Calls)
	}
	if s.Dashboard.Busy || !s.Dashboard.ContentVisible || s.Dashboard.View == nil {
		t.Fatalf("dashboard = %+v", s.Dashboard)
	}
	if s.Dashboard.View.Factors[0].Emphasis != EmphasisFavorable || s.Dashboard.View.Factors[1].Emphasis != EmphasisNeutral {
		t.Errorf("factors = %+v", s.Dashboard.View.Factors)
	}
	if _, ok := findEffect(effects, func(e ResultRendered) bool { return true }); !ok {
		t.Error("missing ResultRendered effect")
	}
}

func TestSubmit_ApplicationError(t *testing.T) {
	predictor := &MockPredictor{PredictFunc: func(ctx context.Context, req models.PredictionRequest) (*models.PredictionResponse, error) {
		return &models.PredictionResponse{Error: "timeout"}, nil
	}}
	d := NewDispatcher(predictor, time.Second, zap.NewNop())
	s := readySession(testRegistry())
	s.Dashboard.View = &DashboardView{Headline: "previous"}

	outcome, effects, _ := d.Submit(context.Background(), s)

	if outcome != OutcomeAppError {
		t.Errorf("outcome = %s", outcome)
	}
	if _, ok := findEffect(effects, func(e ResultRendered) bool { return true }); ok {
		t.Error("renderer must not run for an error response")
	}
	n, ok := findEffect(effects, func(e Notice) bool { return true })
	if !ok || n.Message != "An error occurred: timeout" {
		t.Errorf("notice = %+v", n)
	}
	if !s.Dashboard.Visible || s.Dashboard.Busy || s.Dashboard.View != nil {
		t.Errorf("dashboard = %+v", s.Dashboard)
	}
}

func TestSubmit_TransportFailure(t *testing.T) {
	predictor := &MockPredictor{PredictFunc: func(ctx context.Context, req models.PredictionRequest) (*models.PredictionResponse, error) {
		return nil, errors.New("connection reset")
	}}
	d := NewDispatcher(predictor, time.Second, zap.NewNop())
	s := readySession(testRegistry())

	outcome, _, _ := d.Submit(context.Background(), s)

	if outcome != OutcomeTransport {
		t.Errorf("outcome = %s", outcome)
	}
	if s.Dashboard.Busy || s.Dashboard.ContentVisible {
		t.Errorf("dashboard = %+v", s.Dashboard)
	}
	if s.Dashboard.Notice == nil || s.Dashboard.Notice.Message != MsgCriticalFailure {
		t.Errorf("notice = %+v", s.Dashboard.Notice)
	}

	// The session recovers: a new submission goes out.
	predictor.PredictFunc = nil
	if outcome, _, err := d.Submit(context.Background(), s); err != nil || outcome != OutcomeSuccess {
		t.Errorf("retry = %s, %v", outcome, err)
	}
}
