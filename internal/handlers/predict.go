package handlers

import (
	"context"
	"time"

	"github.com/crease-labs/matchdesk/internal/logic"
	"github.com/crease-labs/matchdesk/internal/worker"
)

// predictResult is the settled state of one submission.
type predictResult struct {
	Outcome logic.Outcome
	Effects []logic.Effect
	Session *logic.Session
}

// predict runs one submission of session id. The session lock is held while
// the request is issued and while it is settled, never during the call, so
// setup edits stay responsive.
func (h *Handler) predict(ctx context.Context, id string) (*predictResult, error) {
	var (
		ticket logic.Ticket
		begun  []logic.Effect
	)
	s, err := h.sessions.Update(ctx, id, func(s *logic.Session) error {
		var err error
		ticket, begun, err = logic.Begin(s)
		return err
	})
	if err != nil {
		return &predictResult{Effects: begun, Session: s}, err
	}
	sessionEvents.WithLabelValues("predict").Inc()

	start := time.Now()
	resp, callErr := h.dispatcher.Call(ctx, ticket)
	latency := time.Since(start)

	// The client may be gone, but the session must still leave the busy state.
	settleCtx := context.WithoutCancel(ctx)
	var (
		outcome logic.Outcome
		settled []logic.Effect
	)
	s, err = h.sessions.Update(settleCtx, id, func(s *logic.Session) error {
		outcome, settled = logic.Settle(s, ticket.Seq, resp, callErr)
		return nil
	})
	if err != nil {
		return nil, err
	}
	predictionOutcomes.WithLabelValues(string(outcome)).Inc()

	rec := worker.Record{
		Timestamp:    start.UTC(),
		SessionID:    id,
		Seq:          ticket.Seq,
		Team1:        ticket.Request.Team1,
		Team2:        ticket.Request.Team2,
		Venue:        ticket.Request.Venue,
		BattingFirst: ticket.Request.BattingFirst,
		Team1Players: len(ticket.Request.Team1Players),
		Team2Players: len(ticket.Request.Team2Players),
		Outcome:      string(outcome),
		Latency:      latency,
	}
	if outcome == logic.OutcomeSuccess && resp != nil && resp.Result != nil {
		rec.Winner = resp.Result.FinalPrediction.Winner
		rec.Probability = float64(resp.Result.FinalPrediction.Probability)
	}
	if !h.audit.Enqueue(rec) {
		auditDropped.Inc()
	}

	return &predictResult{
		Outcome: outcome,
		Effects: append(begun, settled...),
		Session: s,
	}, nil
}
