package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/crease-labs/matchdesk/internal/logic"
)

type createSessionRequest struct {
	CSRFToken string `json:"csrf_token" validate:"max=256"`
}

type teamRequest struct {
	Team string `json:"team" validate:"max=100"`
}

type battingFirstRequest struct {
	BattingFirst string `json:"batting_first" validate:"max=100"`
}

type venueRequest struct {
	Venue string `json:"venue" validate:"max=200"`
}

type firstInningsTotalRequest struct {
	FirstInningsTotal string `json:"first_innings_total" validate:"max=10"`
}

type playerRequest struct {
	Player string `json:"player" validate:"required,max=100"`
}

// mutationResponse is the body of every successful session event.
type mutationResponse struct {
	Effects logic.EffectList  `json:"effects"`
	State   logic.SessionView `json:"state"`
	Outcome string            `json:"outcome,omitempty"`
}

func (h *Handler) respondMutation(w http.ResponseWriter, s *logic.Session, effects []logic.Effect, outcome string) {
	if effects == nil {
		effects = []logic.Effect{}
	}
	h.jsonResponse(w, http.StatusOK, mutationResponse{
		Effects: effects,
		State:   logic.Snapshot(h.registry, s),
		Outcome: outcome,
	})
}

// ListTeams returns the teams known to the roster registry
// @Summary List Teams
// @Tags Setup
// @Produce json
// @Success 200 {array} string
// @Router /teams [get]
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, h.registry.Teams())
}

// CreateSession starts an empty match setup
// @Summary Create Session
// @Tags Setup
// @Accept json
// @Produce json
// @Success 201 {object} logic.SessionView
// @Router /sessions [post]
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.ContentLength != 0 && !h.decodeJSON(w, r, &req) {
		return
	}
	token := req.CSRFToken
	if token == "" {
		token = h.csrfToken
	}

	s, err := h.sessions.Create(r.Context(), token)
	if err != nil {
		h.sessionError(w, "", err, nil)
		return
	}
	h.jsonResponse(w, http.StatusCreated, logic.Snapshot(h.registry, s))
}

// GetSession returns the current view of a session
// @Summary Get Session
// @Tags Setup
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} logic.SessionView
// @Failure 404 {object} map[string]string
// @Router /sessions/{id} [get]
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		h.sessionError(w, id, err, nil)
		return
	}
	h.jsonResponse(w, http.StatusOK, logic.Snapshot(h.registry, s))
}

// DeleteSession discards a session
// @Summary Delete Session
// @Tags Setup
// @Param id path string true "Session ID"
// @Success 204
// @Router /sessions/{id} [delete]
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.sessions.Delete(r.Context(), id); err != nil {
		h.sessionError(w, id, err, nil)
		return
	}
	sessionEvents.WithLabelValues("delete").Inc()
	w.WriteHeader(http.StatusNoContent)
}

// SetTeam changes the team of one side, resetting batting first and both rosters
// @Summary Set Team
// @Tags Setup
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param side path string true "Side (1 or 2)"
// @Router /sessions/{id}/teams/{side} [put]
func (h *Handler) SetTeam(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	side, ok := h.sideParam(w, r)
	if !ok {
		return
	}
	var req teamRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	var effects []logic.Effect
	s, err := h.sessions.Update(r.Context(), id, func(s *logic.Session) error {
		effects = logic.ChangeTeam(h.registry, &s.Setup, side, req.Team)
		return nil
	})
	if err != nil {
		h.sessionError(w, id, err, nil)
		return
	}
	sessionEvents.WithLabelValues("team").Inc()
	h.respondMutation(w, s, effects, "")
}

// SetBattingFirst chooses the team batting first
// @Summary Set Batting First
// @Tags Setup
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Failure 422 {object} map[string]string
// @Router /sessions/{id}/batting-first [put]
func (h *Handler) SetBattingFirst(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req battingFirstRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	var effects []logic.Effect
	s, err := h.sessions.Update(r.Context(), id, func(s *logic.Session) error {
		var err error
		effects, err = logic.SelectBattingFirst(&s.Setup, req.BattingFirst)
		return err
	})
	if err != nil {
		h.sessionError(w, id, err, nil)
		return
	}
	sessionEvents.WithLabelValues("batting_first").Inc()
	h.respondMutation(w, s, effects, "")
}

// SetVenue records the venue
// @Summary Set Venue
// @Tags Setup
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Router /sessions/{id}/venue [put]
func (h *Handler) SetVenue(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req venueRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	s, err := h.sessions.Update(r.Context(), id, func(s *logic.Session) error {
		logic.SetVenue(&s.Setup, req.Venue)
		return nil
	})
	if err != nil {
		h.sessionError(w, id, err, nil)
		return
	}
	sessionEvents.WithLabelValues("venue").Inc()
	h.respondMutation(w, s, nil, "")
}

// SetFirstInningsTotal records the first innings total
// @Summary Set First Innings Total
// @Tags Setup
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Failure 422 {object} map[string]string
// @Router /sessions/{id}/first-innings-total [put]
func (h *Handler) SetFirstInningsTotal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req firstInningsTotalRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	s, err := h.sessions.Update(r.Context(), id, func(s *logic.Session) error {
		return logic.SetFirstInningsTotal(&s.Setup, req.FirstInningsTotal)
	})
	if err != nil {
		h.sessionError(w, id, err, nil)
		return
	}
	sessionEvents.WithLabelValues("first_innings_total").Inc()
	h.respondMutation(w, s, nil, "")
}

// AddPlayer adds a player to a side's roster
// @Summary Add Player
// @Tags Roster
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param side path string true "Side (1 or 2)"
// @Router /sessions/{id}/rosters/{side}/players [post]
func (h *Handler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	side, ok := h.sideParam(w, r)
	if !ok {
		return
	}
	var req playerRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	var (
		outcome logic.AddOutcome
		effects []logic.Effect
	)
	s, err := h.sessions.Update(r.Context(), id, func(s *logic.Session) error {
		outcome, effects = logic.AddPlayer(h.registry, &s.Setup, side, req.Player)
		return nil
	})
	if err != nil {
		h.sessionError(w, id, err, nil)
		return
	}
	sessionEvents.WithLabelValues("add_player").Inc()
	h.respondMutation(w, s, effects, outcome.String())
}

// RemovePlayer removes a player from a side's roster
// @Summary Remove Player
// @Tags Roster
// @Produce json
// @Param id path string true "Session ID"
// @Param side path string true "Side (1 or 2)"
// @Param name path string true "Player name"
// @Router /sessions/{id}/rosters/{side}/players/{name} [delete]
func (h *Handler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	side, ok := h.sideParam(w, r)
	if !ok {
		return
	}
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid player name")
		return
	}

	var effects []logic.Effect
	s, err := h.sessions.Update(r.Context(), id, func(s *logic.Session) error {
		effects = logic.RemovePlayer(&s.Setup, side, name)
		return nil
	})
	if err != nil {
		h.sessionError(w, id, err, nil)
		return
	}
	sessionEvents.WithLabelValues("remove_player").Inc()
	h.respondMutation(w, s, effects, "")
}

// GetSuggestions returns the player pool of a side's team filtered by q
// @Summary Player Suggestions
// @Tags Roster
// @Produce json
// @Param id path string true "Session ID"
// @Param side path string true "Side (1 or 2)"
// @Param q query string false "Search text"
// @Success 200 {array} string
// @Router /sessions/{id}/suggestions/{side} [get]
func (h *Handler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	side, ok := h.sideParam(w, r)
	if !ok {
		return
	}
	s, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		h.sessionError(w, id, err, nil)
		return
	}
	team := s.Setup.Team(side)
	h.jsonResponse(w, http.StatusOK, logic.SearchPlayers(h.registry, team, r.URL.Query().Get("q"), SuggestionLimit))
}

// Predict submits the setup to the prediction service and settles the dashboard
// @Summary Predict
// @Tags Prediction
// @Produce json
// @Param id path string true "Session ID"
// @Failure 409 {object} map[string]string "Already in progress"
// @Failure 422 {object} map[string]string "Validation failure"
// @Router /sessions/{id}/predict [post]
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := h.predict(r.Context(), id)
	if err != nil {
		var effects []logic.Effect
		if res != nil {
			effects = res.Effects
		}
		h.sessionError(w, id, err, effects)
		return
	}
	h.respondMutation(w, res.Session, res.Effects, string(res.Outcome))
}
