package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/crease-labs/matchdesk/internal/logic"
	"github.com/crease-labs/matchdesk/internal/models"
	"github.com/crease-labs/matchdesk/internal/session"
	"github.com/crease-labs/matchdesk/internal/views"
)

// flashParam carries a validation message across the redirect of a form action.
const flashParam = "flash"

// Index starts a new session and sends the browser to its page.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Create(r.Context(), h.csrfToken)
	if err != nil {
		h.logger.Errorw("Failed to create session", "error", err)
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/s/"+url.PathEscape(s.ID), http.StatusSeeOther)
}

// ShowSession renders the setup page and dashboard of a session.
func (h *Handler) ShowSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, err := h.sessions.Get(r.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		// Expired sessions start over.
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		h.logger.Errorw("Failed to load session", "session", id, "error", err)
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return
	}

	data := views.PageData{
		Session: logic.Snapshot(h.registry, s),
		Teams:   h.registry.Teams(),
		Flash:   r.URL.Query().Get(flashParam),
	}
	for i, side := range models.Sides {
		if logic.SearchEnabled(h.registry, &s.Setup, side) {
			data.Suggestions[i] = logic.Suggestions(h.registry, s.Setup.Team(side))
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.Page(data).Render(r.Context(), w); err != nil {
		h.logger.Errorw("Failed to render page", "session", id, "error", err)
	}
}

// formAction applies one form post to a session and redirects back to its page.
func (h *Handler) formAction(event string, fn func(r *http.Request, s *logic.Session) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}

		_, err := h.sessions.Update(r.Context(), id, func(s *logic.Session) error {
			return fn(r, s)
		})
		if err == nil {
			sessionEvents.WithLabelValues(event).Inc()
		}
		h.redirectBack(w, r, id, err)
	}
}

func (h *Handler) redirectBack(w http.ResponseWriter, r *http.Request, id string, err error) {
	target := "/s/" + url.PathEscape(id)

	var verr *logic.ValidationError
	switch {
	case err == nil:
	case errors.Is(err, session.ErrNotFound):
		target = "/"
	case errors.As(err, &verr):
		validationFailures.WithLabelValues(verr.Message).Inc()
		target += "?" + url.Values{flashParam: {verr.Message}}.Encode()
	case errors.Is(err, logic.ErrBusy):
		target += "?" + url.Values{flashParam: {"A prediction is already in progress."}}.Encode()
	default:
		h.logger.Errorw("Form action failed", "session", id, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) sideAction(event string, fn func(r *http.Request, s *logic.Session, side models.Side) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		side, err := models.ParseSide(chi.URLParam(r, "side"))
		if err != nil {
			http.Error(w, "Side must be 1 or 2", http.StatusBadRequest)
			return
		}
		h.formAction(event, func(r *http.Request, s *logic.Session) error {
			return fn(r, s, side)
		})(w, r)
	}
}

// FormSetTeam handles the team select of one side.
func (h *Handler) FormSetTeam() http.HandlerFunc {
	return h.sideAction("team", func(r *http.Request, s *logic.Session, side models.Side) error {
		logic.ChangeTeam(h.registry, &s.Setup, side, r.PostFormValue("team"))
		return nil
	})
}

func (h *Handler) FormSetBattingFirst() http.HandlerFunc {
	return h.formAction("batting_first", func(r *http.Request, s *logic.Session) error {
		_, err := logic.SelectBattingFirst(&s.Setup, r.PostFormValue("batting_first"))
		return err
	})
}

func (h *Handler) FormSetVenue() http.HandlerFunc {
	return h.formAction("venue", func(r *http.Request, s *logic.Session) error {
		logic.SetVenue(&s.Setup, r.PostFormValue("venue"))
		return nil
	})
}

func (h *Handler) FormSetFirstInningsTotal() http.HandlerFunc {
	return h.formAction("first_innings_total", func(r *http.Request, s *logic.Session) error {
		return logic.SetFirstInningsTotal(&s.Setup, r.PostFormValue("first_innings_total"))
	})
}

func (h *Handler) FormAddPlayer() http.HandlerFunc {
	return h.sideAction("add_player", func(r *http.Request, s *logic.Session, side models.Side) error {
		logic.AddPlayer(h.registry, &s.Setup, side, r.PostFormValue("player"))
		return nil
	})
}

func (h *Handler) FormRemovePlayer() http.HandlerFunc {
	return h.sideAction("remove_player", func(r *http.Request, s *logic.Session, side models.Side) error {
		logic.RemovePlayer(&s.Setup, side, r.PostFormValue("player"))
		return nil
	})
}

// FormStartOver discards the session and starts a fresh one.
func (h *Handler) FormStartOver(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.sessions.Delete(r.Context(), id); err != nil {
		h.logger.Errorw("Failed to delete session", "session", id, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	sessionEvents.WithLabelValues("delete").Inc()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// FormPredict submits the setup and redirects to the settled dashboard.
func (h *Handler) FormPredict(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_, err := h.predict(r.Context(), id)
	h.redirectBack(w, r, id, err)
}
