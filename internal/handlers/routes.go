package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes builds the router for the JSON API, the HTML pages and the probes.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.origins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRFToken"},
			AllowCredentials: true,
			MaxAge:           300,
		}))

		r.Get("/teams", h.ListTeams)
		r.Post("/sessions", h.CreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Delete("/", h.DeleteSession)
			r.Put("/teams/{side}", h.SetTeam)
			r.Put("/batting-first", h.SetBattingFirst)
			r.Put("/venue", h.SetVenue)
			r.Put("/first-innings-total", h.SetFirstInningsTotal)
			r.Post("/rosters/{side}/players", h.AddPlayer)
			r.Delete("/rosters/{side}/players/{name}", h.RemovePlayer)
			r.Get("/suggestions/{side}", h.GetSuggestions)
			r.Post("/predict", h.Predict)
		})
	})

	r.Get("/", h.Index)
	r.Route("/s/{id}", func(r chi.Router) {
		r.Get("/", h.ShowSession)
		r.Post("/teams/{side}", h.FormSetTeam())
		r.Post("/batting-first", h.FormSetBattingFirst())
		r.Post("/venue", h.FormSetVenue())
		r.Post("/first-innings-total", h.FormSetFirstInningsTotal())
		r.Post("/rosters/{side}/players", h.FormAddPlayer())
		r.Post("/rosters/{side}/players/remove", h.FormRemovePlayer())
		r.Post("/predict", h.FormPredict)
		r.Post("/reset", h.FormStartOver)
	})

	return r
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Debugw("Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
