package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"pingodeleite/internal/analytics"
	"pingodeleite/internal/models"
	"pingodeleite/internal/repository"
)

// Analytics builds the full dashboard report over freshly fetched (possibly
// cached) events and clients.
func Analytics(events *repository.Events, clients *repository.Clients, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		evs, evOrigin, err := events.List(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		cs, csOrigin, err := clients.List(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		origin := evOrigin
		if csOrigin == models.OriginLocal {
			origin = models.OriginLocal
		}
		respondFrom(w, origin, analytics.Calculate(evs, cs, time.Now()))
	}
}

// Projection returns projected revenue for the next four weeks.
func Projection(events *repository.Events, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		evs, origin, err := events.List(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		respondFrom(w, origin, analytics.RevenueProjection(evs, time.Now()))
	}
}
