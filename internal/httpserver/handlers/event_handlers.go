package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pingodeleite/internal/models"
	"pingodeleite/internal/pricing"
	"pingodeleite/internal/repository"
)

func ListEvents(events *repository.Events, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		evs, origin, err := events.List(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		respondFrom(w, origin, evs)
	}
}

func GetEvent(events *repository.Events, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, origin, err := events.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondFrom(w, origin, e)
	}
}

func CreateEvent(events *repository.Events, logs *repository.Logs, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var e models.Event
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		e.ID = ""
		created, origin, err := events.Create(r.Context(), e)
		if err != nil {
			recordAction(r, logs, "Criar evento", false, map[string]any{"error": err.Error()})
			respondError(w, err)
			return
		}
		recordAction(r, logs, "Criar evento", true, map[string]any{"eventId": created.ID, "nome": created.Name})
		respondStatusFrom(w, http.StatusCreated, origin, created)
	}
}

func UpdateEvent(events *repository.Events, logs *repository.Logs, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var e models.Event
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		before, _, _ := events.Get(r.Context(), id)
		updated, origin, err := events.Update(r.Context(), id, e)
		if err != nil {
			recordAction(r, logs, "Atualizar evento", false, map[string]any{"eventId": id, "error": err.Error()})
			respondError(w, err)
			return
		}
		recordAction(r, logs, "Atualizar evento", true, map[string]any{
			"eventId": id, "before": before, "after": updated,
		})
		respondFrom(w, origin, updated)
	}
}

func DeleteEvent(events *repository.Events, logs *repository.Logs, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		origin, err := events.Delete(r.Context(), id)
		if err != nil {
			respondError(w, err)
			return
		}
		recordAction(r, logs, "Excluir evento", true, map[string]any{"eventId": id})
		respondFrom(w, origin, map[string]any{"deleted": true})
	}
}

// PriceEvent computes a live total for an order description without
// persisting anything. The same engine prices persisted events, so form
// totals and stored totals can never drift.
func PriceEvent(lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Balloons        models.Balloon          `json:"baloes"`
			SpecialBalloons []models.SpecialBalloon `json:"baloesEspeciais"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		respondJSON(w, map[string]float64{
			"precoTotal": pricing.EventPrice(req.Balloons, req.SpecialBalloons),
		})
	}
}
