package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pingodeleite/internal/auth"
	"pingodeleite/internal/models"
	"pingodeleite/internal/repository"
)

func ListClients(clients *repository.Clients, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cs, origin, err := clients.List(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		respondFrom(w, origin, cs)
	}
}

func GetClient(clients *repository.Clients, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, origin, err := clients.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondFrom(w, origin, c)
	}
}

func CreateClient(clients *repository.Clients, logs *repository.Logs, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c models.Client
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c.ID = ""
		created, origin, err := clients.Create(r.Context(), c)
		if err != nil {
			recordAction(r, logs, "Criar cliente", false, map[string]any{"error": err.Error()})
			respondError(w, err)
			return
		}
		recordAction(r, logs, "Criar cliente", true, map[string]any{"clientId": created.ID, "nome": created.Name})
		respondStatusFrom(w, http.StatusCreated, origin, created)
	}
}

// UpdateClient replaces a client document. When the update changes the name,
// the denormalized clienteNome on the client's events is rewritten in a
// separate propagation pass afterwards.
func UpdateClient(clients *repository.Clients, events *repository.Events, logs *repository.Logs, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var c models.Client
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		before, _, _ := clients.Get(r.Context(), id)

		updated, origin, err := clients.Update(r.Context(), id, c)
		if err != nil {
			recordAction(r, logs, "Atualizar cliente", false, map[string]any{"clientId": id, "error": err.Error()})
			respondError(w, err)
			return
		}

		if before != nil && before.Name != updated.Name {
			if n, _, perr := events.PropagateClientName(r.Context(), id, updated.Name); perr != nil {
				lg.Warnw("client rename propagation failed", "clientId", id, "error", perr)
			} else if n > 0 {
				lg.Infow("client rename propagated", "clientId", id, "events", n)
			}
		}

		recordAction(r, logs, "Atualizar cliente", true, map[string]any{
			"clientId": id, "before": before, "after": updated,
		})
		respondFrom(w, origin, updated)
	}
}

func DeleteClient(clients *repository.Clients, logs *repository.Logs, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		origin, err := clients.Delete(r.Context(), id)
		if err != nil {
			respondError(w, err)
			return
		}
		recordAction(r, logs, "Excluir cliente", true, map[string]any{"clientId": id})
		respondFrom(w, origin, map[string]any{"deleted": true})
	}
}

// ClientEvents lists the events owned by one client. Deleting a client does
// not cascade here; a missing owner simply yields its orphaned events.
func ClientEvents(events *repository.Events, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		evs, origin, err := events.ListByClient(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondFrom(w, origin, evs)
	}
}

// recordAction writes an audit entry for the session's user. It never fails
// the surrounding request.
func recordAction(r *http.Request, logs *repository.Logs, action string, success bool, details map[string]any) {
	claims := auth.FromContext(r.Context())
	logs.Record(r.Context(), models.LogEntry{
		UserID:   claims.Subject,
		UserName: claims.Name,
		Action:   action,
		Success:  success,
		Details:  details,
	})
}
