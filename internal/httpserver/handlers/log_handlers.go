package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"pingodeleite/internal/models"
	"pingodeleite/internal/repository"
)

// RecentLogs returns the last recorded actions, newest first.
func RecentLogs(logs *repository.Logs, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, origin := logs.Recent(r.Context())
		respondFrom(w, origin, entries)
	}
}

// CreateLog records an action entry. It always answers 202: log persistence
// is best-effort and must never fail a caller.
func CreateLog(logs *repository.Logs, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var entry models.LogEntry
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		stored := logs.Record(r.Context(), entry)
		respondStatusFrom(w, http.StatusAccepted, "", stored)
	}
}
