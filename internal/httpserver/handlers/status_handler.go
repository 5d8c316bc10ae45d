package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"pingodeleite/internal/models"
	"pingodeleite/internal/remote"
)

// statusTimeout bounds the whole status check. It is deliberately distinct
// from (and shorter than) the connection layer's per-attempt timeout.
const statusTimeout = 3 * time.Second

// DBStatus reports the remote store connection state for the offline
// indicator in the UI.
func DBStatus(client *remote.Client, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "disconnected"
		if client.CheckLive(r.Context(), statusTimeout) {
			status = "connected"
		}
		respondJSON(w, models.DBStatus{
			Status:    status,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}
