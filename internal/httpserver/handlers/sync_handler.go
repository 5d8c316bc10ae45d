package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"pingodeleite/internal/repository"
)

// Resync triggers the reconciliation pass that pushes pending local writes
// to the remote store. Reconciliation only ever runs through this explicit
// trigger; there is no background scheduler.
func Resync(repos *repository.Repos, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results, err := repos.Resync(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		if results == nil {
			results = []repository.SyncResult{}
		}
		respondJSON(w, map[string]any{"results": results})
	}
}
