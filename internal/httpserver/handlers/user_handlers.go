package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"pingodeleite/internal/repository"
)

func ListUsers(users *repository.Users, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		us, origin, err := users.List(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		respondFrom(w, origin, us)
	}
}

func UserByEmail(users *repository.Users, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		if email == "" {
			http.Error(w, "email query parameter required", http.StatusBadRequest)
			return
		}
		u, origin, err := users.GetByEmail(r.Context(), email)
		if err != nil {
			respondError(w, err)
			return
		}
		respondFrom(w, origin, u)
	}
}
