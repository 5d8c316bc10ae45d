package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"pingodeleite/internal/auth"
	"pingodeleite/internal/models"
	"pingodeleite/internal/repository"
)

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Register(users *repository.Users, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		u := models.User{Name: req.Name, Email: req.Email}
		created, origin, err := users.Create(r.Context(), u, req.Password)
		if err != nil {
			respondError(w, err)
			return
		}
		respondStatusFrom(w, http.StatusCreated, origin, created)
	}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(users *repository.Users, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		u, origin, err := users.GetByEmail(r.Context(), req.Email)
		if err != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		if err := auth.CheckPassword(u.PasswordHash, req.Password); err != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		tok, err := auth.Sign(u.ID, u.Name, u.Email)
		if err != nil {
			http.Error(w, "token error", http.StatusInternalServerError)
			return
		}
		lg.Infow("user logged in", "email", u.Email, "origin", origin)
		respondFrom(w, origin, map[string]any{"token": tok, "user": u})
	}
}

func Me(users *repository.Users, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.FromContext(r.Context())
		u, origin, err := users.GetByEmail(r.Context(), claims.Email)
		if err != nil {
			respondError(w, err)
			return
		}
		respondFrom(w, origin, u)
	}
}
