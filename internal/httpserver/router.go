package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"

	"pingodeleite/internal/auth"
	"pingodeleite/internal/httpserver/handlers"
	"pingodeleite/internal/remote"
	"pingodeleite/internal/repository"
)

// NewRouter wires HTTP routes and middleware.
func NewRouter(repos *repository.Repos, rc *remote.Client, lg *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Data-Origin"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(200, 1*time.Minute))

	r.Post("/v1/auth/register", handlers.Register(repos.Users, lg))
	r.Post("/v1/auth/login", handlers.Login(repos.Users, lg))
	r.Get("/v1/status", handlers.DBStatus(rc, lg))

	r.Group(func(protected chi.Router) {
		protected.Use(auth.JWTAuth())
		protected.Get("/v1/me", handlers.Me(repos.Users, lg))

		protected.Get("/v1/clients", handlers.ListClients(repos.Clients, lg))
		protected.Post("/v1/clients", handlers.CreateClient(repos.Clients, repos.Logs, lg))
		protected.Get("/v1/clients/{id}", handlers.GetClient(repos.Clients, lg))
		protected.Put("/v1/clients/{id}", handlers.UpdateClient(repos.Clients, repos.Events, repos.Logs, lg))
		protected.Delete("/v1/clients/{id}", handlers.DeleteClient(repos.Clients, repos.Logs, lg))
		protected.Get("/v1/clients/{id}/events", handlers.ClientEvents(repos.Events, lg))

		protected.Get("/v1/events", handlers.ListEvents(repos.Events, lg))
		protected.Post("/v1/events", handlers.CreateEvent(repos.Events, repos.Logs, lg))
		protected.Post("/v1/events/price", handlers.PriceEvent(lg))
		protected.Get("/v1/events/{id}", handlers.GetEvent(repos.Events, lg))
		protected.Put("/v1/events/{id}", handlers.UpdateEvent(repos.Events, repos.Logs, lg))
		protected.Delete("/v1/events/{id}", handlers.DeleteEvent(repos.Events, repos.Logs, lg))

		protected.Get("/v1/users", handlers.ListUsers(repos.Users, lg))
		protected.Get("/v1/users/by-email", handlers.UserByEmail(repos.Users, lg))

		protected.Get("/v1/logs", handlers.RecentLogs(repos.Logs, lg))
		protected.Post("/v1/logs", handlers.CreateLog(repos.Logs, lg))

		protected.Get("/v1/dashboard/analytics", handlers.Analytics(repos.Events, repos.Clients, lg))
		protected.Get("/v1/dashboard/projection", handlers.Projection(repos.Events, lg))

		protected.Post("/v1/sync", handlers.Resync(repos, lg))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return r
}
