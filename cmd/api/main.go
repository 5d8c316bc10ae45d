package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"pingodeleite/internal/apperr"
	"pingodeleite/internal/cache"
	"pingodeleite/internal/config"
	"pingodeleite/internal/httpserver"
	"pingodeleite/internal/logger"
	"pingodeleite/internal/models"
	"pingodeleite/internal/remote"
	"pingodeleite/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	lg := logger.New()
	defer lg.Sync()

	rc := remote.New(cfg.MongoURI, lg)
	defer rc.Close(context.Background())

	c, err := cache.Open(cfg.CachePath, rc.Online)
	if err != nil {
		lg.Fatalw("cache open failed", "path", cfg.CachePath, "error", err)
	}
	defer c.Close()

	store := remote.NewStore(rc, cfg.MongoDB)
	repos := repository.New(store, c, lg)

	// Establish the remote connection up front so the first request is not
	// the one paying for retries. Failure here is not fatal; the service
	// boots into offline mode and serves from the cache.
	if _, err := rc.Connect(context.Background()); err != nil {
		lg.Warnw("starting offline", "error", err)
	}

	seedDefaultAdmin(repos.Users, lg)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      httpserver.NewRouter(repos, rc, lg),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		lg.Infow("listening", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatalw("server failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	lg.Infow("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Errorw("shutdown failed", "error", err)
	}
}

// seedDefaultAdmin creates the bootstrap account when no user with that email
// exists yet. Best effort: a seed failure must not stop the service.
func seedDefaultAdmin(users *repository.Users, lg *zap.SugaredLogger) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}
	ctx := context.Background()
	if existing, _, _ := users.GetByEmail(ctx, email); existing != nil {
		return
	}
	u := models.User{Name: "Admin", Email: email}
	if _, _, err := users.Create(ctx, u, password); err != nil {
		var verr *apperr.ValidationError
		if errors.As(err, &verr) {
			lg.Warnw("admin seed rejected", "field", verr.Field, "error", verr.Msg)
			return
		}
		lg.Warnw("admin seed failed", "error", err)
		return
	}
	lg.Infow("seeded default admin", "email", email)
}
