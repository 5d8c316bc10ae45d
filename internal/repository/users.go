package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pingodeleite/internal/apperr"
	"pingodeleite/internal/auth"
	"pingodeleite/internal/cache"
	"pingodeleite/internal/models"
)

// UserRemote is the remote surface the user repository needs.
type UserRemote interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	InsertUser(ctx context.Context, u models.User) (models.User, error)
	UpsertUser(ctx context.Context, u models.User) error
}

// Users is the resilient user repository. Passwords are hashed before they
// reach either backend; plaintext exists only in transit.
type Users struct {
	remote UserRemote
	cache  *cache.Store
	lg     *zap.SugaredLogger
	now    func() time.Time
}

// cachedUser carries the password hash into the JSON cache. models.User
// excludes it from JSON so API responses can never leak it, but the cache
// needs it for offline login and resync.
type cachedUser struct {
	models.User
	PasswordHash string `json:"password"`
}

func toCached(us []models.User) []cachedUser {
	out := make([]cachedUser, len(us))
	for i, u := range us {
		u.Origin = ""
		out[i] = cachedUser{User: u, PasswordHash: u.PasswordHash}
	}
	return out
}

func fromCached(cs []cachedUser) []models.User {
	out := make([]models.User, len(cs))
	for i, c := range cs {
		u := c.User
		u.PasswordHash = c.PasswordHash
		out[i] = u
	}
	return out
}

// List returns all users, remote-first with cache fallback.
func (r *Users) List(ctx context.Context) ([]models.User, models.Origin, error) {
	us, err := r.remote.ListUsers(ctx)
	if err == nil {
		if us == nil {
			us = []models.User{}
		}
		if cerr := r.cache.Set(KeyUsers, toCached(us)); cerr != nil {
			r.lg.Warnw("could not refresh user cache", "error", cerr)
		}
		return tagUsers(us, models.OriginRemote), models.OriginRemote, nil
	}
	r.lg.Warnw("listing users from local cache", "error", err)
	var cached []cachedUser
	if _, cerr := r.cache.Get(KeyUsers, &cached); cerr != nil {
		r.lg.Warnw("could not read user cache", "error", cerr)
	}
	return tagUsers(fromCached(cached), models.OriginLocal), models.OriginLocal, nil
}

// GetByEmail returns the user with the given email, or ErrNotFound.
func (r *Users) GetByEmail(ctx context.Context, email string) (*models.User, models.Origin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := r.remote.GetUserByEmail(ctx, email)
	if err != nil {
		r.lg.Warnw("fetching user from local cache", "error", err)
	} else if u != nil {
		u.Origin = models.OriginRemote
		return u, models.OriginRemote, nil
	}
	var cached []cachedUser
	if _, cerr := r.cache.Get(KeyUsers, &cached); cerr != nil {
		r.lg.Warnw("could not read user cache", "error", cerr)
	}
	for _, c := range cached {
		if strings.EqualFold(c.Email, email) {
			u := c.User
			u.PasswordHash = c.PasswordHash
			u.Origin = models.OriginLocal
			return &u, models.OriginLocal, nil
		}
	}
	return nil, "", apperr.ErrNotFound
}

// Create registers a user. Email uniqueness is checked against whichever
// backend answers; a clash is a validation failure, not a storage error.
func (r *Users) Create(ctx context.Context, u models.User, password string) (models.User, models.Origin, error) {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if err := u.Validate(); err != nil {
		return models.User{}, "", err
	}
	if len(password) < 4 {
		return models.User{}, "", apperr.Invalid("password", "must have at least 4 characters")
	}
	if existing, _, err := r.GetByEmail(ctx, u.Email); err == nil && existing != nil {
		return models.User{}, "", apperr.Invalid("email", "already in use")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, "", err
	}
	u.PasswordHash = hash
	ts := timestamp(r.now)
	u.CreatedAt, u.UpdatedAt = ts, ts
	u.Origin = ""

	created, rerr := r.remote.InsertUser(ctx, u)
	if rerr == nil {
		r.cacheUpsert(created)
		created.Origin = models.OriginRemote
		return created, models.OriginRemote, nil
	}

	r.lg.Warnw("creating user in local cache only", "error", rerr)
	u.ID = uuid.NewString()
	r.cacheUpsert(u)
	if err := r.cache.MarkPending(KeyUsers); err != nil {
		r.lg.Warnw("could not mark pending", "key", KeyUsers, "error", err)
	}
	u.Origin = models.OriginLocal
	return u, models.OriginLocal, nil
}

func (r *Users) cacheUpsert(u models.User) {
	u.Origin = ""
	entry := cachedUser{User: u, PasswordHash: u.PasswordHash}
	var cached []cachedUser
	if _, err := r.cache.Get(KeyUsers, &cached); err != nil {
		r.lg.Warnw("could not read user cache", "error", err)
	}
	replaced := false
	for i := range cached {
		if cached[i].ID == u.ID {
			cached[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		cached = append(cached, entry)
	}
	if err := r.cache.Set(KeyUsers, cached); err != nil {
		r.lg.Warnw("could not write user cache", "error", err)
	}
}

func tagUsers(us []models.User, origin models.Origin) []models.User {
	for i := range us {
		us[i].Origin = origin
	}
	return us
}
