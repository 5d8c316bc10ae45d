// Package repository presents a uniform CRUD surface per entity that stays
// usable while the remote store is down. Every operation tries the remote
// store first; on success the local cache is refreshed (read-through), on
// failure the operation falls back to the cache and the affected key is
// marked pending-sync. Fallback is a degraded success, never a propagated
// error: callers learn which backend served them from the Origin value
// attached to every result.
package repository

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pingodeleite/internal/cache"
	"pingodeleite/internal/models"
)

// Stable cache keys, one logical collection each.
const (
	KeyClients = "clients"
	KeyEvents  = "events"
	KeyUsers   = "users"
	KeyLogs    = "logs"
)

// RemoteStore is the full remote surface the repositories need. *remote.Store
// implements it; tests substitute fakes per entity.
type RemoteStore interface {
	ClientRemote
	EventRemote
	UserRemote
	LogRemote
}

// Repos bundles the per-entity repositories over one cache and one remote
// store.
type Repos struct {
	Clients *Clients
	Events  *Events
	Users   *Users
	Logs    *Logs

	remote RemoteStore
	cache  *cache.Store
	lg     *zap.SugaredLogger
}

// New wires the repositories. The remote store and cache are constructed once
// at startup and injected; repositories never open connections of their own.
func New(store RemoteStore, c *cache.Store, lg *zap.SugaredLogger) *Repos {
	now := time.Now
	return &Repos{
		Clients: &Clients{remote: store, cache: c, lg: lg, now: now},
		Events:  &Events{remote: store, cache: c, lg: lg, now: now},
		Users:   &Users{remote: store, cache: c, lg: lg, now: now},
		Logs:    &Logs{remote: store, cache: c, lg: lg, now: now},
		remote:  store,
		cache:   c,
		lg:      lg,
	}
}

// SyncResult reports one cache key's outcome of a reconciliation pass.
type SyncResult struct {
	Key    string `json:"key"`
	Synced int    `json:"synced"`
	Error  string `json:"error,omitempty"`
}

// Resync pushes locally cached collections for every pending key to the
// remote store and clears the pending flags that fully succeed. It is only
// ever run when explicitly triggered; there is no background timer.
//
// Records are upserted by id, so a resync never duplicates entries that did
// reach the remote store before the flag was set. Deletions performed while
// offline are not replayed; the cache layer is last-write-wins.
func (r *Repos) Resync(ctx context.Context) ([]SyncResult, error) {
	keys, err := r.cache.PendingKeys()
	if err != nil {
		return nil, err
	}

	var results []SyncResult
	for _, key := range keys {
		res := SyncResult{Key: key}
		switch key {
		case KeyClients:
			res.Synced, err = r.resyncClients(ctx)
		case KeyEvents:
			res.Synced, err = r.resyncEvents(ctx)
		case KeyUsers:
			res.Synced, err = r.resyncUsers(ctx)
		case KeyLogs:
			res.Synced, err = r.resyncLogs(ctx)
		default:
			err = nil
		}
		if err != nil {
			res.Error = err.Error()
			r.lg.Warnw("resync failed, key stays pending", "key", key, "error", err)
		} else {
			if cerr := r.cache.ClearPending(key); cerr != nil {
				r.lg.Warnw("could not clear pending flag", "key", key, "error", cerr)
			}
			r.lg.Infow("resynced pending records", "key", key, "count", res.Synced)
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *Repos) resyncClients(ctx context.Context) (int, error) {
	var cached []models.Client
	if _, err := r.cache.Get(KeyClients, &cached); err != nil {
		return 0, err
	}
	for i, c := range cached {
		c.Origin = ""
		if err := r.remote.UpsertClient(ctx, c); err != nil {
			return i, err
		}
	}
	// Refresh the cache with the authoritative remote state.
	if _, _, err := r.Clients.List(ctx); err != nil {
		return len(cached), err
	}
	return len(cached), nil
}

func (r *Repos) resyncEvents(ctx context.Context) (int, error) {
	var cached []models.Event
	if _, err := r.cache.Get(KeyEvents, &cached); err != nil {
		return 0, err
	}
	for i, e := range cached {
		e.Origin = ""
		if err := r.remote.UpsertEvent(ctx, e); err != nil {
			return i, err
		}
	}
	if _, _, err := r.Events.List(ctx); err != nil {
		return len(cached), err
	}
	return len(cached), nil
}

func (r *Repos) resyncUsers(ctx context.Context) (int, error) {
	var cached []cachedUser
	if _, err := r.cache.Get(KeyUsers, &cached); err != nil {
		return 0, err
	}
	for i, u := range fromCached(cached) {
		u.Origin = ""
		if err := r.remote.UpsertUser(ctx, u); err != nil {
			return i, err
		}
	}
	return len(cached), nil
}

func (r *Repos) resyncLogs(ctx context.Context) (int, error) {
	var cached []models.LogEntry
	if _, err := r.cache.Get(KeyLogs, &cached); err != nil {
		return 0, err
	}
	for i, entry := range cached {
		if err := r.remote.UpsertLog(ctx, entry); err != nil {
			return i, err
		}
	}
	return len(cached), nil
}

func timestamp(now func() time.Time) string {
	return now().UTC().Format(time.RFC3339)
}
