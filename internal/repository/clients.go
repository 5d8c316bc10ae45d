package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pingodeleite/internal/apperr"
	"pingodeleite/internal/cache"
	"pingodeleite/internal/models"
	"pingodeleite/internal/util"
)

// ClientRemote is the remote surface the client repository needs.
type ClientRemote interface {
	ListClients(ctx context.Context) ([]models.Client, error)
	GetClient(ctx context.Context, id string) (*models.Client, error)
	InsertClient(ctx context.Context, c models.Client) (models.Client, error)
	ReplaceClient(ctx context.Context, id string, c models.Client) (bool, error)
	UpsertClient(ctx context.Context, c models.Client) error
	DeleteClient(ctx context.Context, id string) error
}

// Clients is the resilient client repository.
type Clients struct {
	remote ClientRemote
	cache  *cache.Store
	lg     *zap.SugaredLogger
	now    func() time.Time
}

// List returns all clients, remote-first with cache fallback.
func (r *Clients) List(ctx context.Context) ([]models.Client, models.Origin, error) {
	cs, err := r.remote.ListClients(ctx)
	if err == nil {
		if cs == nil {
			cs = []models.Client{}
		}
		if cerr := r.cache.Set(KeyClients, cs); cerr != nil {
			r.lg.Warnw("could not refresh client cache", "error", cerr)
		}
		return tagClients(cs, models.OriginRemote), models.OriginRemote, nil
	}
	r.lg.Warnw("listing clients from local cache", "error", err)
	var cached []models.Client
	if _, cerr := r.cache.Get(KeyClients, &cached); cerr != nil {
		r.lg.Warnw("could not read client cache", "error", cerr)
	}
	if cached == nil {
		cached = []models.Client{}
	}
	return tagClients(cached, models.OriginLocal), models.OriginLocal, nil
}

// Get returns one client. ErrNotFound means absent in both backends.
func (r *Clients) Get(ctx context.Context, id string) (*models.Client, models.Origin, error) {
	c, err := r.remote.GetClient(ctx, id)
	if err != nil {
		r.lg.Warnw("fetching client from local cache", "id", id, "error", err)
	} else if c != nil {
		c.Origin = models.OriginRemote
		return c, models.OriginRemote, nil
	}
	var cached []models.Client
	if _, cerr := r.cache.Get(KeyClients, &cached); cerr != nil {
		r.lg.Warnw("could not read client cache", "error", cerr)
	}
	for i := range cached {
		if cached[i].ID == id {
			cached[i].Origin = models.OriginLocal
			return &cached[i], models.OriginLocal, nil
		}
	}
	return nil, "", apperr.ErrNotFound
}

// Create validates and stores a new client. When the remote store is down the
// client is written to the cache with a locally allocated id and the clients
// key is marked pending.
func (r *Clients) Create(ctx context.Context, c models.Client) (models.Client, models.Origin, error) {
	c.Name = strings.TrimSpace(c.Name)
	if err := c.Validate(); err != nil {
		return models.Client{}, "", err
	}
	c.CpfCnpj = util.FormatCpfCnpj(c.CpfCnpj)
	ts := timestamp(r.now)
	c.CreatedAt, c.UpdatedAt = ts, ts
	c.Origin = ""

	created, err := r.remote.InsertClient(ctx, c)
	if err == nil {
		r.cacheUpsert(created)
		created.Origin = models.OriginRemote
		return created, models.OriginRemote, nil
	}

	r.lg.Warnw("creating client in local cache only", "error", err)
	c.ID = uuid.NewString()
	r.cacheUpsert(c)
	r.markPending(KeyClients)
	c.Origin = models.OriginLocal
	return c, models.OriginLocal, nil
}

// Update replaces a client document in full. ErrNotFound means neither
// backend knows the id.
func (r *Clients) Update(ctx context.Context, id string, c models.Client) (models.Client, models.Origin, error) {
	c.Name = strings.TrimSpace(c.Name)
	if err := c.Validate(); err != nil {
		return models.Client{}, "", err
	}
	c.CpfCnpj = util.FormatCpfCnpj(c.CpfCnpj)
	c.ID = id
	c.UpdatedAt = timestamp(r.now)
	c.Origin = ""

	matched, err := r.remote.ReplaceClient(ctx, id, c)
	if err == nil && matched {
		r.cacheUpsert(c)
		c.Origin = models.OriginRemote
		return c, models.OriginRemote, nil
	}
	if err != nil {
		r.lg.Warnw("updating client in local cache only", "id", id, "error", err)
	}

	// Remote down, or the record only ever existed locally.
	if !r.cacheHas(id) {
		return models.Client{}, "", apperr.ErrNotFound
	}
	r.cacheUpsert(c)
	r.markPending(KeyClients)
	c.Origin = models.OriginLocal
	return c, models.OriginLocal, nil
}

// Delete removes a client from whichever backends hold it. Deleting an
// unknown id is a no-op, as in the store of record.
func (r *Clients) Delete(ctx context.Context, id string) (models.Origin, error) {
	err := r.remote.DeleteClient(ctx, id)
	r.cacheRemove(id)
	if err == nil {
		return models.OriginRemote, nil
	}
	r.lg.Warnw("deleting client from local cache only", "id", id, "error", err)
	r.markPending(KeyClients)
	return models.OriginLocal, nil
}

func (r *Clients) cacheHas(id string) bool {
	var cached []models.Client
	if _, err := r.cache.Get(KeyClients, &cached); err != nil {
		return false
	}
	for i := range cached {
		if cached[i].ID == id {
			return true
		}
	}
	return false
}

func (r *Clients) cacheUpsert(c models.Client) {
	c.Origin = ""
	var cached []models.Client
	if _, err := r.cache.Get(KeyClients, &cached); err != nil {
		r.lg.Warnw("could not read client cache", "error", err)
	}
	replaced := false
	for i := range cached {
		if cached[i].ID == c.ID {
			if c.CreatedAt == "" {
				c.CreatedAt = cached[i].CreatedAt
			}
			cached[i] = c
			replaced = true
			break
		}
	}
	if !replaced {
		cached = append(cached, c)
	}
	if err := r.cache.Set(KeyClients, cached); err != nil {
		r.lg.Warnw("could not write client cache", "error", err)
	}
}

func (r *Clients) cacheRemove(id string) {
	var cached []models.Client
	if found, err := r.cache.Get(KeyClients, &cached); err != nil || !found {
		return
	}
	kept := cached[:0]
	for _, c := range cached {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if err := r.cache.Set(KeyClients, kept); err != nil {
		r.lg.Warnw("could not write client cache", "error", err)
	}
}

func (r *Clients) markPending(key string) {
	if err := r.cache.MarkPending(key); err != nil {
		r.lg.Warnw("could not mark pending", "key", key, "error", err)
	}
}

func tagClients(cs []models.Client, origin models.Origin) []models.Client {
	for i := range cs {
		cs[i].Origin = origin
	}
	return cs
}
