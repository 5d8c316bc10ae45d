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
	"pingodeleite/internal/pricing"
)

// EventRemote is the remote surface the event repository needs.
type EventRemote interface {
	ListEvents(ctx context.Context) ([]models.Event, error)
	ListEventsByClient(ctx context.Context, clientID string) ([]models.Event, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	InsertEvent(ctx context.Context, e models.Event) (models.Event, error)
	ReplaceEvent(ctx context.Context, id string, e models.Event) (bool, error)
	UpsertEvent(ctx context.Context, e models.Event) error
	DeleteEvent(ctx context.Context, id string) error
}

// Events is the resilient event repository. precoTotal is derived state: it
// is recomputed through the pricing engine on every write and never taken
// from the caller.
type Events struct {
	remote EventRemote
	cache  *cache.Store
	lg     *zap.SugaredLogger
	now    func() time.Time
}

// List returns all events, remote-first with cache fallback.
func (r *Events) List(ctx context.Context) ([]models.Event, models.Origin, error) {
	evs, err := r.remote.ListEvents(ctx)
	if err == nil {
		if evs == nil {
			evs = []models.Event{}
		}
		if cerr := r.cache.Set(KeyEvents, evs); cerr != nil {
			r.lg.Warnw("could not refresh event cache", "error", cerr)
		}
		return tagEvents(evs, models.OriginRemote), models.OriginRemote, nil
	}
	r.lg.Warnw("listing events from local cache", "error", err)
	var cached []models.Event
	if _, cerr := r.cache.Get(KeyEvents, &cached); cerr != nil {
		r.lg.Warnw("could not read event cache", "error", cerr)
	}
	if cached == nil {
		cached = []models.Event{}
	}
	return tagEvents(cached, models.OriginLocal), models.OriginLocal, nil
}

// ListByClient returns the events owned by one client.
func (r *Events) ListByClient(ctx context.Context, clientID string) ([]models.Event, models.Origin, error) {
	evs, err := r.remote.ListEventsByClient(ctx, clientID)
	if err == nil {
		if evs == nil {
			evs = []models.Event{}
		}
		return tagEvents(evs, models.OriginRemote), models.OriginRemote, nil
	}
	r.lg.Warnw("listing client events from local cache", "clientId", clientID, "error", err)
	var cached []models.Event
	if _, cerr := r.cache.Get(KeyEvents, &cached); cerr != nil {
		r.lg.Warnw("could not read event cache", "error", cerr)
	}
	out := []models.Event{}
	for _, e := range cached {
		if e.ClientID == clientID {
			e.Origin = models.OriginLocal
			out = append(out, e)
		}
	}
	return out, models.OriginLocal, nil
}

// Get returns one event. ErrNotFound means absent in both backends.
func (r *Events) Get(ctx context.Context, id string) (*models.Event, models.Origin, error) {
	e, err := r.remote.GetEvent(ctx, id)
	if err != nil {
		r.lg.Warnw("fetching event from local cache", "id", id, "error", err)
	} else if e != nil {
		e.Origin = models.OriginRemote
		return e, models.OriginRemote, nil
	}
	var cached []models.Event
	if _, cerr := r.cache.Get(KeyEvents, &cached); cerr != nil {
		r.lg.Warnw("could not read event cache", "error", cerr)
	}
	for i := range cached {
		if cached[i].ID == id {
			cached[i].Origin = models.OriginLocal
			return &cached[i], models.OriginLocal, nil
		}
	}
	return nil, "", apperr.ErrNotFound
}

// Create validates, prices and stores a new event.
func (r *Events) Create(ctx context.Context, e models.Event) (models.Event, models.Origin, error) {
	e.Name = strings.TrimSpace(e.Name)
	if e.Status == "" {
		e.Status = models.StatusQuote
	}
	if err := e.Validate(); err != nil {
		return models.Event{}, "", err
	}
	e.TotalPrice = pricing.EventPrice(e.Balloons, e.SpecialBalloons)
	ts := timestamp(r.now)
	e.CreatedAt, e.UpdatedAt = ts, ts
	e.Origin = ""

	created, err := r.remote.InsertEvent(ctx, e)
	if err == nil {
		r.cacheUpsert(created)
		created.Origin = models.OriginRemote
		return created, models.OriginRemote, nil
	}

	r.lg.Warnw("creating event in local cache only", "error", err)
	e.ID = uuid.NewString()
	r.cacheUpsert(e)
	r.markPending(KeyEvents)
	e.Origin = models.OriginLocal
	return e, models.OriginLocal, nil
}

// Update replaces an event document in full, repricing it.
func (r *Events) Update(ctx context.Context, id string, e models.Event) (models.Event, models.Origin, error) {
	e.Name = strings.TrimSpace(e.Name)
	if e.Status == "" {
		e.Status = models.StatusQuote
	}
	if err := e.Validate(); err != nil {
		return models.Event{}, "", err
	}
	e.TotalPrice = pricing.EventPrice(e.Balloons, e.SpecialBalloons)
	e.ID = id
	e.UpdatedAt = timestamp(r.now)
	e.Origin = ""

	matched, err := r.remote.ReplaceEvent(ctx, id, e)
	if err == nil && matched {
		r.cacheUpsert(e)
		e.Origin = models.OriginRemote
		return e, models.OriginRemote, nil
	}
	if err != nil {
		r.lg.Warnw("updating event in local cache only", "id", id, "error", err)
	}

	if !r.cacheHas(id) {
		return models.Event{}, "", apperr.ErrNotFound
	}
	r.cacheUpsert(e)
	r.markPending(KeyEvents)
	e.Origin = models.OriginLocal
	return e, models.OriginLocal, nil
}

// Delete removes an event from whichever backends hold it.
func (r *Events) Delete(ctx context.Context, id string) (models.Origin, error) {
	err := r.remote.DeleteEvent(ctx, id)
	r.cacheRemove(id)
	if err == nil {
		return models.OriginRemote, nil
	}
	r.lg.Warnw("deleting event from local cache only", "id", id, "error", err)
	r.markPending(KeyEvents)
	return models.OriginLocal, nil
}

// PropagateClientName rewrites the denormalized clienteNome on every event of
// a renamed client. This is a separate, non-atomic step after the client
// update: a crash between the two leaves stale names until the next
// successful propagation.
func (r *Events) PropagateClientName(ctx context.Context, clientID, name string) (int, models.Origin, error) {
	evs, origin, err := r.List(ctx)
	if err != nil {
		return 0, origin, err
	}

	changed := 0
	allRemote := origin == models.OriginRemote
	for i := range evs {
		if evs[i].ClientID != clientID || evs[i].ClientName == name {
			continue
		}
		evs[i].ClientName = name
		evs[i].UpdatedAt = timestamp(r.now)
		changed++
		if allRemote {
			evs[i].Origin = ""
			if _, rerr := r.remote.ReplaceEvent(ctx, evs[i].ID, evs[i]); rerr != nil {
				r.lg.Warnw("client rename propagation degraded to cache", "eventId", evs[i].ID, "error", rerr)
				allRemote = false
			}
		}
	}
	if changed == 0 {
		return 0, origin, nil
	}

	if err := r.cache.Set(KeyEvents, tagEvents(evs, "")); err != nil {
		r.lg.Warnw("could not write event cache", "error", err)
	}
	if !allRemote {
		r.markPending(KeyEvents)
		return changed, models.OriginLocal, nil
	}
	return changed, models.OriginRemote, nil
}

func (r *Events) cacheHas(id string) bool {
	var cached []models.Event
	if _, err := r.cache.Get(KeyEvents, &cached); err != nil {
		return false
	}
	for i := range cached {
		if cached[i].ID == id {
			return true
		}
	}
	return false
}

func (r *Events) cacheUpsert(e models.Event) {
	e.Origin = ""
	var cached []models.Event
	if _, err := r.cache.Get(KeyEvents, &cached); err != nil {
		r.lg.Warnw("could not read event cache", "error", err)
	}
	replaced := false
	for i := range cached {
		if cached[i].ID == e.ID {
			if e.CreatedAt == "" {
				e.CreatedAt = cached[i].CreatedAt
			}
			cached[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		cached = append(cached, e)
	}
	if err := r.cache.Set(KeyEvents, cached); err != nil {
		r.lg.Warnw("could not write event cache", "error", err)
	}
}

func (r *Events) cacheRemove(id string) {
	var cached []models.Event
	if found, err := r.cache.Get(KeyEvents, &cached); err != nil || !found {
		return
	}
	kept := cached[:0]
	for _, e := range cached {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if err := r.cache.Set(KeyEvents, kept); err != nil {
		r.lg.Warnw("could not write event cache", "error", err)
	}
}

func (r *Events) markPending(key string) {
	if err := r.cache.MarkPending(key); err != nil {
		r.lg.Warnw("could not mark pending", "key", key, "error", err)
	}
}

func tagEvents(evs []models.Event, origin models.Origin) []models.Event {
	for i := range evs {
		evs[i].Origin = origin
	}
	return evs
}
