package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pingodeleite/internal/cache"
	"pingodeleite/internal/models"
)

// LogRemote is the remote surface the log repository needs.
type LogRemote interface {
	InsertLog(ctx context.Context, entry models.LogEntry) error
	UpsertLog(ctx context.Context, entry models.LogEntry) error
	ListLogs(ctx context.Context, limit int64) ([]models.LogEntry, error)
}

// Logs records user actions. Recording never blocks or fails the primary
// operation: failures are swallowed and only logged.
type Logs struct {
	remote LogRemote
	cache  *cache.Store
	lg     *zap.SugaredLogger
	now    func() time.Time
}

// Record appends an action log entry, newest first, locally capped at
// cache.MaxLogEntries. The remote write is best-effort.
func (r *Logs) Record(ctx context.Context, entry models.LogEntry) models.LogEntry {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = timestamp(r.now)
	}

	var logs []models.LogEntry
	if _, err := r.cache.Get(KeyLogs, &logs); err != nil {
		r.lg.Warnw("could not read log cache", "error", err)
	}
	logs = append([]models.LogEntry{entry}, logs...)
	if len(logs) > cache.MaxLogEntries {
		logs = logs[:cache.MaxLogEntries]
	}
	if err := r.cache.Set(KeyLogs, logs); err != nil {
		r.lg.Warnw("could not write log cache", "error", err)
	}

	if err := r.remote.InsertLog(ctx, entry); err != nil {
		r.lg.Warnw("action log not persisted remotely", "action", entry.Action, "error", err)
		if merr := r.cache.MarkPending(KeyLogs); merr != nil {
			r.lg.Warnw("could not mark pending", "key", KeyLogs, "error", merr)
		}
	}
	return entry
}

// Recent returns the last cache.MaxLogEntries entries, newest first.
func (r *Logs) Recent(ctx context.Context) ([]models.LogEntry, models.Origin) {
	logs, err := r.remote.ListLogs(ctx, cache.MaxLogEntries)
	if err == nil {
		if logs == nil {
			logs = []models.LogEntry{}
		}
		return logs, models.OriginRemote
	}
	r.lg.Warnw("listing logs from local cache", "error", err)
	var cached []models.LogEntry
	if _, cerr := r.cache.Get(KeyLogs, &cached); cerr != nil {
		r.lg.Warnw("could not read log cache", "error", cerr)
	}
	if cached == nil {
		cached = []models.LogEntry{}
	}
	return cached, models.OriginLocal
}
