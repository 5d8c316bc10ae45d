// Package remote owns the connection to the remote document database. The
// Client below is the only component allowed to hold a live handle; every
// remote read/write goes through it.
package remote

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"pingodeleite/internal/apperr"
)

const (
	maxAttempts    = 3
	connectTimeout = 5 * time.Second
	socketTimeout  = 30 * time.Second
)

// Conn is a live connection handle.
type Conn interface {
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Dialer opens a new connection to the store at uri.
type Dialer func(ctx context.Context, uri string) (Conn, error)

// Client manages a single shared connection handle with retrying connect,
// bounded-time liveness checks and idempotent close. It is constructed once
// at startup and threaded through; there is no package-level handle.
type Client struct {
	uri     string
	dial    Dialer
	backoff time.Duration
	lg      *zap.SugaredLogger

	mu     sync.Mutex
	conn   Conn
	online atomic.Bool
}

// New builds a client backed by the MongoDB driver.
func New(uri string, lg *zap.SugaredLogger) *Client {
	return NewWithDialer(uri, mongoDial, lg)
}

// NewWithDialer builds a client with a custom dialer. Tests use it to inject
// failing or hanging connections.
func NewWithDialer(uri string, dial Dialer, lg *zap.SugaredLogger) *Client {
	return &Client{uri: uri, dial: dial, backoff: 2 * time.Second, lg: lg}
}

// SetBackoff overrides the base backoff delay. The n-th failed attempt waits
// base<<(n-1) before retrying.
func (c *Client) SetBackoff(d time.Duration) { c.backoff = d }

// Connect returns a working handle, reusing the cached one when it still
// answers a ping. A missing URI fails immediately with
// apperr.ErrNoConnectionString. Transport failures are retried up to three
// times with exponential backoff; each failed attempt discards the cached
// handle so a poisoned connection is never reused. The retry loop always runs
// to exhaustion or success.
func (c *Client) Connect(ctx context.Context) (Conn, error) {
	if c.uri == "" {
		c.online.Store(false)
		return nil, apperr.ErrNoConnectionString
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		err := c.conn.Ping(pingCtx)
		cancel()
		if err == nil {
			c.online.Store(true)
			return c.conn, nil
		}
		c.discardLocked(ctx)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		conn, err := c.dialAndPing(ctx)
		if err == nil {
			c.conn = conn
			c.online.Store(true)
			c.lg.Infow("remote store connected", "attempt", attempt)
			return conn, nil
		}
		lastErr = err
		c.discardLocked(ctx)
		c.lg.Warnw("remote store connect attempt failed", "attempt", attempt, "error", err)
		if attempt < maxAttempts {
			time.Sleep(c.backoff << (attempt - 1))
		}
	}

	c.online.Store(false)
	return nil, &apperr.ConnectionError{Attempts: maxAttempts, Err: lastErr}
}

func (c *Client) dialAndPing(ctx context.Context) (Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	conn, err := c.dial(dialCtx, c.uri)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(dialCtx); err != nil {
		_ = conn.Close(ctx)
		return nil, err
	}
	return conn, nil
}

// discardLocked drops the cached handle. Callers hold c.mu.
func (c *Client) discardLocked(ctx context.Context) {
	if c.conn == nil {
		return
	}
	if err := c.conn.Close(ctx); err != nil {
		c.lg.Warnw("error closing remote store handle", "error", err)
	}
	c.conn = nil
}

// CheckLive issues a ping raced against a timer. A timeout or any error is a
// normal "not live" outcome, never an error. The call returns within roughly
// the given timeout even when the underlying ping hangs.
func (c *Client) CheckLive(ctx context.Context, timeout time.Duration) bool {
	if c.uri == "" {
		return false
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan bool, 1)
	go func() {
		conn, err := c.Connect(pingCtx)
		if err != nil {
			done <- false
			return
		}
		done <- conn.Ping(pingCtx) == nil
	}()

	select {
	case ok := <-done:
		c.online.Store(ok)
		return ok
	case <-time.After(timeout):
		c.online.Store(false)
		return false
	}
}

// Close drops the cached handle if present. Safe to call repeatedly and when
// no handle exists. Any in-flight user of the shared handle loses it; the
// design accepts this coarse invalidation.
func (c *Client) Close(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.discardLocked(ctx)
	c.online.Store(false)
}

// Online reports the last known reachability of the remote store. It feeds
// the cache's pending-sync marking and is updated by every connect and
// liveness check.
func (c *Client) Online() bool {
	return c.online.Load()
}

// mongoConn adapts *mongo.Client to Conn and exposes the database handle to
// the entity store in this package.
type mongoConn struct {
	cl *mongo.Client
}

func mongoDial(ctx context.Context, uri string) (Conn, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(connectTimeout).
		SetSocketTimeout(socketTimeout)
	cl, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &mongoConn{cl: cl}, nil
}

func (m *mongoConn) Ping(ctx context.Context) error {
	return m.cl.Ping(ctx, nil)
}

func (m *mongoConn) Close(ctx context.Context) error {
	return m.cl.Disconnect(ctx)
}
