// Package client implements the dashboard client core: an optimistic cache
// over the aggregate document and the reconciliation sequence every mutation
// runs through — snapshot, optimistic apply, dispatch, rollback-or-commit,
// resynchronize.
package client

import (
	"context"
	"errors"
	"io"
	"sync"

	"finance-dashboard/api/models"
)

// DefaultCacheKey names the aggregate snapshot in the cache.
const DefaultCacheKey = "dashboardData"

// Client runs mutations through the reconciliation protocol. One Client per
// signed-in user.
//
// Mutations on the same key are serialized from snapshot through settlement;
// the resync await happens outside the lock, guarded by a generation counter
// so a slow resync can never clobber a newer mutation's optimistic write.
type Client struct {
	exec  Executor
	cache *Cache
	key   string

	mu  sync.Mutex
	gen uint64
}

func New(exec Executor) *Client {
	return &Client{
		exec:  exec,
		cache: NewCache(),
		key:   DefaultCacheKey,
	}
}

// NewHTTP builds a client against a running dashboard API.
func NewHTTP(baseURL, token string) *Client {
	return New(NewHTTPExecutor(baseURL, token))
}

// Dashboard reads the live snapshot. During an in-flight mutation this is the
// optimistic, not-yet-confirmed value.
func (c *Client) Dashboard() (*models.Dashboard, bool) {
	return c.cache.Read(c.key)
}

// Mutate runs one request through the protocol:
//
//	validate → snapshot → optimistic apply → dispatch →
//	commit or rollback → resync
//
// The optimistic write lands before dispatch, so a read immediately after
// Mutate starts sees the new value. Success or failure, the cache is replaced
// with server truth within one round trip — except on auth failures, which
// bypass the protocol entirely so the caller can force a sign-out.
func (c *Client) Mutate(ctx context.Context, req Request) error {
	if err := req.Validate(); err != nil {
		return err
	}

	c.mu.Lock()

	snap, hadSnap := c.cache.snapshot(c.key)
	if hadSnap {
		optimistic, changed := req.Patch(snap.Clone())
		if !changed {
			c.mu.Unlock()
			return nil
		}
		// Starting the mutation supersedes any in-flight resync for this
		// key, then the optimistic value becomes visible before dispatch.
		c.gen++
		c.cache.write(c.key, optimistic)
	} else {
		c.gen++
	}

	_, execErr := c.exec.Execute(ctx, req)
	if execErr != nil {
		var authErr *AuthError
		if errors.As(execErr, &authErr) {
			c.mu.Unlock()
			return execErr
		}
		// Rollback: restore the snapshot verbatim.
		if hadSnap {
			c.cache.write(c.key, snap)
		} else {
			c.cache.drop(c.key)
		}
	}

	gen := c.gen
	c.mu.Unlock()

	resyncErr := c.resync(ctx, gen)
	if execErr != nil {
		return execErr
	}
	return resyncErr
}

// Refresh replaces the cache with server truth, unless a mutation started in
// the meantime — its optimistic view wins over this older read.
func (c *Client) Refresh(ctx context.Context) error {
	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()
	return c.resync(ctx, gen)
}

// ImportTransactionsCSV uploads a CSV and, on success, resynchronizes the
// cache the same way any other mutation does. No optimistic patch: the merged
// result is only known server-side.
func (c *Client) ImportTransactionsCSV(ctx context.Context, r io.Reader, mode ImportMode) error {
	switch mode {
	case ImportAppend, ImportReplace, ImportUpsert:
	default:
		return &ValidationError{Field: "mode", Reason: "must be append, replace or upsert"}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return &ValidationError{Field: "csv", Reason: err.Error()}
	}

	c.mu.Lock()
	c.gen++
	importErr := c.exec.ImportTransactionsCSV(ctx, mode, data)
	gen := c.gen
	c.mu.Unlock()

	if importErr != nil {
		return importErr
	}
	return c.resync(ctx, gen)
}

// resync fetches the authoritative aggregate and replaces the cache
// wholesale, unless a newer mutation superseded this read.
func (c *Client) resync(ctx context.Context, gen uint64) error {
	doc, err := c.exec.FetchDashboard(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.gen == gen {
		c.cache.write(c.key, doc)
	}
	c.mu.Unlock()
	return nil
}
