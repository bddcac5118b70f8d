package session

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"cocktailnerd/internal/backend"
	"cocktailnerd/internal/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrRequestInProgress is returned by Submit while another request is pending.
var ErrRequestInProgress = errors.New("a recommendation request is already in progress")

// User-facing messages for failures that carry no backend message.
const (
	DefaultGenericError = config.DefaultGenericError
	TimeoutMessage      = "The request timed out. Please try again."
	CancelledMessage    = "The request was cancelled."
)

// call is one in-flight backend request.
type call struct {
	id        string
	cancel    context.CancelFunc
	cancelled atomic.Bool
	done      chan struct{}
}

type result struct {
	payload backend.Payload
	err     error
}

// Submit sends the current query and selection to the backend.
//
// The returned snapshot is already Pending with any previous error or
// recommendation cleared. Backend failures never surface here; they show up
// as a Failed state once the request completes. The only error is
// ErrRequestInProgress, returned while another request is pending.
//
// ctx bounds the request together with the configured timeout; cancelling it
// fails the request.
func (c *Controller) Submit(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	if !c.inflight.TryAcquire(1) {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.log.Debug("submit rejected", zap.String("in_flight", snap.requestID))
		return snap, ErrRequestInProgress
	}

	req := backend.Request{
		ID:    uuid.NewString(),
		Query: normalizeQuery(c.query, c.cfg.EmptyQuery),
		Tags:  c.selection.Strings(),
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	cl := &call{id: req.ID, cancel: cancel, done: make(chan struct{})}
	c.current = cl
	c.requestID = req.ID
	c.request = Pending()
	snap := c.publishLocked()
	c.mu.Unlock()

	c.log.Info("submit",
		zap.String("request_id", req.ID),
		zap.Strings("tags", req.Tags),
		zap.Bool("placeholder_query", req.Query == c.cfg.EmptyQuery),
	)

	go c.run(callCtx, cl, req)
	return snap, nil
}

// Cancel aborts the in-flight request, which then fails with
// CancelledMessage. It reports whether a request was pending.
func (c *Controller) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return false
	}
	c.current.cancelled.Store(true)
	c.current.cancel()
	return true
}

// Wait blocks until no request is pending or ctx is done, then returns the
// latest snapshot.
func (c *Controller) Wait(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	cl := c.current
	c.mu.Unlock()

	if cl != nil {
		select {
		case <-cl.done:
		case <-ctx.Done():
			return c.Snapshot(), ctx.Err()
		}
	}
	return c.Snapshot(), nil
}

// run performs the backend call. The select on ctx keeps the state machine
// live even when a backend ignores cancellation.
func (c *Controller) run(ctx context.Context, cl *call, req backend.Request) {
	defer cl.cancel()

	results := make(chan result, 1)
	go func() {
		payload, err := c.backend.Recommend(ctx, req)
		results <- result{payload: payload, err: err}
	}()

	var res result
	select {
	case res = <-results:
	case <-ctx.Done():
		res = result{err: ctx.Err()}
	}

	c.complete(cl, c.resolve(ctx, cl, res))
}

// resolve maps a backend result onto the terminal request state.
func (c *Controller) resolve(ctx context.Context, cl *call, res result) RequestState {
	log := c.log.With(zap.String("request_id", cl.id))

	if res.err == nil {
		rec, err := c.sanitizer.Sanitize(res.payload)
		if err != nil {
			log.Warn("malformed response", zap.Error(err))
			return Failed(c.cfg.GenericError)
		}
		return Succeeded(rec)
	}

	log.Warn("request failed", zap.Error(res.err))

	switch {
	case cl.cancelled.Load():
		return Failed(CancelledMessage)
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return Failed(TimeoutMessage)
	case errors.Is(ctx.Err(), context.Canceled):
		return Failed(CancelledMessage)
	}

	var terr *backend.TransportError
	if errors.As(res.err, &terr) {
		if msg := strings.TrimSpace(terr.Message); msg != "" {
			return Failed(msg)
		}
	}
	return Failed(c.cfg.GenericError)
}

// complete publishes the terminal state and frees the in-flight slot in one
// critical section, so no observer sees a terminal state while Submit would
// still be rejected.
func (c *Controller) complete(cl *call, state RequestState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != cl {
		return
	}
	c.current = nil
	c.request = state
	c.publishLocked()
	c.inflight.Release(1)
	close(cl.done)

	c.log.Info("request finished",
		zap.String("request_id", cl.id),
		zap.Stringer("phase", state.Phase),
	)
}
