// Package session implements the session controller: the single owner of the
// category selection, the query text and the recommendation request
// lifecycle. Views read immutable Snapshots and mutate state only through the
// Controller's methods.
package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"cocktailnerd/internal/backend"
	"cocktailnerd/internal/logging"
	"cocktailnerd/internal/sanitize"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// DefaultTimeout bounds a request when Config.Timeout is zero.
const DefaultTimeout = 60 * time.Second

// Config configures a Controller.
type Config struct {
	Categories   []Category
	EmptyQuery   string
	GenericError string
	Timeout      time.Duration
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.EmptyQuery) == "" {
		c.EmptyQuery = DefaultEmptyQuery
	}
	if strings.TrimSpace(c.GenericError) == "" {
		c.GenericError = DefaultGenericError
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Controller is the stateful facade the view talks to. It is safe for
// concurrent use.
type Controller struct {
	cfg       Config
	backend   backend.Backend
	sanitizer *sanitize.Sanitizer
	log       *zap.Logger

	// inflight has capacity one: at most one request per controller.
	inflight *semaphore.Weighted

	mu        sync.Mutex
	available CategorySet
	selection Selection
	query     string
	request   RequestState
	requestID string
	version   uint64
	current   *call

	subs    map[int]chan Snapshot
	nextSub int
}

// New creates a controller over the given vocabulary and backend.
// A nil sanitizer uses the "ugc" policy; a nil logger uses the session
// logging category.
func New(cfg Config, b backend.Backend, s *sanitize.Sanitizer, log *zap.Logger) (*Controller, error) {
	if b == nil {
		return nil, errors.New("backend is required")
	}
	vocab, err := NewCategorySet(cfg.Categories...)
	if err != nil {
		return nil, err
	}
	if s == nil {
		if s, err = sanitize.New(sanitize.PolicyUGC); err != nil {
			return nil, err
		}
	}
	if log == nil {
		log = logging.Get(logging.CategorySession)
	}

	return &Controller{
		cfg:       cfg.withDefaults(),
		backend:   b,
		sanitizer: s,
		log:       log,
		inflight:  semaphore.NewWeighted(1),
		available: vocab,
		selection: emptySelection(vocab),
		request:   Idle(),
		subs:      make(map[int]chan Snapshot),
	}, nil
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// ToggleSelect adds category to the selection. Selecting an already selected
// category is a no-op; removal goes through Deselect. Categories outside the
// vocabulary fail with *UnknownCategoryError and leave the selection as is.
func (c *Controller) ToggleSelect(category Category) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.available.Contains(category) {
		return c.snapshotLocked(), &UnknownCategoryError{Category: category}
	}
	if c.selection.Contains(category) {
		return c.snapshotLocked(), nil
	}
	c.selection = c.selection.with(category)
	return c.publishLocked(), nil
}

// Deselect removes category from the selection if present.
func (c *Controller) Deselect(category Category) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.selection.Contains(category) {
		return c.snapshotLocked()
	}
	c.selection = c.selection.without(category)
	return c.publishLocked()
}

// IsSelected reports whether category is currently selected.
func (c *Controller) IsSelected(category Category) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.Contains(category)
}

// SetQuery replaces the query text. The text is stored exactly as given.
func (c *Controller) SetQuery(text string) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if text == c.query {
		return c.snapshotLocked()
	}
	c.query = text
	return c.publishLocked()
}

// Subscribe registers for state changes. The channel holds at most one
// snapshot: a slow reader only ever sees the latest state. It immediately
// receives the current snapshot. Call the returned function to unsubscribe;
// it closes the channel.
func (c *Controller) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.snapshotLocked()
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
			close(ch)
		})
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		available: c.available,
		selection: c.selection,
		query:     c.query,
		request:   c.request,
		requestID: c.requestID,
		version:   c.version,
	}
}

// publishLocked bumps the version and hands the new snapshot to subscribers,
// replacing any snapshot they have not read yet.
func (c *Controller) publishLocked() Snapshot {
	c.version++
	snap := c.snapshotLocked()
	for _, ch := range c.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
	return snap
}
