// Package board owns the change-feed session: it ties the feed subscription
// to the identity lifecycle and keeps the replica current.
package board

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m2dev/m2do/internal/identity"
	"github.com/m2dev/m2do/internal/log"
	"github.com/m2dev/m2do/internal/model"
	"github.com/m2dev/m2do/internal/replica"
	"github.com/m2dev/m2do/internal/storage"
	"github.com/m2dev/m2do/internal/view"
)

// Config is the configuration for the board session.
type Config struct {
	Store    storage.Store
	Identity identity.Provider
	Logger   log.Logger

	// OnError receives feed delivery errors. They are persistent conditions
	// for the user to see; the replica is left as it was and self-corrects
	// on the next successful snapshot. Optional.
	OnError func(err error)

	// OnSnapshot is invoked after every snapshot has been applied to the
	// replica. Optional; used by watch-style consumers.
	OnSnapshot func(snapshot []model.Task)

	// Now is the clock used for the view reference date. Defaults to
	// time.Now.
	Now func() time.Time
}

func (c *Config) defaults() error {
	if c.Store == nil {
		return fmt.Errorf("store is required")
	}
	if c.Identity == nil {
		return fmt.Errorf("identity provider is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "board.Session"})

	if c.Now == nil {
		c.Now = time.Now
	}

	return nil
}

// Board is the live session over the shared task collection. While a user is
// signed in it holds exactly one feed subscription; on sign out it releases
// the subscription and clears the replica.
type Board struct {
	store      storage.Store
	identity   identity.Provider
	replica    *replica.Replica
	onError    func(error)
	onSnapshot func([]model.Task)
	now        func() time.Time
	logger     log.Logger

	mu            sync.Mutex
	unsubFeed     func()
	unsubIdentity func()
}

// New creates a board session and starts following the identity: if a user
// is already signed in the feed subscription starts immediately, and the
// initial snapshot is applied before New returns.
func New(ctx context.Context, cfg Config) (*Board, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	b := &Board{
		store:      cfg.Store,
		identity:   cfg.Identity,
		replica:    replica.New(),
		onError:    cfg.OnError,
		onSnapshot: cfg.OnSnapshot,
		now:        cfg.Now,
		logger:     cfg.Logger,
	}

	b.unsubIdentity = cfg.Identity.OnChange(func(user *model.User) {
		if user != nil {
			b.subscribe(ctx)
			return
		}
		b.unsubscribe()
		b.replica.Clear()
	})

	return b, nil
}

// Replica returns the board's task replica.
func (b *Board) Replica() *replica.Replica { return b.replica }

// Today returns the open tasks in scope dated today or earlier. The
// reference date is recomputed on every call.
func (b *Board) Today(scope string) []model.Task {
	return view.Today(b.replica.Snapshot(), scope, view.TodayISO(b.now()))
}

// Future returns the open tasks in scope dated after today.
func (b *Board) Future(scope string) []model.Task {
	return view.Future(b.replica.Snapshot(), scope, view.TodayISO(b.now()))
}

// Closed returns the closed tasks in scope.
func (b *Board) Closed(scope string) []model.Task {
	return view.Closed(b.replica.Snapshot(), scope)
}

// OpenCount counts the open tasks in scope.
func (b *Board) OpenCount(scope string) int {
	return view.OpenCount(b.replica.Snapshot(), scope)
}

// Close releases the identity registration and any active feed subscription.
func (b *Board) Close() {
	b.mu.Lock()
	unsubIdentity := b.unsubIdentity
	b.unsubIdentity = nil
	b.mu.Unlock()

	if unsubIdentity != nil {
		unsubIdentity()
	}
	b.unsubscribe()
}

// subscribe starts the feed subscription, releasing any previous one first
// so there is never duplicate delivery.
func (b *Board) subscribe(ctx context.Context) {
	b.unsubscribe()

	unsub, err := b.store.Subscribe(ctx, b.applySnapshot, b.feedError)
	if err != nil {
		b.feedError(fmt.Errorf("failed to load tasks: %w", err))
		return
	}

	b.mu.Lock()
	b.unsubFeed = unsub
	b.mu.Unlock()

	b.logger.Debugf("Feed subscription started")
}

func (b *Board) unsubscribe() {
	b.mu.Lock()
	unsub := b.unsubFeed
	b.unsubFeed = nil
	b.mu.Unlock()

	if unsub != nil {
		unsub()
		b.logger.Debugf("Feed subscription released")
	}
}

// applySnapshot is the whole reaction to a feed delivery: swap the replica.
func (b *Board) applySnapshot(snapshot []model.Task) {
	b.replica.Apply(snapshot)
	if b.onSnapshot != nil {
		b.onSnapshot(snapshot)
	}
}

func (b *Board) feedError(err error) {
	b.logger.Errorf("Feed error: %s", err)
	if b.onError != nil {
		b.onError(err)
	}
}
