package memory

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/m2dev/m2do/internal/log"
	"github.com/m2dev/m2do/internal/model"
	"github.com/m2dev/m2do/internal/storage"
)

// StoreConfig is the configuration for the memory store.
type StoreConfig struct {
	Logger log.Logger

	// Now is the clock used for server-assigned timestamps. Defaults to
	// time.Now.
	Now func() time.Time
}

func (c *StoreConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})

	if c.Now == nil {
		c.Now = time.Now
	}

	return nil
}

// Store is an in-memory implementation of storage.Store. It keeps insertion
// order so repeated snapshots list tasks stably.
type Store struct {
	tasks  map[string]model.Task
	order  []string
	feed   *storage.Feed
	mu     sync.Mutex
	now    func() time.Time
	logger log.Logger
}

var _ storage.Store = &Store{}

// NewStore creates a new memory store.
func NewStore(cfg StoreConfig) (*Store, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Store{
		tasks:  map[string]model.Task{},
		feed:   storage.NewFeed(),
		now:    cfg.Now,
		logger: cfg.Logger,
	}, nil
}

// Subscribe registers a change-feed subscriber and delivers the current
// snapshot before returning.
func (s *Store) Subscribe(ctx context.Context, onSnapshot storage.SnapshotFunc, onError storage.ErrorFunc) (func(), error) {
	if onSnapshot == nil {
		return nil, fmt.Errorf("snapshot callback is required: %w", model.ErrNotValid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	unsubscribe := s.feed.Register(onSnapshot, onError)
	onSnapshot(s.snapshotLocked())

	s.logger.Debugf("Subscribed to %s feed", model.Collection)
	return unsubscribe, nil
}

// CreateTask creates a new task with a store-assigned ULID and timestamps.
func (s *Store) CreateTask(ctx context.Context, fields storage.TaskFields) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := ulid.MustNew(ulid.Timestamp(s.now()), rand.Reader).String()
	now := s.now().UTC()

	s.tasks[id] = model.Task{
		ID:                id,
		Date:              fields.Date,
		To:                fields.To,
		Subject:           fields.Subject,
		Details:           fields.Details,
		Status:            fields.Status,
		History:           append([]model.HistoryEntry{}, fields.History...),
		CreatedByUID:      fields.CreatedByUID,
		CreatedByEmail:    fields.CreatedByEmail,
		CreatedByAuthType: fields.CreatedByAuthType,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	s.order = append(s.order, id)

	s.feed.Broadcast(s.snapshotLocked())

	s.logger.Debugf("Created task in store: %s", id)
	return id, nil
}

// UpdateTask applies a partial update atomically.
func (s *Store) UpdateTask(ctx context.Context, id string, write storage.TaskWrite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	if write.Date != nil {
		task.Date = *write.Date
	}
	if write.To != nil {
		task.To = *write.To
	}
	if write.Subject != nil {
		task.Subject = *write.Subject
	}
	if write.Details != nil {
		task.Details = *write.Details
	}
	if write.Status != nil {
		task.Status = *write.Status
	}
	if write.History != nil {
		task.History = append([]model.HistoryEntry{}, write.History...)
	}
	task.UpdatedAt = s.now().UTC()

	s.tasks[id] = task

	s.feed.Broadcast(s.snapshotLocked())

	s.logger.Debugf("Updated task in store: %s", id)
	return nil
}

// DeleteTask deletes a task.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	delete(s.tasks, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	s.feed.Broadcast(s.snapshotLocked())

	s.logger.Debugf("Deleted task in store: %s", id)
	return nil
}

// snapshotLocked builds a full collection snapshot in insertion order. Must
// be called with the store lock held.
func (s *Store) snapshotLocked() []model.Task {
	snapshot := make([]model.Task, 0, len(s.order))
	for _, id := range s.order {
		task := s.tasks[id]
		task.History = append([]model.HistoryEntry{}, task.History...)
		snapshot = append(snapshot, task)
	}
	return snapshot
}
