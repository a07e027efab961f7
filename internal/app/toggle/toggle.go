package toggle

import (
	"context"
	"fmt"
	"time"

	"github.com/m2dev/m2do/internal/history"
	"github.com/m2dev/m2do/internal/log"
	"github.com/m2dev/m2do/internal/model"
	"github.com/m2dev/m2do/internal/replica"
	"github.com/m2dev/m2do/internal/storage"
)

// ServiceConfig is the configuration for the status toggle service.
type ServiceConfig struct {
	Store   storage.Store
	Replica *replica.Replica
	Logger  log.Logger

	// Now is the clock used for history entry timestamps. Defaults to
	// time.Now.
	Now func() time.Time
}

func (c *ServiceConfig) defaults() error {
	if c.Store == nil {
		return fmt.Errorf("store is required")
	}
	if c.Replica == nil {
		return fmt.Errorf("replica is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Toggle"})

	if c.Now == nil {
		c.Now = time.Now
	}

	return nil
}

// Service handles open/closed status toggles.
type Service struct {
	store   storage.Store
	replica *replica.Replica
	now     func() time.Time
	logger  log.Logger
}

// NewService creates a new toggle service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		store:   cfg.Store,
		replica: cfg.Replica,
		now:     cfg.Now,
		logger:  cfg.Logger,
	}, nil
}

// Request is a status toggle request.
type Request struct {
	TaskID string
}

// Toggle flips the task status between Open and Closed, deriving the
// transition from the current replica value, and commits the new status plus
// the history entry atomically. The entry is composed unconditionally: a
// toggle always changes the status.
func (s *Service) Toggle(ctx context.Context, req Request) (model.Status, error) {
	original, ok := s.replica.Get(req.TaskID)
	if !ok {
		return "", fmt.Errorf("task %s: %w", req.TaskID, model.ErrNotFound)
	}

	entry := history.NewToggleEntry(s.now(), original)
	newStatus := original.Status.Normalized().Toggled()

	err := s.store.UpdateTask(ctx, req.TaskID, storage.TaskWrite{
		Status:  &newStatus,
		History: append(original.History, entry),
	})
	if err != nil {
		return "", fmt.Errorf("could not update task status: %w", err)
	}

	s.logger.Infof("Toggled task %s status to %s", req.TaskID, newStatus)

	return newStatus, nil
}
