package update

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

// ServiceConfig is the configuration for the update service.
type ServiceConfig struct {
	Store   storage.Store
	Replica *replica.Replica
	Roster  []string
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
	if len(c.Roster) == 0 {
		c.Roster = model.DefaultAssignees
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Update"})

	if c.Now == nil {
		c.Now = time.Now
	}

	return nil
}

// Service handles task edit business logic.
type Service struct {
	store   storage.Store
	replica *replica.Replica
	roster  []string
	now     func() time.Time
	logger  log.Logger
}

// NewService creates a new update service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		store:   cfg.Store,
		replica: cfg.Replica,
		roster:  cfg.Roster,
		now:     cfg.Now,
		logger:  cfg.Logger,
	}, nil
}

// Request is a task edit request.
type Request struct {
	TaskID string
	Draft  model.Draft
}

// Update diffs the draft against the last-observed replica state of the task
// and commits the changed fields plus the appended history entry in a single
// atomic write. A draft identical to the original is a complete no-op: no
// entry, no write.
//
// The diff base is the replica, not a fresh remote read: conflicting writes
// resolve as whole-document last-writer-wins, concurrent edits to disjoint
// fields are not merged.
func (s *Service) Update(ctx context.Context, req Request) error {
	original, ok := s.replica.Get(req.TaskID)
	if !ok {
		return fmt.Errorf("task %s: %w", req.TaskID, model.ErrNotFound)
	}

	if err := req.Draft.Validate(s.roster); err != nil {
		return fmt.Errorf("invalid draft: %w", err)
	}

	entry := history.NewUpdateEntry(s.now(), original, req.Draft)
	if entry == nil {
		s.logger.Debugf("No changes for task %s, skipping write", req.TaskID)
		return nil
	}

	write := storage.TaskWrite{
		History: append(original.History, *entry),
	}
	for field := range entry.Changes {
		switch field {
		case model.FieldDate:
			write.Date = &req.Draft.Date
		case model.FieldTo:
			write.To = &req.Draft.To
		case model.FieldSubject:
			write.Subject = &req.Draft.Subject
		case model.FieldDetails:
			write.Details = &req.Draft.Details
		case model.FieldStatus:
			write.Status = &req.Draft.Status
		}
	}

	if err := s.store.UpdateTask(ctx, req.TaskID, write); err != nil {
		return fmt.Errorf("could not update task: %w", err)
	}

	s.logger.Infof("Updated task %s (%d field(s))", req.TaskID, len(entry.Changes))

	return nil
}
