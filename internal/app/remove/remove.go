package remove

import (
	"context"
	"fmt"

	"github.com/m2dev/m2do/internal/log"
	"github.com/m2dev/m2do/internal/model"
	"github.com/m2dev/m2do/internal/replica"
	"github.com/m2dev/m2do/internal/storage"
)

// ServiceConfig is the configuration for the remove service.
type ServiceConfig struct {
	Store   storage.Store
	Replica *replica.Replica

	// Policy gates which tasks are eligible for deletion. Defaults to
	// model.DeletePolicyGated (only Closed tasks with empty details).
	Policy model.DeletePolicy

	Logger log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Store == nil {
		return fmt.Errorf("store is required")
	}
	if c.Replica == nil {
		return fmt.Errorf("replica is required")
	}
	if c.Policy == "" {
		c.Policy = model.DeletePolicyGated
	}
	switch c.Policy {
	case model.DeletePolicyGated, model.DeletePolicyConfirmOnly:
	default:
		return fmt.Errorf("unknown delete policy %q", c.Policy)
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Remove"})

	return nil
}

// Service handles task deletion business logic.
type Service struct {
	store   storage.Store
	replica *replica.Replica
	policy  model.DeletePolicy
	logger  log.Logger
}

// NewService creates a new remove service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		store:   cfg.Store,
		replica: cfg.Replica,
		policy:  cfg.Policy,
		logger:  cfg.Logger,
	}, nil
}

// Request is a task deletion request.
type Request struct {
	TaskID string
}

// Remove deletes a task after checking the deletion eligibility policy
// against the current replica state. Policy rejections happen before any
// network call; an id unknown to the store fails cleanly with not-found.
func (s *Service) Remove(ctx context.Context, req Request) error {
	if err := s.checkEligibility(req.TaskID); err != nil {
		return err
	}

	if err := s.store.DeleteTask(ctx, req.TaskID); err != nil {
		return fmt.Errorf("could not delete task: %w", err)
	}

	s.logger.Infof("Deleted task %s", req.TaskID)

	return nil
}

func (s *Service) checkEligibility(taskID string) error {
	if s.policy == model.DeletePolicyConfirmOnly {
		return nil
	}

	task, ok := s.replica.Get(taskID)
	if !ok {
		return fmt.Errorf("task %s: %w", taskID, model.ErrNotFound)
	}

	if task.Status != model.StatusClosed {
		return fmt.Errorf("only closed tasks can be deleted: %w", model.ErrNotValid)
	}
	if task.Details != "" {
		return fmt.Errorf("only tasks without details can be deleted: %w", model.ErrNotValid)
	}

	return nil
}
