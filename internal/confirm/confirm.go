// Package confirm implements the confirmation gates in front of
// status-changing and destructive writes. Any UI can drive a gate with
// request/confirm/cancel calls; no blocking prompt is assumed.
package confirm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/m2dev/m2do/internal/app/remove"
	"github.com/m2dev/m2do/internal/app/toggle"
	"github.com/m2dev/m2do/internal/log"
	"github.com/m2dev/m2do/internal/model"
	"github.com/m2dev/m2do/internal/replica"
)

// Toggler is the status toggle operation behind the gate.
type Toggler interface {
	Toggle(ctx context.Context, req toggle.Request) (model.Status, error)
}

// Remover is the delete operation behind the gate.
type Remover interface {
	Remove(ctx context.Context, req remove.Request) error
}

// intent is the transient pending confirmation: it lives only between a
// request and its confirm or cancel.
type intent struct {
	taskID string
	from   model.Status
	to     model.Status
}

// StatusGateConfig is the configuration for the status toggle gate.
type StatusGateConfig struct {
	Replica *replica.Replica
	Toggler Toggler
	Logger  log.Logger
}

func (c *StatusGateConfig) defaults() error {
	if c.Replica == nil {
		return fmt.Errorf("replica is required")
	}
	if c.Toggler == nil {
		return fmt.Errorf("toggler is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "confirm.StatusGate"})

	return nil
}

// StatusGate gates status toggles behind explicit confirmation:
// Idle -> Pending(task, from, to) -> Idle.
type StatusGate struct {
	replica *replica.Replica
	toggler Toggler
	logger  log.Logger

	mu      sync.Mutex
	pending *intent
}

// NewStatusGate creates a new status toggle gate in the Idle state.
func NewStatusGate(cfg StatusGateConfig) (*StatusGate, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &StatusGate{
		replica: cfg.Replica,
		toggler: cfg.Toggler,
		logger:  cfg.Logger,
	}, nil
}

// RequestToggle moves the gate to Pending for the given task, snapshotting
// the from/to transition at request time.
func (g *StatusGate) RequestToggle(task model.Task) {
	from := task.Status.Normalized()

	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = &intent{
		taskID: task.ID,
		from:   from,
		to:     from.Toggled(),
	}
}

// Pending reports whether a confirmation is pending.
func (g *StatusGate) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending != nil
}

// Message renders the confirmation question for the pending toggle. It is
// empty when nothing is pending; if the task has vanished from the replica
// the question falls back to a generic one.
func (g *StatusGate) Message() string {
	g.mu.Lock()
	pending := g.pending
	g.mu.Unlock()

	if pending == nil {
		return ""
	}
	task, ok := g.replica.Get(pending.taskID)
	if !ok {
		return "Do you want change the status?"
	}

	return fmt.Sprintf("Do you want change the status from %s to %s?",
		strings.ToLower(string(task.Status.Normalized())),
		strings.ToLower(string(pending.to)))
}

// Confirm resolves the pending toggle. If the task has been deleted
// concurrently it silently returns to Idle without writing; otherwise the
// toggle re-derives the transition from the then-current replica value, so a
// stale request-time snapshot is never written. The gate always ends Idle.
func (g *StatusGate) Confirm(ctx context.Context) error {
	g.mu.Lock()
	pending := g.pending
	g.pending = nil
	g.mu.Unlock()

	if pending == nil {
		return fmt.Errorf("no pending status change: %w", model.ErrNotValid)
	}

	if _, ok := g.replica.Get(pending.taskID); !ok {
		g.logger.Debugf("Task %s vanished before confirmation, skipping", pending.taskID)
		return nil
	}

	if _, err := g.toggler.Toggle(ctx, toggle.Request{TaskID: pending.taskID}); err != nil {
		return fmt.Errorf("could not toggle status: %w", err)
	}

	return nil
}

// Cancel discards the pending toggle with no side effect.
func (g *StatusGate) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = nil
}

// DeleteGateConfig is the configuration for the delete gate.
type DeleteGateConfig struct {
	Replica *replica.Replica
	Remover Remover
	Logger  log.Logger
}

func (c *DeleteGateConfig) defaults() error {
	if c.Replica == nil {
		return fmt.Errorf("replica is required")
	}
	if c.Remover == nil {
		return fmt.Errorf("remover is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "confirm.DeleteGate"})

	return nil
}

// DeleteGate gates deletions behind explicit confirmation. The gate is
// binary: confirm deletes the pending task, cancel discards the intent.
type DeleteGate struct {
	replica *replica.Replica
	remover Remover
	logger  log.Logger

	mu      sync.Mutex
	pending string
}

// NewDeleteGate creates a new delete gate in the Idle state.
func NewDeleteGate(cfg DeleteGateConfig) (*DeleteGate, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &DeleteGate{
		replica: cfg.Replica,
		remover: cfg.Remover,
		logger:  cfg.Logger,
	}, nil
}

// RequestDelete moves the gate to Pending for the given task.
func (g *DeleteGate) RequestDelete(task model.Task) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = task.ID
}

// Pending reports whether a confirmation is pending.
func (g *DeleteGate) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending != ""
}

// Message renders the confirmation question for the pending deletion.
func (g *DeleteGate) Message() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == "" {
		return ""
	}
	return "Delete this task?"
}

// Confirm resolves the pending deletion. A task already gone from the
// replica silently returns to Idle. The gate always ends Idle.
func (g *DeleteGate) Confirm(ctx context.Context) error {
	g.mu.Lock()
	pending := g.pending
	g.pending = ""
	g.mu.Unlock()

	if pending == "" {
		return fmt.Errorf("no pending deletion: %w", model.ErrNotValid)
	}

	if _, ok := g.replica.Get(pending); !ok {
		g.logger.Debugf("Task %s vanished before confirmation, skipping", pending)
		return nil
	}

	if err := g.remover.Remove(ctx, remove.Request{TaskID: pending}); err != nil {
		return fmt.Errorf("could not delete task: %w", err)
	}

	return nil
}

// Cancel discards the pending deletion with no side effect.
func (g *DeleteGate) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = ""
}
