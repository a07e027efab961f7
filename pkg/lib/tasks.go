package lib

import (
	"context"
	"fmt"

	"github.com/m2dev/m2do/internal/app/create"
	"github.com/m2dev/m2do/internal/app/remove"
	"github.com/m2dev/m2do/internal/app/toggle"
	"github.com/m2dev/m2do/internal/app/update"
	"github.com/m2dev/m2do/internal/history"
	"github.com/m2dev/m2do/internal/model"
)

// CreateTask creates a new task and returns its store-assigned ID. The new
// record carries a CREATED history entry covering every tracked field.
func (c *Client) CreateTask(ctx context.Context, draft Draft) (string, error) {
	id, err := c.createSvc.Create(ctx, create.Request{Draft: draft})
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateTask edits a task's fields. A draft identical to the current state
// is a no-op: nothing is written and no history entry is recorded.
func (c *Client) UpdateTask(ctx context.Context, taskID string, draft Draft) error {
	return c.updateSvc.Update(ctx, update.Request{TaskID: taskID, Draft: draft})
}

// ToggleStatus flips a task between Open and Closed and returns the new
// status.
func (c *Client) ToggleStatus(ctx context.Context, taskID string) (Status, error) {
	return c.toggleSvc.Toggle(ctx, toggle.Request{TaskID: taskID})
}

// DeleteTask deletes a task, subject to the configured delete policy.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return c.removeSvc.Remove(ctx, remove.Request{TaskID: taskID})
}

// GetTask returns a task from the local replica.
func (c *Client) GetTask(taskID string) (Task, error) {
	task, ok := c.board.Replica().Get(taskID)
	if !ok {
		return Task{}, fmt.Errorf("task %s: %w", taskID, model.ErrNotFound)
	}
	return task, nil
}

// Tasks returns all tasks in the local replica, in feed delivery order.
func (c *Client) Tasks() []Task {
	return c.board.Replica().Snapshot()
}

// Today returns the open tasks in scope dated today or earlier, ascending by
// date.
func (c *Client) Today(scope string) []Task {
	return c.board.Today(scope)
}

// Future returns the open tasks in scope dated after today, ascending by
// date.
func (c *Client) Future(scope string) []Task {
	return c.board.Future(scope)
}

// Closed returns the closed tasks in scope, ascending by date.
func (c *Client) Closed(scope string) []Task {
	return c.board.Closed(scope)
}

// OpenCount counts the open tasks in scope. Pass [ScopeAll] for the whole
// board.
func (c *Client) OpenCount(scope string) int {
	return c.board.OpenCount(scope)
}

// History returns a task's rendered audit history, oldest entry first.
func (c *Client) History(taskID string) ([]HistoryRow, error) {
	task, err := c.GetTask(taskID)
	if err != nil {
		return nil, err
	}
	return history.RenderRows(task.History), nil
}

// Assignees returns the board's assignee roster.
func (c *Client) Assignees() []string {
	roster := make([]string, len(c.cfg.Assignees))
	copy(roster, c.cfg.Assignees)
	return roster
}
