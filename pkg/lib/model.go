package lib

import (
	"github.com/m2dev/m2do/internal/history"
	"github.com/m2dev/m2do/internal/model"
)

// Task represents a single task of the shared board.
type Task = model.Task

// Draft is the editable buffer submitted on create and update.
type Draft = model.Draft

// HistoryEntry is the immutable record of one create/update/toggle event.
type HistoryEntry = model.HistoryEntry

// HistoryRow is one rendered history entry.
type HistoryRow = history.Row

// Status represents the open/closed state of a task.
type Status = model.Status

const (
	// StatusOpen indicates the task is still pending.
	StatusOpen = model.StatusOpen
	// StatusClosed indicates the task is done.
	StatusClosed = model.StatusClosed
)

// ScopeAll is the assignee scope that matches every assignee.
const ScopeAll = model.ScopeAll

// DateLayout is the calendar date format used by task dates.
const DateLayout = model.DateLayout

// BoardConfig is the board configuration (assignee roster, delete policy).
type BoardConfig = model.BoardConfig

// Sentinel errors returned by the SDK, check them with errors.Is.
var (
	// ErrNotFound is returned when a task is not found.
	ErrNotFound = model.ErrNotFound
	// ErrNotValid is returned when a request is not valid, including delete
	// policy rejections.
	ErrNotValid = model.ErrNotValid
	// ErrUnauthenticated is returned when an operation requires a signed-in
	// user and there is none.
	ErrUnauthenticated = model.ErrUnauthenticated
)
