package model

import (
	"fmt"
	"time"
)

// Collection is the logical name of the shared task collection. There is a
// single board, no multi-tenancy.
const Collection = "m2do_tasks"

// ScopeAll is the assignee scope that matches every assignee.
const ScopeAll = "All"

// DefaultAssignees is the fixed assignee roster used when no board
// configuration overrides it.
var DefaultAssignees = []string{"MNB", "SHR", "PRD", "SMB", "GMB"}

// DateLayout is the calendar date format used by task dates (no time
// component). Dates compare correctly as plain strings in this layout.
const DateLayout = "2006-01-02"

// Status represents the open/closed state of a task.
type Status string

const (
	// StatusOpen indicates the task is still pending.
	StatusOpen Status = "Open"
	// StatusClosed indicates the task is done.
	StatusClosed Status = "Closed"
)

// Toggled returns the complementary status. Any status other than Closed is
// treated as Open.
func (s Status) Toggled() Status {
	if s == StatusClosed {
		return StatusOpen
	}
	return StatusClosed
}

// Normalized collapses unknown status values into Open.
func (s Status) Normalized() Status {
	if s == StatusClosed {
		return StatusClosed
	}
	return StatusOpen
}

// Task represents a single task of the shared board.
//
// ID is assigned by the store on creation and immutable afterwards. History
// is append-only: every committed mutation of a tracked field adds exactly
// one entry.
type Task struct {
	ID                string
	Date              string // Calendar date, DateLayout.
	To                string // Assignee code.
	Subject           string
	Details           string
	Status            Status
	History           []HistoryEntry
	CreatedByUID      string
	CreatedByEmail    string
	CreatedByAuthType string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Draft is the transient editable buffer for a task being created or edited.
// It is owned by the editing session and never persisted as-is.
type Draft struct {
	Date    string
	To      string
	Subject string
	Details string
	Status  Status
}

// DraftOf returns a draft seeded with the tracked field values of a task.
func DraftOf(t Task) Draft {
	return Draft{
		Date:    t.Date,
		To:      t.To,
		Subject: t.Subject,
		Details: t.Details,
		Status:  t.Status,
	}
}

// Validate validates the draft against the given assignee roster.
func (d *Draft) Validate(roster []string) error {
	if d.Subject == "" {
		return fmt.Errorf("subject is required: %w", ErrNotValid)
	}

	if _, err := time.Parse(DateLayout, d.Date); err != nil {
		return fmt.Errorf("date %q must be a %s calendar date: %w", d.Date, DateLayout, ErrNotValid)
	}

	if d.Status != StatusOpen && d.Status != StatusClosed {
		return fmt.Errorf("status %q must be %s or %s: %w", d.Status, StatusOpen, StatusClosed, ErrNotValid)
	}

	for _, a := range roster {
		if d.To == a {
			return nil
		}
	}
	return fmt.Errorf("assignee %q is not in the roster: %w", d.To, ErrNotValid)
}

// User is the signed-in identity that mutations are attributed to.
type User struct {
	UID      string
	Email    string
	AuthType string
}
