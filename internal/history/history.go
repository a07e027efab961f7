// Package history is the audit engine: it composes the immutable history
// entries appended on every committed task mutation, and renders them for
// display.
package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/m2dev/m2do/internal/model"
)

// NewCreateEntry composes the CREATED entry seeding a fresh task's
// provenance. Every tracked field gets a to-only change, even when the value
// is empty or a default.
func NewCreateEntry(now time.Time, draft model.Draft) model.HistoryEntry {
	changes := map[string]model.FieldChange{}
	for _, field := range model.TrackedFields() {
		changes[field] = model.FieldChange{To: draft.TrackedValue(field)}
	}

	return model.HistoryEntry{
		Action:    model.HistoryActionCreated,
		Timestamp: now,
		Changes:   changes,
	}
}

// NewUpdateEntry composes the UPDATED entry for an edit, diffing the draft
// against the original field by field. It returns nil when nothing changed:
// no entry must be recorded, and the caller must skip the write entirely.
func NewUpdateEntry(now time.Time, original model.Task, draft model.Draft) *model.HistoryEntry {
	changes := map[string]model.FieldChange{}
	for _, field := range model.TrackedFields() {
		from := original.TrackedValue(field)
		to := draft.TrackedValue(field)
		if from != to {
			fromCopy := from
			changes[field] = model.FieldChange{From: &fromCopy, To: to}
		}
	}

	if len(changes) == 0 {
		return nil
	}

	return &model.HistoryEntry{
		Action:    model.HistoryActionUpdated,
		Timestamp: now,
		Changes:   changes,
	}
}

// NewToggleEntry composes the UPDATED entry for a status toggle. Any status
// other than Closed counts as Open for the from side; to is always the
// complement.
func NewToggleEntry(now time.Time, task model.Task) model.HistoryEntry {
	from := string(task.Status.Normalized())
	to := string(task.Status.Normalized().Toggled())

	return model.HistoryEntry{
		Action:    model.HistoryActionUpdated,
		Timestamp: now,
		Changes: map[string]model.FieldChange{
			model.FieldStatus: {From: &from, To: to},
		},
	}
}

// Row is one rendered history entry.
type Row struct {
	Action  string
	Time    string
	Changes string
}

// RenderRows renders history entries for display: one row per entry, change
// lines in the fixed tracked field order, newline-joined.
func RenderRows(entries []model.HistoryEntry) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Row{
			Action:  renderAction(e.Action),
			Time:    renderTime(e.Timestamp),
			Changes: renderChanges(e.Changes),
		})
	}
	return rows
}

func renderAction(a model.HistoryAction) string {
	if a == "" {
		return string(model.HistoryActionUpdated)
	}
	return string(a)
}

func renderTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func renderChanges(changes map[string]model.FieldChange) string {
	lines := []string{}
	for _, field := range model.TrackedFields() {
		change, ok := changes[field]
		if !ok {
			continue
		}
		if change.From != nil {
			lines = append(lines, fmt.Sprintf("%s: %q -> %q", field, *change.From, change.To))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %q", field, change.To))
	}
	return strings.Join(lines, "\n")
}
