package model

import "time"

// HistoryAction is the kind of event a history entry records.
type HistoryAction string

const (
	// HistoryActionCreated marks the entry seeded when a task is created.
	HistoryActionCreated HistoryAction = "CREATED"
	// HistoryActionUpdated marks an entry recording a field-level edit.
	HistoryActionUpdated HistoryAction = "UPDATED"
)

// Tracked field names. These are the five fields whose mutations are
// audited; TrackedFields is the stable rendering order.
const (
	FieldDate    = "date"
	FieldTo      = "to"
	FieldSubject = "subject"
	FieldDetails = "details"
	FieldStatus  = "status"
)

// TrackedFields returns the audited field names in their fixed render order.
func TrackedFields() []string {
	return []string{FieldDate, FieldTo, FieldSubject, FieldDetails, FieldStatus}
}

// FieldChange is the before/after value of a single field inside a history
// entry. From is nil when the field is being set for the first time
// (creation), present and distinct from To otherwise.
type FieldChange struct {
	From *string `json:"from,omitempty"`
	To   string  `json:"to"`
}

// HistoryEntry is the immutable record of one create/update/toggle event.
// Changes is never empty: an update that changes nothing must not produce
// an entry.
type HistoryEntry struct {
	Action    HistoryAction          `json:"action"`
	Timestamp time.Time              `json:"timestamp"`
	Changes   map[string]FieldChange `json:"changes"`
}

// TrackedValue returns the draft value of a tracked field by name.
func (d Draft) TrackedValue(field string) string {
	switch field {
	case FieldDate:
		return d.Date
	case FieldTo:
		return d.To
	case FieldSubject:
		return d.Subject
	case FieldDetails:
		return d.Details
	case FieldStatus:
		return string(d.Status)
	}
	return ""
}

// TrackedValue returns the task value of a tracked field by name.
func (t Task) TrackedValue(field string) string {
	return DraftOf(t).TrackedValue(field)
}
