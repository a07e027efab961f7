package storage

import (
	"context"

	"github.com/m2dev/m2do/internal/model"
)

// SnapshotFunc receives a complete point-in-time listing of the task
// collection. Snapshots are authoritative and total: the receiver must
// replace its state wholesale, never patch incrementally.
type SnapshotFunc func(snapshot []model.Task)

// ErrorFunc receives feed delivery errors.
type ErrorFunc func(err error)

// TaskFields are the fields submitted when creating a task. The store
// assigns the ID and the creation/update timestamps.
type TaskFields struct {
	Date              string
	To                string
	Subject           string
	Details           string
	Status            model.Status
	History           []model.HistoryEntry
	CreatedByUID      string
	CreatedByEmail    string
	CreatedByAuthType string
}

// TaskWrite is a partial task update. Nil fields are left untouched; History
// (when non-nil) replaces the stored history wholesale with the extended
// sequence composed by the caller. The whole write is atomic.
type TaskWrite struct {
	Date    *string
	To      *string
	Subject *string
	Details *string
	Status  *model.Status
	History []model.HistoryEntry
}

// Store is the remote task document store. All writes are atomic at the
// single-document level; concurrent writers are resolved as whole-document
// last-writer-wins.
type Store interface {
	// Subscribe registers a change-feed subscriber. It delivers an initial
	// full snapshot and then a full snapshot after every committed mutation,
	// in commit order. The returned function releases the subscription.
	Subscribe(ctx context.Context, onSnapshot SnapshotFunc, onError ErrorFunc) (unsubscribe func(), err error)

	// CreateTask creates a task and returns its store-assigned ID.
	CreateTask(ctx context.Context, fields TaskFields) (id string, err error)

	// UpdateTask applies a partial update to a task.
	UpdateTask(ctx context.Context, id string, write TaskWrite) error

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id string) error
}

//go:generate mockery --case underscore --output storagemock --outpkg storagemock --name Store
