package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m2dev/m2do/internal/model"
	"github.com/m2dev/m2do/internal/storage"
	"github.com/m2dev/m2do/internal/storage/memory"
)

func newTestStore(t *testing.T) *memory.Store {
	t.Helper()

	store, err := memory.NewStore(memory.StoreConfig{
		Now: func() time.Time { return time.Date(2024, 1, 20, 10, 30, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return store
}

func fields(subject string) storage.TaskFields {
	return storage.TaskFields{
		Date:    "2024-01-20",
		To:      "MNB",
		Subject: subject,
		Status:  model.StatusOpen,
	}
}

func TestStoreSubscribe(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	store := newTestStore(t)
	ctx := context.TODO()

	id, err := store.CreateTask(ctx, fields("First"))
	require.NoError(err)

	var snapshots [][]model.Task
	unsubscribe, err := store.Subscribe(ctx, func(tasks []model.Task) {
		snapshots = append(snapshots, tasks)
	}, nil)
	require.NoError(err)

	// The current snapshot is delivered on subscription, before any write.
	require.Len(snapshots, 1)
	require.Len(snapshots[0], 1)
	assert.Equal(id, snapshots[0][0].ID)
	assert.Equal("First", snapshots[0][0].Subject)

	_, err = store.CreateTask(ctx, fields("Second"))
	require.NoError(err)
	require.Len(snapshots, 2)
	assert.Len(snapshots[1], 2)

	unsubscribe()
	_, err = store.CreateTask(ctx, fields("Third"))
	require.NoError(err)
	assert.Len(snapshots, 2)

	// Releasing twice is harmless.
	unsubscribe()
}

func TestStoreSubscribeRequiresCallback(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Subscribe(context.TODO(), nil, nil)
	assert.ErrorIs(t, err, model.ErrNotValid)
}

func TestStoreCreateTask(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	store := newTestStore(t)
	ctx := context.TODO()

	var latest []model.Task
	_, err := store.Subscribe(ctx, func(tasks []model.Task) { latest = tasks }, nil)
	require.NoError(err)

	id, err := store.CreateTask(ctx, storage.TaskFields{
		Date:           "2024-01-20",
		To:             "MNB",
		Subject:        "Write the report",
		Details:        "With the Q4 numbers",
		Status:         model.StatusOpen,
		History:        []model.HistoryEntry{{Action: model.HistoryActionCreated}},
		CreatedByUID:   "u1",
		CreatedByEmail: "u1@example.org",
	})
	require.NoError(err)
	require.NotEmpty(id)

	require.Len(latest, 1)
	task := latest[0]
	assert.Equal(id, task.ID)
	assert.Equal("Write the report", task.Subject)
	assert.Equal("With the Q4 numbers", task.Details)
	assert.Equal("u1", task.CreatedByUID)
	assert.Equal("u1@example.org", task.CreatedByEmail)
	assert.Len(task.History, 1)
	assert.False(task.CreatedAt.IsZero())
	assert.Equal(task.CreatedAt, task.UpdatedAt)

	// Ids are unique per task.
	id2, err := store.CreateTask(ctx, fields("Another"))
	require.NoError(err)
	assert.NotEqual(id, id2)
}

func TestStoreUpdateTask(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	store := newTestStore(t)
	ctx := context.TODO()

	var latest []model.Task
	_, err := store.Subscribe(ctx, func(tasks []model.Task) { latest = tasks }, nil)
	require.NoError(err)

	id, err := store.CreateTask(ctx, fields("Write the report"))
	require.NoError(err)

	newSubject := "Rewrite the report"
	newStatus := model.StatusClosed
	err = store.UpdateTask(ctx, id, storage.TaskWrite{
		Subject: &newSubject,
		Status:  &newStatus,
		History: []model.HistoryEntry{{Action: model.HistoryActionUpdated}},
	})
	require.NoError(err)

	require.Len(latest, 1)
	task := latest[0]
	assert.Equal("Rewrite the report", task.Subject)
	assert.Equal(model.StatusClosed, task.Status)
	assert.Len(task.History, 1)

	// Fields not present in the write are untouched.
	assert.Equal("2024-01-20", task.Date)
	assert.Equal("MNB", task.To)

	err = store.UpdateTask(ctx, "missing", storage.TaskWrite{Subject: &newSubject})
	assert.ErrorIs(err, model.ErrNotFound)
}

func TestStoreDeleteTask(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	store := newTestStore(t)
	ctx := context.TODO()

	var latest []model.Task
	_, err := store.Subscribe(ctx, func(tasks []model.Task) { latest = tasks }, nil)
	require.NoError(err)

	id1, err := store.CreateTask(ctx, fields("First"))
	require.NoError(err)
	id2, err := store.CreateTask(ctx, fields("Second"))
	require.NoError(err)

	err = store.DeleteTask(ctx, id1)
	require.NoError(err)

	require.Len(latest, 1)
	assert.Equal(id2, latest[0].ID)

	err = store.DeleteTask(ctx, id1)
	assert.ErrorIs(err, model.ErrNotFound)
}

// Snapshots keep insertion order across updates, so repeated deliveries list
// the same tasks in the same positions.
func TestStoreSnapshotOrder(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	store := newTestStore(t)
	ctx := context.TODO()

	var latest []model.Task
	_, err := store.Subscribe(ctx, func(tasks []model.Task) { latest = tasks }, nil)
	require.NoError(err)

	id1, err := store.CreateTask(ctx, fields("First"))
	require.NoError(err)
	id2, err := store.CreateTask(ctx, fields("Second"))
	require.NoError(err)
	id3, err := store.CreateTask(ctx, fields("Third"))
	require.NoError(err)

	newStatus := model.StatusClosed
	require.NoError(store.UpdateTask(ctx, id1, storage.TaskWrite{Status: &newStatus}))

	ids := []string{}
	for _, task := range latest {
		ids = append(ids, task.ID)
	}
	assert.Equal([]string{id1, id2, id3}, ids)
}

func TestStoreSnapshotIsolation(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	store := newTestStore(t)
	ctx := context.TODO()

	id, err := store.CreateTask(ctx, storage.TaskFields{
		Date:    "2024-01-20",
		To:      "MNB",
		Subject: "Write the report",
		Status:  model.StatusOpen,
		History: []model.HistoryEntry{{Action: model.HistoryActionCreated}},
	})
	require.NoError(err)

	var first []model.Task
	_, err = store.Subscribe(ctx, func(tasks []model.Task) { first = tasks }, nil)
	require.NoError(err)
	require.Len(first, 1)

	// Mutating a delivered snapshot must not leak into later ones.
	first[0].Subject = "tampered"
	first[0].History[0].Action = "TAMPERED"

	var latest []model.Task
	_, err = store.Subscribe(ctx, func(tasks []model.Task) { latest = tasks }, nil)
	require.NoError(err)

	require.Len(latest, 1)
	assert.Equal(id, latest[0].ID)
	assert.Equal("Write the report", latest[0].Subject)
	assert.Equal(model.HistoryActionCreated, latest[0].History[0].Action)
}
