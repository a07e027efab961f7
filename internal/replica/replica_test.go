package replica_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m2dev/m2do/internal/model"
	"github.com/m2dev/m2do/internal/replica"
)

func TestReplicaApply(t *testing.T) {
	tests := map[string]struct {
		snapshots [][]model.Task
		expIDs    []string
	}{
		"An empty replica has no tasks": {
			snapshots: nil,
			expIDs:    []string{},
		},
		"A snapshot replaces the empty replica": {
			snapshots: [][]model.Task{
				{{ID: "t1"}, {ID: "t2"}},
			},
			expIDs: []string{"t1", "t2"},
		},
		"A later snapshot replaces the previous one wholesale, leftover ids are gone": {
			snapshots: [][]model.Task{
				{{ID: "t1"}, {ID: "t2"}, {ID: "t3"}},
				{{ID: "t2"}, {ID: "t4"}},
			},
			expIDs: []string{"t2", "t4"},
		},
		"An empty snapshot clears the replica": {
			snapshots: [][]model.Task{
				{{ID: "t1"}},
				{},
			},
			expIDs: []string{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := replica.New()
			for _, snapshot := range tt.snapshots {
				r.Apply(snapshot)
			}

			ids := []string{}
			for _, task := range r.Snapshot() {
				ids = append(ids, task.ID)
			}

			assert.Equal(t, tt.expIDs, ids)
			assert.Equal(t, len(tt.expIDs), r.Len())

			for _, id := range tt.expIDs {
				_, ok := r.Get(id)
				assert.True(t, ok)
			}
		})
	}
}

func TestReplicaGet(t *testing.T) {
	r := replica.New()
	r.Apply([]model.Task{
		{ID: "t1", Subject: "First", Status: model.StatusOpen},
		{ID: "t2", Subject: "Second", Status: model.StatusClosed},
	})

	task, ok := r.Get("t2")
	require.True(t, ok)
	assert.Equal(t, "Second", task.Subject)
	assert.Equal(t, model.StatusClosed, task.Status)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestReplicaGetReturnsCopies(t *testing.T) {
	from := "Open"
	r := replica.New()
	r.Apply([]model.Task{{
		ID: "t1",
		History: []model.HistoryEntry{
			{Action: model.HistoryActionUpdated, Changes: map[string]model.FieldChange{
				model.FieldStatus: {From: &from, To: "Closed"},
			}},
		},
	}})

	task, ok := r.Get("t1")
	require.True(t, ok)

	// Mutating the returned history must not leak into the replica.
	task.History[0] = model.HistoryEntry{Action: model.HistoryActionCreated}

	again, ok := r.Get("t1")
	require.True(t, ok)
	assert.Equal(t, model.HistoryActionUpdated, again.History[0].Action)
}

func TestReplicaSnapshotReturnsCopies(t *testing.T) {
	r := replica.New()
	r.Apply([]model.Task{{
		ID:      "t1",
		Subject: "First",
		History: []model.HistoryEntry{
			{Action: model.HistoryActionCreated},
		},
	}})

	snapshot := r.Snapshot()
	require.Len(t, snapshot, 1)

	// Mutating a snapshot task in place must not leak into the replica.
	snapshot[0].Subject = "tampered"
	snapshot[0].History[0].Action = "TAMPERED"

	task, ok := r.Get("t1")
	require.True(t, ok)
	assert.Equal(t, "First", task.Subject)
	assert.Equal(t, model.HistoryActionCreated, task.History[0].Action)

	again := r.Snapshot()
	require.Len(t, again, 1)
	assert.Equal(t, model.HistoryActionCreated, again[0].History[0].Action)
}

func TestReplicaClear(t *testing.T) {
	r := replica.New()
	r.Apply([]model.Task{{ID: "t1"}, {ID: "t2"}})
	require.Equal(t, 2, r.Len())

	r.Clear()

	assert.Equal(t, 0, r.Len())
	_, ok := r.Get("t1")
	assert.False(t, ok)
}
