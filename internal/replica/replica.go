// Package replica holds the local in-memory mirror of the remote task
// collection.
package replica

import (
	"sync"

	"github.com/m2dev/m2do/internal/model"
)

// Replica is the single-writer cell mirroring the shared task collection.
// Only the change-feed callback writes it, by swapping the whole state on
// every snapshot; readers always get value copies of a complete
// point-in-time view, never a partially merged one.
type Replica struct {
	mu    sync.RWMutex
	tasks []model.Task
	byID  map[string]int
}

// New returns an empty replica.
func New() *Replica {
	return &Replica{byID: map[string]int{}}
}

// Apply replaces the entire replica with the snapshot contents. The previous
// state is discarded wholesale; ids absent from the snapshot are gone.
func (r *Replica) Apply(snapshot []model.Task) {
	tasks := make([]model.Task, len(snapshot))
	copy(tasks, snapshot)

	byID := make(map[string]int, len(tasks))
	for i, t := range tasks {
		byID[t.ID] = i
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = tasks
	r.byID = byID
}

// Clear empties the replica.
func (r *Replica) Clear() {
	r.Apply(nil)
}

// Get returns a copy of the task with the given id.
func (r *Replica) Get(id string) (model.Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byID[id]
	if !ok {
		return model.Task{}, false
	}

	task := r.tasks[i]
	task.History = append([]model.HistoryEntry{}, task.History...)
	return task, true
}

// Snapshot returns a copy of all tasks in delivery order.
func (r *Replica) Snapshot() []model.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]model.Task, len(r.tasks))
	copy(tasks, r.tasks)
	for i := range tasks {
		tasks[i].History = append([]model.HistoryEntry{}, tasks[i].History...)
	}
	return tasks
}

// Len returns the number of tasks in the replica.
func (r *Replica) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}
