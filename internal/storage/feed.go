package storage

import (
	"sync"

	"github.com/m2dev/m2do/internal/model"
)

// Feed fans full-collection snapshots out to change-feed subscribers in
// commit order. Store implementations embed it and call Broadcast after
// every committed mutation while holding their write serialization, so each
// subscriber observes snapshots exactly once per commit and in order.
//
// Callbacks run synchronously on the broadcasting goroutine and must not
// call back into the store.
type Feed struct {
	mu     sync.Mutex
	subs   map[int]feedSubscriber
	nextID int
}

type feedSubscriber struct {
	onSnapshot SnapshotFunc
	onError    ErrorFunc
}

// NewFeed returns an empty feed.
func NewFeed() *Feed {
	return &Feed{subs: map[int]feedSubscriber{}}
}

// Register adds a subscriber and returns its release function. Releasing is
// idempotent.
func (f *Feed) Register(onSnapshot SnapshotFunc, onError ErrorFunc) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.subs[id] = feedSubscriber{onSnapshot: onSnapshot, onError: onError}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.subs, id)
		})
	}
}

// Broadcast delivers a snapshot to every registered subscriber.
func (f *Feed) Broadcast(snapshot []model.Task) {
	for _, sub := range f.snapshotSubs() {
		sub.onSnapshot(snapshot)
	}
}

// BroadcastError delivers a feed error to every registered subscriber.
func (f *Feed) BroadcastError(err error) {
	for _, sub := range f.snapshotSubs() {
		if sub.onError != nil {
			sub.onError(err)
		}
	}
}

func (f *Feed) snapshotSubs() []feedSubscriber {
	f.mu.Lock()
	defer f.mu.Unlock()

	subs := make([]feedSubscriber, 0, len(f.subs))
	for id := 0; id < f.nextID; id++ {
		if sub, ok := f.subs[id]; ok {
			subs = append(subs, sub)
		}
	}
	return subs
}
