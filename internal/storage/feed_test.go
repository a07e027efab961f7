package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m2dev/m2do/internal/model"
	"github.com/m2dev/m2do/internal/storage"
)

func TestFeedBroadcast(t *testing.T) {
	assert := assert.New(t)

	feed := storage.NewFeed()

	var got1, got2 [][]model.Task
	release1 := feed.Register(func(tasks []model.Task) { got1 = append(got1, tasks) }, nil)
	feed.Register(func(tasks []model.Task) { got2 = append(got2, tasks) }, nil)

	feed.Broadcast([]model.Task{{ID: "t1"}})
	assert.Len(got1, 1)
	assert.Len(got2, 1)

	release1()
	feed.Broadcast([]model.Task{{ID: "t1"}, {ID: "t2"}})
	assert.Len(got1, 1)
	assert.Len(got2, 2)

	// Releasing twice is harmless.
	release1()
	feed.Broadcast(nil)
	assert.Len(got1, 1)
	assert.Len(got2, 3)
}

// Subscribers are notified in registration order on every broadcast.
func TestFeedDeliveryOrder(t *testing.T) {
	feed := storage.NewFeed()

	order := []string{}
	feed.Register(func([]model.Task) { order = append(order, "first") }, nil)
	feed.Register(func([]model.Task) { order = append(order, "second") }, nil)
	feed.Register(func([]model.Task) { order = append(order, "third") }, nil)

	feed.Broadcast(nil)
	feed.Broadcast(nil)

	assert.Equal(t, []string{"first", "second", "third", "first", "second", "third"}, order)
}

func TestFeedBroadcastError(t *testing.T) {
	feed := storage.NewFeed()

	var errs []error
	feed.Register(func([]model.Task) {}, func(err error) { errs = append(errs, err) })

	// Subscribers without an error callback are skipped.
	feed.Register(func([]model.Task) {}, nil)

	feed.BroadcastError(assert.AnError)
	assert.Equal(t, []error{assert.AnError}, errs)
}
