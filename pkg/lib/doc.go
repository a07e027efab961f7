// Package lib provides a Go SDK for working with an m2do task board
// programmatically.
//
// This package allows applications to read, create and mutate board tasks
// without shelling out to the m2do CLI binary. Every mutation is recorded in
// the task's append-only history, and the client keeps a live local replica
// of the whole collection through the store's change feed.
//
// # Quick Start
//
// Create a client, add a task, read the board views:
//
//	client, err := lib.New(ctx, lib.Config{User: "MNB"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	id, err := client.CreateTask(ctx, lib.Draft{
//	    Date:    "2026-09-01",
//	    To:      "MNB",
//	    Subject: "Ship the release",
//	    Status:  lib.StatusOpen,
//	})
//
//	today := client.Today("MNB")
//	open := client.OpenCount("All")
//
// # Storage
//
// By default the client opens a SQLite database under ~/.m2do. Set
// [Config].Store to plug any other storage.Store implementation, e.g. the
// in-memory store for tests.
//
// # Consistency
//
// Reads come from the local replica, which converges with the store through
// full-collection snapshots delivered on every committed write. Concurrent
// writers resolve as whole-document last-writer-wins; edits to disjoint
// fields of the same task are not merged.
package lib
