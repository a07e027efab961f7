package lib_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdklib "github.com/m2dev/m2do/pkg/lib"
	intlib "github.com/m2dev/m2do/test/integration/lib"
)

func TestSDKTaskLifecycle(t *testing.T) {
	intlib.SkipUnlessIntegration(t)

	assert := assert.New(t)
	require := require.New(t)

	client := intlib.NewTestClient(t, "MNB")
	ctx := context.Background()

	today := time.Now().Format(sdklib.DateLayout)
	subject := intlib.UniqueSubject("lifecycle")

	// Create.
	id, err := client.CreateTask(ctx, sdklib.Draft{
		Date:    today,
		To:      "MNB",
		Subject: subject,
		Status:  sdklib.StatusOpen,
	})
	require.NoError(err)
	require.NotEmpty(id)

	task, err := client.GetTask(id)
	require.NoError(err)
	assert.Equal(subject, task.Subject)
	assert.Equal("MNB", task.CreatedByUID)
	assert.Len(task.History, 1)

	// The new task shows up in today's view and the open count.
	todayTasks := client.Today("MNB")
	require.Len(todayTasks, 1)
	assert.Equal(id, todayTasks[0].ID)
	assert.Equal(1, client.OpenCount(sdklib.ScopeAll))

	// Edit.
	draft := sdklib.Draft{
		Date:    today,
		To:      "SHR",
		Subject: subject,
		Status:  sdklib.StatusOpen,
	}
	require.NoError(client.UpdateTask(ctx, id, draft))

	task, err = client.GetTask(id)
	require.NoError(err)
	assert.Equal("SHR", task.To)
	assert.Len(task.History, 2)
	assert.Empty(client.Today("MNB"))
	require.Len(client.Today("SHR"), 1)

	// A no-op edit records nothing.
	require.NoError(client.UpdateTask(ctx, id, draft))
	task, err = client.GetTask(id)
	require.NoError(err)
	assert.Len(task.History, 2)

	// Toggle closed.
	status, err := client.ToggleStatus(ctx, id)
	require.NoError(err)
	assert.Equal(sdklib.StatusClosed, status)
	assert.Equal(0, client.OpenCount(sdklib.ScopeAll))
	require.Len(client.Closed(sdklib.ScopeAll), 1)

	// The rendered history covers the whole lifecycle.
	rows, err := client.History(id)
	require.NoError(err)
	require.Len(rows, 3)
	assert.Equal("CREATED", rows[0].Action)
	assert.Equal("UPDATED", rows[1].Action)
	assert.Contains(rows[1].Changes, `to: "MNB" -> "SHR"`)
	assert.Contains(rows[2].Changes, `status: "Open" -> "Closed"`)

	// Delete (closed, no details: eligible under the default policy).
	require.NoError(client.DeleteTask(ctx, id))
	_, err = client.GetTask(id)
	assert.ErrorIs(err, sdklib.ErrNotFound)
	assert.Empty(client.Tasks())
}

func TestSDKDeletePolicy(t *testing.T) {
	intlib.SkipUnlessIntegration(t)

	assert := assert.New(t)
	require := require.New(t)

	client := intlib.NewTestClient(t, "MNB")
	ctx := context.Background()

	today := time.Now().Format(sdklib.DateLayout)

	id, err := client.CreateTask(ctx, sdklib.Draft{
		Date:    today,
		To:      "MNB",
		Subject: intlib.UniqueSubject("policy"),
		Details: "keep these notes",
		Status:  sdklib.StatusOpen,
	})
	require.NoError(err)

	// Open tasks are not deletable.
	assert.ErrorIs(client.DeleteTask(ctx, id), sdklib.ErrNotValid)

	// Closed but with details: still not deletable.
	_, err = client.ToggleStatus(ctx, id)
	require.NoError(err)
	assert.ErrorIs(client.DeleteTask(ctx, id), sdklib.ErrNotValid)

	// Clearing the details makes it eligible.
	task, err := client.GetTask(id)
	require.NoError(err)
	draft := sdklib.Draft{
		Date:    task.Date,
		To:      task.To,
		Subject: task.Subject,
		Details: "",
		Status:  task.Status,
	}
	require.NoError(client.UpdateTask(ctx, id, draft))
	require.NoError(client.DeleteTask(ctx, id))
}

// Two clients over the same database see each other's committed tasks when
// they (re)subscribe.
func TestSDKSharedBoard(t *testing.T) {
	intlib.SkipUnlessIntegration(t)

	assert := assert.New(t)
	require := require.New(t)

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "shared.db")

	writer := intlib.NewTestClientAt(t, "MNB", dbPath)

	today := time.Now().Format(sdklib.DateLayout)
	id, err := writer.CreateTask(ctx, sdklib.Draft{
		Date:    today,
		To:      "SHR",
		Subject: intlib.UniqueSubject("shared"),
		Status:  sdklib.StatusOpen,
	})
	require.NoError(err)

	reader := intlib.NewTestClientAt(t, "SHR", dbPath)

	task, err := reader.GetTask(id)
	require.NoError(err)
	assert.Equal("MNB", task.CreatedByUID)
	assert.Equal(1, reader.OpenCount("SHR"))
}
