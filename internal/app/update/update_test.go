package update_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m2dev/m2do/internal/app/update"
	"github.com/m2dev/m2do/internal/model"
	"github.com/m2dev/m2do/internal/replica"
	"github.com/m2dev/m2do/internal/storage"
	"github.com/m2dev/m2do/internal/storage/storagemock"
)

func TestServiceUpdate(t *testing.T) {
	t0 := time.Date(2024, 1, 20, 10, 30, 0, 0, time.UTC)

	original := model.Task{
		ID:      "task1",
		Date:    "2024-01-20",
		To:      "MNB",
		Subject: "Write the report",
		Status:  model.StatusOpen,
	}

	strPtr := func(s string) *string { return &s }
	statusPtr := func(s model.Status) *model.Status { return &s }

	tests := map[string]struct {
		tasks  []model.Task
		req    update.Request
		mock   func(ms *storagemock.MockStore)
		expErr error
	}{
		"Updating a task missing from the replica should fail with not found": {
			tasks:  nil,
			req:    update.Request{TaskID: "task1", Draft: model.DraftOf(original)},
			mock:   func(ms *storagemock.MockStore) {},
			expErr: model.ErrNotFound,
		},

		"Updating with an invalid draft should fail before any write": {
			tasks: []model.Task{original},
			req: update.Request{TaskID: "task1", Draft: model.Draft{
				Date:    "2024-01-20",
				To:      "nobody",
				Subject: "Write the report",
				Status:  model.StatusOpen,
			}},
			mock:   func(ms *storagemock.MockStore) {},
			expErr: model.ErrNotValid,
		},

		"Updating with an unchanged draft should not hit the store at all": {
			tasks: []model.Task{original},
			req:   update.Request{TaskID: "task1", Draft: model.DraftOf(original)},
			mock:  func(ms *storagemock.MockStore) {},
		},

		"Updating a single field should write only that field plus the history": {
			tasks: []model.Task{original},
			req: update.Request{TaskID: "task1", Draft: model.Draft{
				Date:    "2024-01-20",
				To:      "MNB",
				Subject: "Rewrite the report",
				Status:  model.StatusOpen,
			}},
			mock: func(ms *storagemock.MockStore) {
				expWrite := storage.TaskWrite{
					Subject: strPtr("Rewrite the report"),
					History: []model.HistoryEntry{{
						Action:    model.HistoryActionUpdated,
						Timestamp: t0,
						Changes: map[string]model.FieldChange{
							"subject": {From: strPtr("Write the report"), To: "Rewrite the report"},
						},
					}},
				}
				ms.On("UpdateTask", mock.Anything, "task1", expWrite).Once().Return(nil)
			},
		},

		"Updating several fields should write all of them": {
			tasks: []model.Task{original},
			req: update.Request{TaskID: "task1", Draft: model.Draft{
				Date:    "2024-02-01",
				To:      "SHR",
				Subject: "Write the report",
				Status:  model.StatusClosed,
			}},
			mock: func(ms *storagemock.MockStore) {
				expWrite := storage.TaskWrite{
					Date:   strPtr("2024-02-01"),
					To:     strPtr("SHR"),
					Status: statusPtr(model.StatusClosed),
					History: []model.HistoryEntry{{
						Action:    model.HistoryActionUpdated,
						Timestamp: t0,
						Changes: map[string]model.FieldChange{
							"date":   {From: strPtr("2024-01-20"), To: "2024-02-01"},
							"to":     {From: strPtr("MNB"), To: "SHR"},
							"status": {From: strPtr("Open"), To: "Closed"},
						},
					}},
				}
				ms.On("UpdateTask", mock.Anything, "task1", expWrite).Once().Return(nil)
			},
		},

		"A store failure should be propagated": {
			tasks: []model.Task{original},
			req: update.Request{TaskID: "task1", Draft: model.Draft{
				Date:    "2024-01-20",
				To:      "MNB",
				Subject: "Rewrite the report",
				Status:  model.StatusOpen,
			}},
			mock: func(ms *storagemock.MockStore) {
				ms.On("UpdateTask", mock.Anything, "task1", mock.Anything).Once().Return(assert.AnError)
			},
			expErr: assert.AnError,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			ms := storagemock.NewMockStore(t)
			test.mock(ms)

			rep := replica.New()
			rep.Apply(test.tasks)

			svc, err := update.NewService(update.ServiceConfig{
				Store:   ms,
				Replica: rep,
				Now:     func() time.Time { return t0 },
			})
			require.NoError(err)

			err = svc.Update(context.TODO(), test.req)

			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
				return
			}
			assert.NoError(err)
		})
	}
}
