package create_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m2dev/m2do/internal/app/create"
	"github.com/m2dev/m2do/internal/identity/identitymock"
	"github.com/m2dev/m2do/internal/model"
	"github.com/m2dev/m2do/internal/storage"
	"github.com/m2dev/m2do/internal/storage/storagemock"
)

func TestServiceCreate(t *testing.T) {
	t0 := time.Date(2024, 1, 20, 10, 30, 0, 0, time.UTC)
	user := &model.User{UID: "u1", Email: "u1@example.org", AuthType: "local"}

	validDraft := model.Draft{
		Date:    "2024-01-20",
		To:      "MNB",
		Subject: "Write the report",
		Status:  model.StatusOpen,
	}

	tests := map[string]struct {
		req    create.Request
		mock   func(ms *storagemock.MockStore, mi *identitymock.MockProvider)
		expID  string
		expErr error
	}{
		"Creating a task without a signed-in user should fail before any write": {
			req: create.Request{Draft: validDraft},
			mock: func(ms *storagemock.MockStore, mi *identitymock.MockProvider) {
				mi.On("Current").Once().Return(nil)
			},
			expErr: model.ErrUnauthenticated,
		},

		"Creating a task with an invalid draft should fail before any write": {
			req: create.Request{Draft: model.Draft{
				Date:    "2024-01-20",
				To:      "nobody",
				Subject: "Write the report",
				Status:  model.StatusOpen,
			}},
			mock: func(ms *storagemock.MockStore, mi *identitymock.MockProvider) {
				mi.On("Current").Once().Return(user)
			},
			expErr: model.ErrNotValid,
		},

		"Creating a valid task should commit the fields, the creator and a CREATED history entry": {
			req: create.Request{Draft: validDraft},
			mock: func(ms *storagemock.MockStore, mi *identitymock.MockProvider) {
				mi.On("Current").Once().Return(user)

				expFields := storage.TaskFields{
					Date:    "2024-01-20",
					To:      "MNB",
					Subject: "Write the report",
					Status:  model.StatusOpen,
					History: []model.HistoryEntry{{
						Action:    model.HistoryActionCreated,
						Timestamp: t0,
						Changes: map[string]model.FieldChange{
							"date":    {To: "2024-01-20"},
							"to":      {To: "MNB"},
							"subject": {To: "Write the report"},
							"details": {To: ""},
							"status":  {To: "Open"},
						},
					}},
					CreatedByUID:      "u1",
					CreatedByEmail:    "u1@example.org",
					CreatedByAuthType: "local",
				}
				ms.On("CreateTask", mock.Anything, expFields).Once().Return("task1", nil)
			},
			expID: "task1",
		},

		"A store failure should be propagated": {
			req: create.Request{Draft: validDraft},
			mock: func(ms *storagemock.MockStore, mi *identitymock.MockProvider) {
				mi.On("Current").Once().Return(user)
				ms.On("CreateTask", mock.Anything, mock.Anything).Once().Return("", assert.AnError)
			},
			expErr: assert.AnError,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			ms := storagemock.NewMockStore(t)
			mi := identitymock.NewMockProvider(t)
			test.mock(ms, mi)

			svc, err := create.NewService(create.ServiceConfig{
				Store:    ms,
				Identity: mi,
				Now:      func() time.Time { return t0 },
			})
			require.NoError(err)

			id, err := svc.Create(context.TODO(), test.req)

			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
				return
			}
			assert.NoError(err)
			assert.Equal(test.expID, id)
		})
	}
}
