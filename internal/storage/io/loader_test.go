package io_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m2dev/m2do/internal/model"
	storageio "github.com/m2dev/m2do/internal/storage/io"
)

func TestBoardConfigYAMLRepositoryGetConfig(t *testing.T) {
	tests := map[string]struct {
		config string
		expCfg model.BoardConfig
		expErr bool
	}{
		"A full configuration should load as declared": {
			config: `
assignees:
  - ANA
  - BOB
delete_policy: confirm-only
`,
			expCfg: model.BoardConfig{
				Assignees:    []string{"ANA", "BOB"},
				DeletePolicy: model.DeletePolicyConfirmOnly,
			},
		},

		"Missing fields should fall back to the defaults": {
			config: `{}`,
			expCfg: model.BoardConfig{
				Assignees:    model.DefaultAssignees,
				DeletePolicy: model.DeletePolicyGated,
			},
		},

		"Assignees alone should keep the default delete policy": {
			config: `
assignees: ["ANA"]
`,
			expCfg: model.BoardConfig{
				Assignees:    []string{"ANA"},
				DeletePolicy: model.DeletePolicyGated,
			},
		},

		"Invalid YAML should fail": {
			config: `assignees: [`,
			expErr: true,
		},

		"An empty assignee code should fail": {
			config: `
assignees: ["ANA", ""]
`,
			expErr: true,
		},

		"A duplicated assignee code should fail": {
			config: `
assignees: ["ANA", "ANA"]
`,
			expErr: true,
		},

		"The reserved scope should not be usable as an assignee": {
			config: `
assignees: ["All"]
`,
			expErr: true,
		},

		"An unknown delete policy should fail": {
			config: `
delete_policy: yolo
`,
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			fs := fstest.MapFS{
				"board.yaml": &fstest.MapFile{Data: []byte(test.config)},
			}
			repo := storageio.NewBoardConfigYAMLRepository(fs)

			cfg, err := repo.GetConfig(context.TODO(), "board.yaml")

			if test.expErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(test.expCfg, cfg)
		})
	}
}

func TestBoardConfigYAMLRepositoryMissingFile(t *testing.T) {
	repo := storageio.NewBoardConfigYAMLRepository(fstest.MapFS{})

	_, err := repo.GetConfig(context.TODO(), "missing.yaml")
	require.Error(t, err)
}
