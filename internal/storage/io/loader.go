package io

import (
	"context"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/m2dev/m2do/internal/model"
)

// BoardConfigYAMLRepository loads board configuration from YAML files.
type BoardConfigYAMLRepository struct {
	fs fs.FS
}

// NewBoardConfigYAMLRepository creates a new YAML board config repository.
func NewBoardConfigYAMLRepository(filesystem fs.FS) *BoardConfigYAMLRepository {
	return &BoardConfigYAMLRepository{fs: filesystem}
}

// GetConfig loads a board configuration from a YAML file and returns a
// validated domain model. Missing fields fall back to the defaults.
func (r *BoardConfigYAMLRepository) GetConfig(ctx context.Context, path string) (model.BoardConfig, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return model.BoardConfig{}, fmt.Errorf("reading config file: %w", err)
	}

	if ctx.Err() != nil {
		return model.BoardConfig{}, ctx.Err()
	}

	var cfg BoardConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return model.BoardConfig{}, fmt.Errorf("parsing YAML: %w", err)
	}

	mCfg := cfg.toModel()
	if err := mCfg.Validate(); err != nil {
		return model.BoardConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return mCfg, nil
}

// BoardConfig represents the YAML structure for board configuration.
type BoardConfig struct {
	Assignees    []string `yaml:"assignees"`
	DeletePolicy string   `yaml:"delete_policy"`
}

func (c BoardConfig) toModel() model.BoardConfig {
	cfg := model.DefaultBoardConfig()

	if len(c.Assignees) > 0 {
		cfg.Assignees = c.Assignees
	}
	if c.DeletePolicy != "" {
		cfg.DeletePolicy = model.DeletePolicy(c.DeletePolicy)
	}

	return cfg
}
