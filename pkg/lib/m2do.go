package lib

import (
	"context"
	"fmt"
	"os"

	"github.com/m2dev/m2do/internal/app/create"
	"github.com/m2dev/m2do/internal/app/remove"
	"github.com/m2dev/m2do/internal/app/toggle"
	"github.com/m2dev/m2do/internal/app/update"
	"github.com/m2dev/m2do/internal/board"
	"github.com/m2dev/m2do/internal/conventions"
	"github.com/m2dev/m2do/internal/identity"
	"github.com/m2dev/m2do/internal/log"
	"github.com/m2dev/m2do/internal/model"
	"github.com/m2dev/m2do/internal/storage"
	"github.com/m2dev/m2do/internal/storage/sqlite"
)

// Config configures the SDK client.
//
// Only User is required: an empty Config{} otherwise uses ~/.m2do/m2do.db
// for storage and the default board configuration.
type Config struct {
	// User is the user ID that mutations are attributed to. Required.
	User string

	// Email is the user email recorded on created tasks. Optional.
	Email string

	// DBPath is the SQLite database path.
	// Default: ~/.m2do/m2do.db. Ignored when Store is set.
	DBPath string

	// DataDir is the base directory for m2do data.
	// Default: ~/.m2do.
	DataDir string

	// Store overrides the task store. When set the client uses it directly
	// and DBPath is ignored. Set it to a memory store for testing without a
	// database file.
	Store storage.Store

	// Board is the board configuration (assignee roster, delete policy).
	// Default: the standard roster with the gated delete policy.
	Board model.BoardConfig

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.User == "" {
		return fmt.Errorf("user is required")
	}

	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not get user home dir: %w", err)
		}
		c.DataDir = conventions.DataDir(home)
	}

	if c.DBPath == "" {
		c.DBPath = conventions.DBPath(c.DataDir)
	}

	if len(c.Board.Assignees) == 0 && c.Board.DeletePolicy == "" {
		c.Board = model.DefaultBoardConfig()
	}
	if err := c.Board.Validate(); err != nil {
		return fmt.Errorf("invalid board configuration: %w", err)
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Client is the main SDK entry point for working with the task board
// programmatically.
//
// Create a Client with [New] and release its resources with [Client.Close].
// A Client is safe for concurrent use.
type Client struct {
	board     *board.Board
	identity  *identity.StaticProvider
	createSvc *create.Service
	updateSvc *update.Service
	toggleSvc *toggle.Service
	removeSvc *remove.Service
	cfg       model.BoardConfig
	logger    log.Logger
	closeFn   func() error
}

// New creates a new SDK client. Unless Config.Store is set it is backed by a
// SQLite database.
//
// The caller must call [Client.Close] when done. Typically used with defer:
//
//	client, err := lib.New(ctx, lib.Config{User: "MNB"})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	store := cfg.Store
	closeFn := func() error { return nil }
	if store == nil {
		sqliteStore, err := sqlite.NewStore(ctx, sqlite.StoreConfig{
			DBPath: cfg.DBPath,
			Logger: cfg.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create store: %w", err)
		}
		store = sqliteStore
		closeFn = sqliteStore.Close
	}

	provider := identity.NewStaticProvider(&model.User{
		UID:      cfg.User,
		Email:    cfg.Email,
		AuthType: "static",
	})

	b, err := board.New(ctx, board.Config{
		Store:    store,
		Identity: provider,
		Logger:   cfg.Logger,
	})
	if err != nil {
		closeFn()
		return nil, fmt.Errorf("could not create board: %w", err)
	}

	createSvc, err := create.NewService(create.ServiceConfig{
		Store:    store,
		Identity: provider,
		Roster:   cfg.Board.Assignees,
		Logger:   cfg.Logger,
	})
	if err != nil {
		b.Close()
		closeFn()
		return nil, fmt.Errorf("could not create create service: %w", err)
	}

	updateSvc, err := update.NewService(update.ServiceConfig{
		Store:   store,
		Replica: b.Replica(),
		Roster:  cfg.Board.Assignees,
		Logger:  cfg.Logger,
	})
	if err != nil {
		b.Close()
		closeFn()
		return nil, fmt.Errorf("could not create update service: %w", err)
	}

	toggleSvc, err := toggle.NewService(toggle.ServiceConfig{
		Store:   store,
		Replica: b.Replica(),
		Logger:  cfg.Logger,
	})
	if err != nil {
		b.Close()
		closeFn()
		return nil, fmt.Errorf("could not create toggle service: %w", err)
	}

	removeSvc, err := remove.NewService(remove.ServiceConfig{
		Store:   store,
		Replica: b.Replica(),
		Policy:  cfg.Board.DeletePolicy,
		Logger:  cfg.Logger,
	})
	if err != nil {
		b.Close()
		closeFn()
		return nil, fmt.Errorf("could not create remove service: %w", err)
	}

	return &Client{
		board:     b,
		identity:  provider,
		createSvc: createSvc,
		updateSvc: updateSvc,
		toggleSvc: toggleSvc,
		removeSvc: removeSvc,
		cfg:       cfg.Board,
		logger:    cfg.Logger,
		closeFn:   closeFn,
	}, nil
}

// Close releases the feed subscription and the underlying store.
func (c *Client) Close() error {
	c.board.Close()
	return c.closeFn()
}
