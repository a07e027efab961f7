package create

import (
	"context"
	"fmt"
	"time"

	"github.com/m2dev/m2do/internal/history"
	"github.com/m2dev/m2do/internal/identity"
	"github.com/m2dev/m2do/internal/log"
	"github.com/m2dev/m2do/internal/model"
	"github.com/m2dev/m2do/internal/storage"
)

// ServiceConfig is the configuration for the create service.
type ServiceConfig struct {
	Store    storage.Store
	Identity identity.Provider
	Roster   []string
	Logger   log.Logger

	// Now is the clock used for history entry timestamps. Defaults to
	// time.Now.
	Now func() time.Time
}

func (c *ServiceConfig) defaults() error {
	if c.Store == nil {
		return fmt.Errorf("store is required")
	}
	if c.Identity == nil {
		return fmt.Errorf("identity provider is required")
	}
	if len(c.Roster) == 0 {
		c.Roster = model.DefaultAssignees
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Create"})

	if c.Now == nil {
		c.Now = time.Now
	}

	return nil
}

// Service handles task creation business logic.
type Service struct {
	store    storage.Store
	identity identity.Provider
	roster   []string
	now      func() time.Time
	logger   log.Logger
}

// NewService creates a new create service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		store:    cfg.Store,
		identity: cfg.Identity,
		roster:   cfg.Roster,
		now:      cfg.Now,
		logger:   cfg.Logger,
	}, nil
}

// Request is a task creation request.
type Request struct {
	Draft model.Draft
}

// Create creates a new task attributed to the signed-in user and returns its
// store-assigned ID. The task record carries a CREATED history entry seeding
// full provenance for all tracked fields.
func (s *Service) Create(ctx context.Context, req Request) (string, error) {
	user := s.identity.Current()
	if user == nil {
		return "", fmt.Errorf("creating tasks requires a signed-in user: %w", model.ErrUnauthenticated)
	}

	if err := req.Draft.Validate(s.roster); err != nil {
		return "", fmt.Errorf("invalid draft: %w", err)
	}

	entry := history.NewCreateEntry(s.now(), req.Draft)

	id, err := s.store.CreateTask(ctx, storage.TaskFields{
		Date:              req.Draft.Date,
		To:                req.Draft.To,
		Subject:           req.Draft.Subject,
		Details:           req.Draft.Details,
		Status:            req.Draft.Status,
		History:           []model.HistoryEntry{entry},
		CreatedByUID:      user.UID,
		CreatedByEmail:    user.Email,
		CreatedByAuthType: user.AuthType,
	})
	if err != nil {
		return "", fmt.Errorf("could not create task: %w", err)
	}

	s.logger.Infof("Created task: %s (%s)", req.Draft.Subject, id)

	return id, nil
}
