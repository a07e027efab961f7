package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/m2dev/m2do/internal/log"
	"github.com/m2dev/m2do/internal/model"
	"github.com/m2dev/m2do/internal/storage"
	"github.com/m2dev/m2do/internal/storage/sqlite/migrations"
)

// StoreConfig is the configuration for the SQLite store.
type StoreConfig struct {
	DBPath string
	Logger log.Logger

	// Now is the clock used for server-assigned timestamps. Defaults to
	// time.Now.
	Now func() time.Time
}

func (c *StoreConfig) defaults() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SQLite"})

	if c.Now == nil {
		c.Now = time.Now
	}

	return nil
}

// Store is a SQLite implementation of storage.Store. Writes are serialized
// so feed subscribers observe snapshots in commit order.
type Store struct {
	db     *sql.DB
	feed   *storage.Feed
	mu     sync.Mutex
	now    func() time.Time
	logger log.Logger
}

var _ storage.Store = &Store{}

// NewStore creates a new SQLite store.
func NewStore(ctx context.Context, cfg StoreConfig) (*Store, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	migrator, err := migrations.NewMigrator(db, cfg.Logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	if err := migrator.Up(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not run migrations: %w", err)
	}

	cfg.Logger.Debugf("SQLite store initialized at %s", cfg.DBPath)

	return &Store{
		db:     db,
		feed:   storage.NewFeed(),
		now:    cfg.Now,
		logger: cfg.Logger,
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// DB returns the underlying database connection.
func (s *Store) DB() *sql.DB { return s.db }

// Subscribe registers a change-feed subscriber and delivers the current
// snapshot before returning.
func (s *Store) Subscribe(ctx context.Context, onSnapshot storage.SnapshotFunc, onError storage.ErrorFunc) (func(), error) {
	if onSnapshot == nil {
		return nil, fmt.Errorf("snapshot callback is required: %w", model.ErrNotValid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not load initial snapshot: %w", err)
	}

	unsubscribe := s.feed.Register(onSnapshot, onError)
	onSnapshot(snapshot)

	s.logger.Debugf("Subscribed to %s feed", model.Collection)
	return unsubscribe, nil
}

// CreateTask creates a new task with a store-assigned ULID and timestamps.
func (s *Store) CreateTask(ctx context.Context, fields storage.TaskFields) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := ulid.MustNew(ulid.Timestamp(s.now()), rand.Reader).String()
	now := s.now().UTC()

	history, err := json.Marshal(fields.History)
	if err != nil {
		return "", fmt.Errorf("could not serialize history: %w", err)
	}

	query := `
		INSERT INTO tasks (
			id, date, assignee, subject, details, status, history,
			created_by_uid, created_by_email, created_by_auth_type,
			created_at, updated_at, seq
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(seq), 0) + 1 FROM tasks))
	`

	_, err = s.db.ExecContext(
		ctx,
		query,
		id,
		fields.Date,
		fields.To,
		fields.Subject,
		fields.Details,
		string(fields.Status),
		string(history),
		fields.CreatedByUID,
		fields.CreatedByEmail,
		fields.CreatedByAuthType,
		now.Unix(),
		now.Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("could not insert task: %w", err)
	}

	if err := s.broadcast(ctx); err != nil {
		return "", err
	}

	s.logger.Debugf("Created task in store: %s", id)
	return id, nil
}

// UpdateTask applies a partial update atomically.
func (s *Store) UpdateTask(ctx context.Context, id string, write storage.TaskWrite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.getTask(ctx, id)
	if err != nil {
		return err
	}

	if write.Date != nil {
		task.Date = *write.Date
	}
	if write.To != nil {
		task.To = *write.To
	}
	if write.Subject != nil {
		task.Subject = *write.Subject
	}
	if write.Details != nil {
		task.Details = *write.Details
	}
	if write.Status != nil {
		task.Status = *write.Status
	}
	if write.History != nil {
		task.History = write.History
	}

	history, err := json.Marshal(task.History)
	if err != nil {
		return fmt.Errorf("could not serialize history: %w", err)
	}

	query := `
		UPDATE tasks
		SET date = ?, assignee = ?, subject = ?, details = ?, status = ?, history = ?, updated_at = ?
		WHERE id = ?
	`

	_, err = s.db.ExecContext(
		ctx,
		query,
		task.Date,
		task.To,
		task.Subject,
		task.Details,
		string(task.Status),
		string(history),
		s.now().UTC().Unix(),
		id,
	)
	if err != nil {
		return fmt.Errorf("could not update task: %w", err)
	}

	if err := s.broadcast(ctx); err != nil {
		return err
	}

	s.logger.Debugf("Updated task in store: %s", id)
	return nil
}

// DeleteTask deletes a task.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("could not delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	if err := s.broadcast(ctx); err != nil {
		return err
	}

	s.logger.Debugf("Deleted task in store: %s", id)
	return nil
}

func (s *Store) getTask(ctx context.Context, id string) (*model.Task, error) {
	row := s.db.QueryRowContext(ctx, taskSelect+` WHERE id = ?`, id)

	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query task: %w", err)
	}

	return task, nil
}

// broadcast reads the full collection and fans it out to subscribers. A read
// failure after a committed write is delivered as a feed error: the write
// stands, subscribers converge on the next successful snapshot.
func (s *Store) broadcast(ctx context.Context) error {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		s.feed.BroadcastError(fmt.Errorf("could not load snapshot: %w", err))
		return nil
	}

	s.feed.Broadcast(snapshot)
	return nil
}

// snapshot lists the whole collection in insertion order.
func (s *Store) snapshot(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx, taskSelect+` ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("could not query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not iterate tasks: %w", err)
	}

	return tasks, nil
}

const taskSelect = `
	SELECT id, date, assignee, subject, details, status, history,
		created_by_uid, created_by_email, created_by_auth_type,
		created_at, updated_at
	FROM tasks
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*model.Task, error) {
	var (
		task                 model.Task
		status, history      string
		createdAt, updatedAt int64
	)

	err := row.Scan(
		&task.ID,
		&task.Date,
		&task.To,
		&task.Subject,
		&task.Details,
		&status,
		&history,
		&task.CreatedByUID,
		&task.CreatedByEmail,
		&task.CreatedByAuthType,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Status = model.Status(status)
	task.CreatedAt = time.Unix(createdAt, 0).UTC()
	task.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	if err := json.Unmarshal([]byte(history), &task.History); err != nil {
		return nil, fmt.Errorf("could not deserialize history: %w", err)
	}

	return &task, nil
}
