package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"k8s.io/client-go/util/homedir"

	"github.com/m2dev/m2do/internal/board"
	"github.com/m2dev/m2do/internal/conventions"
	"github.com/m2dev/m2do/internal/identity"
	"github.com/m2dev/m2do/internal/log"
	"github.com/m2dev/m2do/internal/model"
	storageio "github.com/m2dev/m2do/internal/storage/io"
	"github.com/m2dev/m2do/internal/storage/sqlite"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug      bool
	NoLog      bool
	NoColor    bool
	LoggerType string
	DBPath     string
	ConfigPath string
	UserID     string
	UserEmail  string

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)

	defaultDBPath := conventions.DBPath(conventions.DataDir(homedir.HomeDir()))
	app.Flag("db-path", "Path to the SQLite database file.").Envar("M2DO_DB_PATH").Default(defaultDBPath).StringVar(&c.DBPath)
	app.Flag("board-config", "Path to a YAML board configuration file.").Envar("M2DO_BOARD_CONFIG").StringVar(&c.ConfigPath)
	app.Flag("user", "User ID that mutations are attributed to.").Envar("M2DO_USER").Default("local").StringVar(&c.UserID)
	app.Flag("email", "User email recorded on created tasks.").Envar("M2DO_EMAIL").StringVar(&c.UserEmail)

	return c
}

// session bundles everything a command needs to act on the board: the store,
// the live board replica and the board configuration.
type session struct {
	store    *sqlite.Store
	identity *identity.StaticProvider
	board    *board.Board
	cfg      model.BoardConfig
}

// newSession opens the SQLite store, signs in the static identity and starts
// the board. The initial snapshot is applied before it returns, so the
// replica is ready to read. onSnapshot is optional.
func newSession(ctx context.Context, rootCmd *RootCommand, onSnapshot func([]model.Task)) (*session, error) {
	logger := rootCmd.Logger

	cfg, err := boardConfig(ctx, rootCmd)
	if err != nil {
		return nil, err
	}

	store, err := sqlite.NewStore(ctx, sqlite.StoreConfig{
		DBPath: rootCmd.DBPath,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create store: %w", err)
	}

	provider := identity.NewStaticProvider(&model.User{
		UID:      rootCmd.UserID,
		Email:    rootCmd.UserEmail,
		AuthType: "static",
	})

	b, err := board.New(ctx, board.Config{
		Store:      store,
		Identity:   provider,
		Logger:     logger,
		OnSnapshot: onSnapshot,
		OnError: func(err error) {
			logger.Errorf("Task feed error: %s", err)
		},
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("could not create board: %w", err)
	}

	return &session{
		store:    store,
		identity: provider,
		board:    b,
		cfg:      cfg,
	}, nil
}

func (s *session) close() {
	s.board.Close()
	s.store.Close()
}

// boardConfig loads the YAML board configuration when one is set, the
// defaults otherwise.
func boardConfig(ctx context.Context, rootCmd *RootCommand) (model.BoardConfig, error) {
	if rootCmd.ConfigPath == "" {
		return model.DefaultBoardConfig(), nil
	}

	repo := storageio.NewBoardConfigYAMLRepository(os.DirFS(filepath.Dir(rootCmd.ConfigPath)))
	cfg, err := repo.GetConfig(ctx, filepath.Base(rootCmd.ConfigPath))
	if err != nil {
		return model.BoardConfig{}, fmt.Errorf("could not load board config: %w", err)
	}

	return cfg, nil
}
