package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default m2do data directory name (relative to home).
	DefaultDataDir = ".m2do"

	// DBFile is the filename of the SQLite database inside the data directory.
	DBFile = "m2do.db"
	// BoardConfigFile is the filename of the board configuration inside the
	// data directory.
	BoardConfigFile = "board.yaml"
)

// DataDir returns the m2do data directory under the given home directory.
func DataDir(home string) string {
	return filepath.Join(home, DefaultDataDir)
}

// DBPath returns the SQLite database path inside a data directory.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, DBFile)
}

// BoardConfigPath returns the board configuration path inside a data
// directory.
func BoardConfigPath(dataDir string) string {
	return filepath.Join(dataDir, BoardConfigFile)
}
