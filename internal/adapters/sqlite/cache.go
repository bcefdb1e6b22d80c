package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"pmboard/internal/domain"
	"pmboard/internal/ports"
)

const schemaVersion = "1"

// Cache implements ports.SnapshotCache using SQLite. It keeps exactly one
// snapshot: the last successful fetch.
type Cache struct {
	db     *sql.DB
	dbPath string
}

// Ensure Cache implements SnapshotCache
var _ ports.SnapshotCache = (*Cache)(nil)

// NewCache creates a new SQLite cache
func NewCache() *Cache {
	return &Cache{}
}

// recordColumns are the record table columns after seq and row_key, in
// domain.Fields order
var recordColumns = func() []string {
	fields := domain.Fields()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = strings.ReplaceAll(f.String(), "-", "_")
	}
	return cols
}()

// Open initializes the cache database at path. An empty path uses
// DefaultPath.
func (c *Cache) Open(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	// Expand ~ in path
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	c.dbPath = path

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	c.db = db

	// Pragmas + schema in single batch
	_, err = db.Exec(fmt.Sprintf(`
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS records (
			seq INTEGER PRIMARY KEY,
			row_key TEXT NOT NULL,
			%s
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_records_project ON records(project_name);
		CREATE INDEX IF NOT EXISTS idx_records_member ON records(member);
	`, columnDefs()))
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if err := c.checkSchema(); err != nil {
		db.Close()
		return err
	}
	return nil
}

func columnDefs() string {
	defs := make([]string, len(recordColumns))
	for i, col := range recordColumns {
		defs[i] = col + " TEXT NOT NULL DEFAULT ''"
	}
	return strings.Join(defs, ",\n\t\t\t")
}

// checkSchema drops a cache written by an incompatible version
func (c *Cache) checkSchema() error {
	var version string
	err := c.db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version == schemaVersion {
		return nil
	}
	if version != "" {
		if _, err := c.db.Exec(`DELETE FROM records; DELETE FROM meta;`); err != nil {
			return fmt.Errorf("failed to reset cache: %w", err)
		}
	}
	_, err = c.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion)
	if err != nil {
		return fmt.Errorf("failed to update metadata: %w", err)
	}
	return nil
}

// Path returns the database file location
func (c *Cache) Path() string {
	return c.dbPath
}

// Close closes the database connection
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// DefaultPath returns the cache location under the XDG data directory
func DefaultPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "pmboard", "snapshot.db")
}
