package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docchat-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// DBFileName is the database file name inside the data directory.
const DBFileName = "docchat.db"

// busyTimeout is how long a connection waits for another process's lock.
const busyTimeout = 5 * time.Second

// Store owns the SQLite database shared by every docchat process.
type Store struct {
	db      *sql.DB
	dataDir string
}

// DefaultDataDir returns ~/.docchat/data.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".docchat", "data"), nil
}

// NewStore opens dataDir/docchat.db, creating the directory and applying
// pending migrations. If dataDir is empty, DefaultDataDir is used.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return nil, err
		}
		dataDir = dir
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_txlock=immediate",
		filepath.Join(dataDir, DBFileName), busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dataDir: dataDir}
	if err := s.migrate(context.Background(), migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return filepath.Join(s.dataDir, DBFileName)
}

// DataDir returns the directory holding the database and its WAL files.
func (s *Store) DataDir() string {
	return s.dataDir
}

// LocalStorage returns a LocalStorage backed by the kv table.
func (s *Store) LocalStorage() driven.LocalStorage {
	return &localStorage{store: s}
}

// migration is one numbered .up.sql file.
type migration struct {
	version int
	name    string
}

// pendingMigrations lists the .up.sql files in fsys newer than current,
// oldest first. Files without a numeric prefix are ignored.
func pendingMigrations(fsys fs.FS, current int) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	var pending []migration
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		prefix, _, ok := strings.Cut(name, "_")
		if !ok {
			continue
		}
		version, err := strconv.Atoi(prefix)
		if err != nil || version <= current {
			continue
		}
		pending = append(pending, migration{version: version, name: name})
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].version < pending[j].version })
	return pending, nil
}

// migrate applies each pending migration in its own transaction and
// records its version. Immediate transactions make a second process wait
// instead of applying the same migration twice.
func (s *Store) migrate(ctx context.Context, fsys fs.FS) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	pending, err := pendingMigrations(fsys, current)
	if err != nil {
		return err
	}
	for _, m := range pending {
		if err := s.apply(ctx, fsys, m); err != nil {
			return err
		}
		logger.Debug("sqlite: applied migration %s", m.name)
	}
	return nil
}

func (s *Store) apply(ctx context.Context, fsys fs.FS, m migration) error {
	content, err := fs.ReadFile(fsys, m.name)
	if err != nil {
		return fmt.Errorf("reading migration %s: %w", m.name, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting migration %s: %w", m.name, err)
	}
	defer func() { _ = tx.Rollback() }()

	// Another process may have applied it while this one waited for the lock.
	var applied int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE version = ?", m.version).Scan(&applied); err != nil {
		return fmt.Errorf("checking migration %s: %w", m.name, err)
	}
	if applied > 0 {
		return nil
	}

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("executing migration %s: %w", m.name, err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
		return fmt.Errorf("recording migration %s: %w", m.name, err)
	}
	return tx.Commit()
}
