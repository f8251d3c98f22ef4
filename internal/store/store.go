package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	DriverMattn   = "sqlite3"
	DriverModernc = "sqlite"
)

// Store is the SQLite data access layer for the catalog's five partitions.
// It owns every persisted byte; repositories built on it hold no state.
type Store struct {
	db     *sql.DB
	driver string

	mu       sync.Mutex
	migrated bool
}

// Option configures a Store.
type Option func(*storeConfig)

type storeConfig struct {
	driver string
}

// WithDriver selects the database/sql driver: DriverMattn (default, cgo) or
// DriverModernc (pure Go).
func WithDriver(name string) Option {
	return func(c *storeConfig) {
		if name != "" {
			c.driver = name
		}
	}
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
// The schema is not created until Migrate or the first Open.
func NewStore(dbPath string, opts ...Option) (*Store, error) {
	cfg := storeConfig{driver: DriverMattn}
	for _, opt := range opts {
		opt(&cfg)
	}

	var dsn string
	switch cfg.driver {
	case DriverMattn:
		dsn = dbPath + "?_journal_mode=WAL&_busy_timeout=30000&_txlock=immediate"
	case DriverModernc:
		dsn = dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(30000)&_txlock=immediate"
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", ErrStoreOpen, cfg.driver)
	}

	db, err := sql.Open(cfg.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", ErrStoreOpen, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %v", ErrStoreOpen, err)
	}
	return &Store{db: db, driver: cfg.driver}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Driver returns the database/sql driver name in use.
func (s *Store) Driver() string {
	return s.driver
}

// Open returns a ready connection, creating the schema on first use.
// The caller must Close the returned connection.
func (s *Store) Open(ctx context.Context) (*sql.Conn, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: acquire connection: %v", ErrStoreOpen, err)
	}
	return conn, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.migrated {
		return nil
	}
	if err := s.migrate(ctx); err != nil {
		return err
	}
	s.migrated = true
	return nil
}

// Migrate brings the schema up to SchemaVersion. Idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.migrate(ctx); err != nil {
		return err
	}
	s.migrated = true
	return nil
}

// Version returns the schema version recorded in the database file.
func (s *Store) Version(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("%w: read schema version: %v", ErrStoreOpen, err)
	}
	return v, nil
}

func (s *Store) migrate(ctx context.Context) error {
	current, err := s.Version(ctx)
	if err != nil {
		return err
	}
	if current >= SchemaVersion {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: migrate: begin: %v", ErrStoreOpen, err)
	}
	defer tx.Rollback()

	for v := current; v < SchemaVersion; v++ {
		if _, err := tx.ExecContext(ctx, migrations[v]); err != nil {
			return fmt.Errorf("%w: migrate to v%d: %v", ErrStoreOpen, v+1, err)
		}
	}
	// PRAGMA does not take bind parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
		return fmt.Errorf("%w: set schema version: %v", ErrStoreOpen, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: migrate: commit: %v", ErrStoreOpen, err)
	}
	return nil
}

// querier is the subset of *sql.Tx used by repositories.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn inside a read-write transaction on a scoped connection.
// The connection is released on every exit path.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	conn, err := s.Open(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// InTx runs fn with repositories bound to a single transaction. Either every
// write made through repos commits or none does.
func (s *Store) InTx(ctx context.Context, fn func(repos *Repositories) error) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return fn(newRepositories(s, tx))
	})
}

// Clear deletes every record from every partition in one transaction.
// AUTOINCREMENT counters survive, so cleared ids are never handed out again.
func (s *Store) Clear(ctx context.Context) error {
	return s.InTx(ctx, func(repos *Repositories) error {
		return repos.Clear(ctx)
	})
}

// Repositories returns repositories that each run in their own transaction.
func (s *Store) Repositories() *Repositories {
	return newRepositories(s, nil)
}
