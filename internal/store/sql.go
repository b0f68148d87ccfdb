package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/taskdesk/internal/model"
)

// Supported values for the database driver setting.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SQLStore implements Store on top of sqlx. Queries are written with '?'
// placeholders and rebound for the active driver.
type SQLStore struct {
	db      *sqlx.DB
	dialect string
	log     *slog.Logger
	now     func() time.Time
}

var _ Store = (*SQLStore)(nil)

// Open connects to the configured backend and runs pending migrations.
// driver is DriverSQLite or DriverPostgres.
func Open(driver, dsn string, log *slog.Logger) (*SQLStore, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	switch driver {
	case DriverSQLite, "":
		return openSQLite(dsn, log)
	case DriverPostgres:
		return openPostgres(dsn, log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLStore, error) {
	return Open(DriverSQLite, dbPath, nil)
}

func openSQLite(dbPath string, log *slog.Logger) (*SQLStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// An in-memory database lives per connection, so keep exactly one.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	s := &SQLStore{db: db, dialect: DriverSQLite, log: log, now: time.Now}
	if err := s.runMigrations(sqliteMigrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

func openPostgres(dsn string, log *slog.Logger) (*SQLStore, error) {
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Error("connection problem", "driver", DriverPostgres, "error", err)
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	s := &SQLStore{db: db, dialect: DriverPostgres, log: log, now: time.Now}
	if err := s.runMigrations(postgresMigrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// SetClock replaces the clock used for created/updated/pinned timestamps.
func (s *SQLStore) SetClock(now func() time.Time) {
	s.now = now
}

// Dialect reports the active backend.
func (s *SQLStore) Dialect() string { return s.dialect }

// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLStore) runMigrations(migrations []migration) error {
	if _, err := s.db.Exec(
		"CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)",
	); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	currentVersion := 0
	err := s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
		if _, err := s.db.Exec(
			s.db.Rebind("INSERT INTO schema_version (version) VALUES (?)"), m.version,
		); err != nil {
			return fmt.Errorf("recording migration v%d: %w", m.version, err)
		}
		s.log.Debug("applied migration", "dialect", s.dialect, "version", m.version)
	}

	return nil
}

// q rebinds a '?' query for the active driver.
func (s *SQLStore) q(query string) string {
	return s.db.Rebind(query)
}

// timestamp returns the store clock in UTC.
func (s *SQLStore) timestamp() time.Time {
	return s.now().UTC()
}

// requireOwner guards every owner-scoped operation.
func requireOwner(ownerID string) error {
	if ownerID == "" {
		return model.ErrNoOwner
	}
	return nil
}

// checkAffected turns a zero-row update or delete into ErrNotFound.
func checkAffected(affected int64, what, id string) error {
	if affected == 0 {
		return fmt.Errorf("%s %s: %w", what, id, model.ErrNotFound)
	}
	return nil
}

// isUniqueViolation reports whether err is a unique-constraint failure
// from either backend.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// encodeList stores a string slice as a JSON array column.
func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeList reads a JSON array column; empty input yields an empty slice.
func decodeList(raw string) ([]string, error) {
	items := []string{}
	if raw == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// boolToInt converts a boolean to 0 or 1 for storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
