package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/anupk/tutordesk/internal/model"
	_ "github.com/mattn/go-sqlite3"
)

// Collection keys. Each key holds one whole collection as a JSON array.
const (
	KeyStudents   = "students"
	KeyAttendance = "attendance"
	KeyTests      = "tests"
	KeyDoubts     = "doubts"
)

// Store persists whole collections as JSON payloads in a local SQLite
// file, one row per collection key.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

func New(dbPath string, log *zap.Logger) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// OpenReadOnly opens an existing database for reading. Unlike New it
// neither creates a missing file nor migrates the schema; a missing
// path is an error.
func OpenReadOnly(dbPath string, log *zap.Logger) (*Store, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("stat db: %w", err)
	}
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS collections (
		key        TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(schema)
	return err
}

func (s *Store) Close() error { return s.db.Close() }

// Ping reports whether the database file is still reachable.
func (s *Store) Ping() error { return s.db.Ping() }

// Save serializes the full collection and replaces the row for key in a
// single statement, so a reader never observes a partial write. Keys are
// independent: there is no transaction spanning two collections.
func (s *Store) Save(key string, collection any) error {
	payload, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO collections (key, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
		key, string(payload),
	)
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// -------- Loaders --------
//
// A missing key or an unreadable payload loads as the empty collection:
// logged, never surfaced as an error. The bad row stays in place until
// the next save overwrites it.

// LoadStudents returns the persisted student list, empty when absent.
func (s *Store) LoadStudents() []model.Student {
	var out []model.Student
	if !s.load(KeyStudents, &out) {
		return nil
	}
	return out
}

// LoadAttendance returns the persisted attendance records, empty when absent.
func (s *Store) LoadAttendance() []model.AttendanceRecord {
	var out []model.AttendanceRecord
	if !s.load(KeyAttendance, &out) {
		return nil
	}
	return out
}

// LoadTests returns the persisted tests, empty when absent.
func (s *Store) LoadTests() []model.Test {
	var out []model.Test
	if !s.load(KeyTests, &out) {
		return nil
	}
	return out
}

// LoadDoubts returns the persisted doubts, empty when absent.
func (s *Store) LoadDoubts() []model.Doubt {
	var out []model.Doubt
	if !s.load(KeyDoubts, &out) {
		return nil
	}
	return out
}

// load fills dest from the payload stored under key. It reports false
// when a payload existed but could not be read or decoded, so callers
// discard dest instead of keeping a partially decoded value.
func (s *Store) load(key string, dest any) bool {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM collections WHERE key = ?`, key).Scan(&payload)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return true
	case err != nil:
		s.log.Warn("collection read failed, starting empty", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		s.log.Warn("collection payload unreadable, starting empty", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}
