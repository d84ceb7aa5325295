package tasklib

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const dbFileName = "taskpro.db"

// DBPath returns the sqlite database location inside dir.
func DBPath(dir string) string {
	return filepath.Join(dir, dbFileName)
}

// SQLiteStore keeps each blob as one row of a key-value table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite allows one writer at a time
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) get(key string) ([]byte, error) {
	var b []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return b, nil
}

func (s *SQLiteStore) put(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) LoadTasks() ([]Task, error) {
	b, err := s.get(tasksKey)
	if err != nil {
		return nil, err
	}
	return decodeTasks(b)
}

func (s *SQLiteStore) SaveTasks(tasks []Task) error {
	b, err := encodeTasks(tasks)
	if err != nil {
		return err
	}
	return s.put(tasksKey, b)
}

func (s *SQLiteStore) LoadProfile() (*Profile, error) {
	b, err := s.get(profileKey)
	if err != nil {
		return nil, err
	}
	return decodeProfile(b)
}

func (s *SQLiteStore) SaveProfile(p *Profile) error {
	if p == nil {
		if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, profileKey); err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
		return nil
	}
	b, err := jsonMarshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return s.put(profileKey, b)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
