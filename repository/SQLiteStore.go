package repository

import (
	"database/sql"
	"errors"
	"fmt"
)

const createKVTable = `CREATE TABLE IF NOT EXISTS KeyValues (
	Key   TEXT PRIMARY KEY,
	Value TEXT NOT NULL
)`

// SQLiteStore keeps values in a single table of a SQLite database opened
// with the go-sqlite3 driver.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(conn *sql.DB) (KeyValueStore, error) {
	if conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := conn.Ping()
	if err != nil {
		return nil, err
	}
	if _, err = conn.Exec(createKVTable); err != nil {
		return nil, fmt.Errorf("create KeyValues table: %w", err)
	}
	return &SQLiteStore{db: conn}, nil
}

func (s *SQLiteStore) Get(key string) (value string, found bool, err error) {
	row := s.db.QueryRow("SELECT Value FROM KeyValues WHERE Key = ?", key)
	err = row.Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = nil
			return
		}
		err = fmt.Errorf("sqlite get %q: %w", key, err)
		return
	}
	found = true
	return
}

func (s *SQLiteStore) Set(key string, value string) (err error) {
	_, err = s.db.Exec("INSERT INTO KeyValues (Key, Value) VALUES (?, ?) ON CONFLICT(Key) DO UPDATE SET Value = excluded.Value", key, value)
	if err != nil {
		err = fmt.Errorf("sqlite set %q: %w", key, err)
	}
	return
}
