package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"chatterm/model"
)

// SQLiteSettingsStore persists settings as key-value rows in a SQLite database.
type SQLiteSettingsStore struct {
	db *sql.DB
}

func NewSQLiteSettingsStore(dbPath string) (*SQLiteSettingsStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteSettingsStore{db: db}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

func (s *SQLiteSettingsStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Load reads every stored key. Keys that were never written keep their defaults.
func (s *SQLiteSettingsStore) Load() (model.Settings, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return model.DefaultSettings(), fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	kv := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return model.DefaultSettings(), fmt.Errorf("failed to scan setting: %w", err)
		}
		kv[key] = value
	}
	if err := rows.Err(); err != nil {
		return model.DefaultSettings(), fmt.Errorf("failed to read settings: %w", err)
	}

	return recordFromKeyValues(kv).settings(), nil
}

// Save writes all keys in a single transaction.
func (s *SQLiteSettingsStore) Save(settings model.Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for key, value := range recordFromSettings(settings).keyValues() {
		if _, err := stmt.Exec(key, value); err != nil {
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settings: %w", err)
	}
	return nil
}

func (s *SQLiteSettingsStore) Close() error {
	return s.db.Close()
}
