package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"chatterm/model"
)

// FileSettingsStore persists settings as a flat TOML record.
type FileSettingsStore struct {
	path string
	mu   sync.Mutex
}

// NewFileSettingsStore creates a store backed by the TOML file at path.
// The file is created on the first Save.
func NewFileSettingsStore(path string) *FileSettingsStore {
	return &FileSettingsStore{path: path}
}

// Path returns the backing file path.
func (s *FileSettingsStore) Path() string {
	return s.path
}

// Load reads settings from disk, returning defaults if the file does not exist.
func (s *FileSettingsStore) Load() (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := recordFromSettings(model.DefaultSettings())

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return record.settings(), nil
	}

	if _, err := toml.DecodeFile(s.path, &record); err != nil {
		return model.DefaultSettings(), fmt.Errorf("failed to parse settings file: %w", err)
	}

	return record.settings(), nil
}

// Save writes settings to disk, replacing the previous record atomically.
func (s *FileSettingsStore) Save(settings model.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".chat_settings-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp settings file: %w", err)
	}
	defer os.Remove(tmp.Name())

	// Use 0600 permissions - the system prompt may contain private instructions
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set settings file permissions: %w", err)
	}

	if err := toml.NewEncoder(tmp).Encode(recordFromSettings(settings)); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace settings file: %w", err)
	}

	return nil
}
