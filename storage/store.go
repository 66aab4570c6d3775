package storage

import (
	"fmt"
	"io"

	"chatterm/config"
	"chatterm/model"
)

// NewSettingsStore opens the settings backend named by backend inside dataDir.
// The returned closer releases backend resources and is never nil.
func NewSettingsStore(backend, dataDir string) (model.SettingsStore, io.Closer, error) {
	switch backend {
	case config.BackendFile, "":
		path := config.GetChatSettingsPath(dataDir)
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Storage] Using file settings store at %s", path)
		}
		return NewFileSettingsStore(path), nopCloser{}, nil

	case config.BackendSQLite:
		path := config.GetChatSettingsDBPath(dataDir)
		store, err := NewSQLiteSettingsStore(path)
		if err != nil {
			return nil, nopCloser{}, err
		}
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Storage] Using sqlite settings store at %s", path)
		}
		return store, store, nil

	case config.BackendMemory:
		return NewMemorySettingsStore(), nopCloser{}, nil

	default:
		return nil, nopCloser{}, fmt.Errorf("unknown settings backend: %s", backend)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
