package storage

import (
	"sync"

	"chatterm/model"
)

// MemorySettingsStore keeps settings in memory for the lifetime of the process.
type MemorySettingsStore struct {
	mu       sync.Mutex
	settings *model.Settings
}

func NewMemorySettingsStore() *MemorySettingsStore {
	return &MemorySettingsStore{}
}

func (s *MemorySettingsStore) Load() (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		return model.DefaultSettings(), nil
	}
	return *s.settings, nil
}

func (s *MemorySettingsStore) Save(settings model.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = &settings
	return nil
}
