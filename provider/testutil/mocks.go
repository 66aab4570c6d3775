package testutil

import (
	"context"
	"errors"
	"sync"

	"chatterm/model"
)

// Call records one Complete invocation.
type Call struct {
	Messages []model.Message
	Params   model.CompletionParams
}

// MockCompleter implements model.Completer for testing
type MockCompleter struct {
	// CompleteFunc produces the result of each call. Defaults to returning Reply.
	CompleteFunc func(ctx context.Context, messages []model.Message, params model.CompletionParams) (string, error)
	Reply        string

	mu    sync.Mutex
	calls []Call

	// gate, when set, holds every call until Release is called once for it.
	gate    chan struct{}
	started chan struct{}
}

// NewMockCompleter creates a mock that answers every call with reply.
func NewMockCompleter(reply string) *MockCompleter {
	m := &MockCompleter{Reply: reply}
	m.CompleteFunc = m.defaultComplete
	return m
}

// NewFailingCompleter creates a mock that fails every call with reason.
func NewFailingCompleter(reason string) *MockCompleter {
	m := &MockCompleter{}
	m.CompleteFunc = func(ctx context.Context, messages []model.Message, params model.CompletionParams) (string, error) {
		return "", errors.New(reason)
	}
	return m
}

// NewBlockingCompleter creates a mock whose calls wait for Release before answering with reply.
func NewBlockingCompleter(reply string) *MockCompleter {
	m := NewMockCompleter(reply)
	m.gate = make(chan struct{})
	m.started = make(chan struct{}, 64)
	return m
}

func (m *MockCompleter) defaultComplete(ctx context.Context, messages []model.Message, params model.CompletionParams) (string, error) {
	return m.Reply, nil
}

// Complete implements model.Completer.
func (m *MockCompleter) Complete(ctx context.Context, messages []model.Message, params model.CompletionParams) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{
		Messages: append([]model.Message(nil), messages...),
		Params:   params,
	})
	m.mu.Unlock()

	if m.gate != nil {
		m.started <- struct{}{}
		select {
		case <-m.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	return m.CompleteFunc(ctx, messages, params)
}

// Started returns a channel that receives once per blocked call.
// Only meaningful for mocks created with NewBlockingCompleter.
func (m *MockCompleter) Started() <-chan struct{} {
	return m.started
}

// Release lets one blocked call proceed.
func (m *MockCompleter) Release() {
	m.gate <- struct{}{}
}

// Calls returns a copy of the recorded calls.
func (m *MockCompleter) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// CallCount returns the number of Complete invocations so far.
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// RecordingStore implements model.SettingsStore in memory and records every save.
type RecordingStore struct {
	mu      sync.Mutex
	current *model.Settings
	saved   []model.Settings

	LoadErr error
	SaveErr error
}

// NewRecordingStore creates a store pre-populated with initial, or empty when initial is nil.
func NewRecordingStore(initial *model.Settings) *RecordingStore {
	return &RecordingStore{current: initial}
}

// Load implements model.SettingsStore.
func (s *RecordingStore) Load() (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return model.Settings{}, s.LoadErr
	}
	if s.current == nil {
		return model.DefaultSettings(), nil
	}
	return *s.current, nil
}

// Save implements model.SettingsStore.
func (s *RecordingStore) Save(settings model.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, settings)
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.current = &settings
	return nil
}

// Saved returns every value passed to Save, oldest first.
func (s *RecordingStore) Saved() []model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Settings(nil), s.saved...)
}
