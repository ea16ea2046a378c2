package storage

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/jwebster45206/dialogue-engine/pkg/dialogue"
	"github.com/jwebster45206/dialogue-engine/pkg/portrait"
)

// MockStorage is a mock implementation of Storage for testing
type MockStorage struct {
	mu          sync.RWMutex
	transcripts map[string]*dialogue.Transcript
	sources     map[string]*dialogue.Source
	scripts     map[string][]byte
	portraits   *portrait.Data
	pingError   error
	saveError   error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		transcripts: make(map[string]*dialogue.Transcript),
		sources:     make(map[string]*dialogue.Source),
		scripts:     make(map[string][]byte),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError configures the mock to fail when saving transcripts
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// Ping mocks storage ping
func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

// Close mocks storage close
func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveTranscript(ctx context.Context, t *dialogue.Transcript) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	stored := *t
	m.transcripts[t.SessionID] = &stored
	return nil
}

// LoadTranscript returns nil, nil for an unknown session, like the Redis store
func (m *MockStorage) LoadTranscript(ctx context.Context, sessionID string) (*dialogue.Transcript, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.transcripts[sessionID]
	if !ok {
		return nil, nil
	}
	loaded := *t
	return &loaded, nil
}

func (m *MockStorage) DeleteTranscript(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.transcripts, sessionID)
	return nil
}

func (m *MockStorage) ListSources(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sources))
	for id := range m.sources {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// GetSource returns a copy of the source with its script attached
func (m *MockStorage) GetSource(ctx context.Context, id string) (*dialogue.Source, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sources[id]
	if !ok {
		return nil, errors.New("source not found")
	}
	src := *s
	src.Events = slices.Clone(s.Events)
	if src.Compiled == nil {
		script, ok := m.scripts[s.Script]
		if !ok {
			return nil, errors.New("script not found")
		}
		src.Compiled = script
	}
	return &src, nil
}

// AddSource adds a source to the mock storage
func (m *MockStorage) AddSource(s *dialogue.Source) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources[s.ID] = s
}

func (m *MockStorage) GetScript(ctx context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	script, ok := m.scripts[name]
	if !ok {
		return nil, errors.New("script not found")
	}
	return script, nil
}

// AddScript adds a compiled script to the mock storage
func (m *MockStorage) AddScript(name string, compiled []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts[name] = compiled
}

func (m *MockStorage) GetPortraits(ctx context.Context) (*portrait.Data, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.portraits, nil
}

// SetPortraits sets the portrait data returned by GetPortraits
func (m *MockStorage) SetPortraits(d *portrait.Data) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.portraits = d
}
