// Package configstore persists saved device configurations ("startup
// configuration") written by the save command.
package configstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/newtron-network/netsim/pkg/util"
)

// Saved is one device's saved configuration.
type Saved struct {
	DeviceID string    `json:"device_id"`
	Config   string    `json:"config"`
	SavedAt  time.Time `json:"saved_at"`
}

// Store holds saved configurations keyed by device ID.
// Load returns an error wrapping util.ErrNotFound when nothing was saved.
type Store interface {
	Save(ctx context.Context, deviceID, config string) (*Saved, error)
	Load(ctx context.Context, deviceID string) (*Saved, error)
	Delete(ctx context.Context, deviceID string) error
	List(ctx context.Context) ([]string, error)
	Close() error
}

// MemoryStore keeps saved configurations for the life of the process.
type MemoryStore struct {
	mu    sync.RWMutex
	saved map[string]Saved
	now   func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{saved: make(map[string]Saved), now: time.Now}
}

func (m *MemoryStore) Save(_ context.Context, deviceID, config string) (*Saved, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Saved{DeviceID: deviceID, Config: config, SavedAt: m.now().UTC()}
	m.saved[deviceID] = s
	return &s, nil
}

func (m *MemoryStore) Load(_ context.Context, deviceID string) (*Saved, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.saved[deviceID]
	if !ok {
		return nil, util.NewNotFoundError("saved configuration for", deviceID)
	}
	return &s, nil
}

func (m *MemoryStore) Delete(_ context.Context, deviceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saved, deviceID)
	return nil
}

// List returns device IDs with a saved configuration, sorted.
func (m *MemoryStore) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.saved))
	for id := range m.saved {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MemoryStore) Close() error { return nil }
