// Package snapshot persists periodic durable snapshots of a store's state
// so a later process can restore its last recorded value.
package snapshot

import (
	"fmt"
	"sync"
)

// Backend stores encoded snapshots. Save stages state under a snapshot id,
// Persist makes the whole snapshot durable. Latest returns the newest
// persisted state recorded under name, or nil when none exists.
type Backend interface {
	Save(id int64, name string, state []byte) error
	Persist(id int64) error
	Latest(name string) ([]byte, error)
	Close() error
}

type memory struct {
	mutex     *sync.Mutex
	staged    map[int64]map[string][]byte
	persisted []int64
}

func (m *memory) Save(id int64, name string, state []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	snapshotState, ok := m.staged[id]
	if !ok {
		snapshotState = map[string][]byte{}
		m.staged[id] = snapshotState
	}
	snapshotState[name] = state
	return nil
}

func (m *memory) Persist(id int64) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if _, ok := m.staged[id]; !ok {
		return fmt.Errorf("snapshot %d not found", id)
	}
	m.persisted = append(m.persisted, id)
	return nil
}

func (m *memory) Latest(name string) ([]byte, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for i := len(m.persisted) - 1; i >= 0; i-- {
		if state, ok := m.staged[m.persisted[i]][name]; ok {
			return state, nil
		}
	}
	return nil, nil
}

func (m *memory) Close() error { return nil }

// NewMemoryBackend keeps snapshots in process memory, for tests and
// ephemeral stores.
func NewMemoryBackend() Backend {
	return &memory{
		mutex:  &sync.Mutex{},
		staged: map[int64]map[string][]byte{},
	}
}
