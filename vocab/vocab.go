// Package vocab maintains the canonical entity-ID ordering shared across
// the feature sources of a training pipeline.
//
// Every feature module of a pipeline is built against the same IDMap
// ordering, so row i means the same entity everywhere.
package vocab

import "sync"

// IDMap assigns dense, insertion-ordered row indices to entity IDs.
// It is safe for concurrent use.
type IDMap struct {
	mu  sync.RWMutex
	idx map[string]int
	ids []string
}

// NewIDMap creates an empty IDMap.
func NewIDMap() *IDMap {
	return &IDMap{
		idx: make(map[string]int),
	}
}

// FromIDs creates an IDMap pre-populated with the given IDs, in order.
// Duplicates keep their first index.
func FromIDs(ids ...string) *IDMap {
	m := NewIDMap()
	for _, id := range ids {
		m.Add(id)
	}
	return m
}

// Add registers an ID and returns its row index.
// Adding a known ID is a no-op that returns the existing index.
func (m *IDMap) Add(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i, ok := m.idx[id]; ok {
		return i
	}
	i := len(m.ids)
	m.idx[id] = i
	m.ids = append(m.ids, id)
	return i
}

// Index returns the row index of an ID.
func (m *IDMap) Index(id string) (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.idx[id]
	return i, ok
}

// ID returns the entity ID at row index i.
func (m *IDMap) ID(i int) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i < 0 || i >= len(m.ids) {
		return "", false
	}
	return m.ids[i], true
}

// IDs returns the canonical ordering as a copy.
// The result is the ordered ID list handed to FeatureModule.Build.
func (m *IDMap) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, len(m.ids))
	copy(out, m.ids)
	return out
}

// Len returns the number of registered IDs.
func (m *IDMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.ids)
}
