package zipdoc

import (
	"sort"
	"sync"
)

// entryMap is the concurrency-safe path -> bytes map behind a Document.
// Values are never mutated after insertion; callers hand in and receive copies.
type entryMap struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func newEntryMap(capacity int) *entryMap {
	return &entryMap{entries: make(map[string][]byte, capacity)}
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// get returns a private copy of the entry.
func (m *entryMap) get(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.entries[path]
	if !ok {
		return nil, false
	}
	return cloneBytes(data), true
}

// put takes ownership of data. Callers must not retain it.
func (m *entryMap) put(path string, data []byte) {
	m.mu.Lock()
	m.entries[path] = data
	m.mu.Unlock()
}

func (m *entryMap) delete(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[path]
	delete(m.entries, path)
	return ok
}

func (m *entryMap) has(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[path]
	return ok
}

func (m *entryMap) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *entryMap) paths() []string {
	m.mu.RLock()
	paths := make([]string, 0, len(m.entries))
	for p := range m.entries {
		paths = append(paths, p)
	}
	m.mu.RUnlock()
	sort.Strings(paths)
	return paths
}

// snapshot deep-copies every entry.
func (m *entryMap) snapshot() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string][]byte, len(m.entries))
	for p, data := range m.entries {
		out[p] = cloneBytes(data)
	}
	return out
}

// replace swaps in a fully built map. Used by Load so a failure never leaves a torn mix.
func (m *entryMap) replace(entries map[string][]byte) {
	m.mu.Lock()
	m.entries = entries
	m.mu.Unlock()
}
