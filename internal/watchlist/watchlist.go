package watchlist

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// Entry is one watched instrument.
type Entry struct {
	Code    string    `json:"code"`
	Name    string    `json:"name"`
	AddedAt time.Time `json:"added_at"`
}

// Manager handles the watch-list file with concurrency safety.
type Manager struct {
	mu       sync.Mutex
	entries  []Entry
	filePath string
}

// NewManager creates a Manager, loading existing entries from disk.
func NewManager(filePath string) (*Manager, error) {
	entries, err := load(filePath)
	if err != nil {
		return nil, err
	}
	return &Manager{entries: entries, filePath: filePath}, nil
}

// load reads the watch-list from a JSON file. Returns an empty list if the
// file doesn't exist.
func load(filePath string) ([]Entry, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (m *Manager) save() error {
	data, err := json.MarshalIndent(m.entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.filePath, data, 0644)
}

// Add appends an instrument unless its code is already present. Reports
// whether the entry was added.
func (m *Manager) Add(code, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.Code == code {
			return false, nil
		}
	}
	m.entries = append(m.entries, Entry{Code: code, Name: name, AddedAt: time.Now()})
	return true, m.save()
}

// Remove deletes the entry with the given code, if present.
func (m *Manager) Remove(code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.Code != code {
			kept = append(kept, e)
		}
	}
	m.entries = kept
	return m.save()
}

// List returns a copy of the current entries.
func (m *Manager) List() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}
