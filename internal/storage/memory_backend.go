package storage

import (
	"sync"
	"treats/internal/models"

	json "github.com/goccy/go-json"
)

// MemoryBackend keeps an encoded copy of the last saved snapshot, so callers
// never share pointers with the stored state.
type MemoryBackend struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) Load() (*models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return models.NewSnapshot(), nil
	}
	snapshot := models.NewSnapshot()
	if err := json.Unmarshal(m.data, snapshot); err != nil {
		return nil, err
	}
	return snapshot.Normalize(), nil
}

func (m *MemoryBackend) Save(snapshot *models.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) Close() error {
	return nil
}
