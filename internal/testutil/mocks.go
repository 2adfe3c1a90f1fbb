package testutil

import (
	"strings"
	"sync"
	"time"
	"treats/internal/models"
	"treats/internal/providers"

	json "github.com/goccy/go-json"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at the level into the log type.
func (m *MockLogger) Count(level string, t providers.TypeEnum) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level && l.Type == t {
			n++
		}
	}
	return n
}

// HasLog reports whether any entry's format starts with prefix.
func (m *MockLogger) HasLog(prefix string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.Logs {
		if strings.HasPrefix(l.Format, prefix) {
			return true
		}
	}
	return false
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu     sync.Mutex
	Data   map[string][]byte
	Clears int
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data = make(map[string][]byte)
	m.Clears++
}

func (m *MockCache) Stats() providers.CacheStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return providers.CacheStats{Enabled: true, Entries: int64(len(m.Data))}
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {
	m.Closed = true
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu              sync.Mutex
	Requests        int
	CacheHits       int
	CacheMisses     int
	Persistence     map[string]int
	StandupsFlushed int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) ObservePersistenceDuration(operation string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Persistence == nil {
		m.Persistence = make(map[string]int)
	}
	m.Persistence[operation]++
}
func (m *MockMetrics) IncStandupsFlushed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StandupsFlushed++
}

// Flushed reads StandupsFlushed under the lock for tests that race a timer.
func (m *MockMetrics) Flushed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.StandupsFlushed
}

// MockGateway keeps an encoded snapshot in memory and can be told to fail.
type MockGateway struct {
	mu      sync.Mutex
	data    []byte
	Loads   int
	Saves   int
	LoadErr error
	SaveErr error
}

func (m *MockGateway) Load() (*models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Loads++
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	snapshot := models.NewSnapshot()
	if m.data == nil {
		return snapshot, nil
	}
	if err := json.Unmarshal(m.data, snapshot); err != nil {
		return nil, err
	}
	return snapshot.Normalize(), nil
}

func (m *MockGateway) Save(snapshot *models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	m.data = data
	return nil
}

func (m *MockGateway) Close() error {
	return nil
}

// Snapshot returns the last saved snapshot without counting a load.
func (m *MockGateway) Snapshot() *models.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := models.NewSnapshot()
	if m.data != nil {
		_ = json.Unmarshal(m.data, snapshot)
	}
	return snapshot.Normalize()
}
