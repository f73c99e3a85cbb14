package testutil

import (
	"sync"
	"time"

	"astroview/internal/models"
	"astroview/internal/providers"
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

// MockMetrics implements providers.MetricsProviderInterface and counts
// what it was told.
type MockMetrics struct {
	mu              sync.Mutex
	Requests        int
	CacheHits       int
	CacheMisses     int
	Polls           map[string]int
	FetchObserved   int
	MarkersRendered int
	Submissions     map[string]int
	Persisted       int
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
func (m *MockMetrics) IncPollsTotal(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Polls == nil {
		m.Polls = make(map[string]int)
	}
	m.Polls[result]++
}
func (m *MockMetrics) ObserveFetchDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchObserved++
}
func (m *MockMetrics) SetMarkersRendered(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkersRendered = count
}
func (m *MockMetrics) IncSubmissionsTotal(kind, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Submissions == nil {
		m.Submissions = make(map[string]int)
	}
	m.Submissions[kind+":"+outcome]++
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persisted++
}

// MockCompressor is a passthrough compressor for persistence tests.
type MockCompressor struct{}

func (m *MockCompressor) Compress(val []byte) ([]byte, error)   { return val, nil }
func (m *MockCompressor) Decompress(val []byte) ([]byte, error) { return val, nil }
func (m *MockCompressor) Close()                                {}

// SampleSites returns a small deterministic record set for tests.
func SampleSites() []models.SiteRecord {
	return []models.SiteRecord{
		{
			ID:            "obs-001",
			Name:          "Gaomei Plateau",
			Latitude:      30.1,
			Longitude:     104.0,
			Bortle:        "3",
			StandardLight: "2",
			Sqm:           "21.5",
			Climate:       "clear autumn nights",
			Images:        []string{"http://img.example/a.jpg"},
		},
		{
			ID:        "obs-002",
			Name:      "Lakeview Ridge",
			Latitude:  29.55,
			Longitude: 101.25,
			Image:     "http://img.example/b.jpg",
		},
	}
}
