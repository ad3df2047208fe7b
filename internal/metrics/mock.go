package metrics

import "sync"

// MockMetrics is a mock implementation of the Metrics interface for testing.
type MockMetrics struct {
	mu sync.Mutex

	RoundsGeneratedCount    int
	GenerationFailedCount   int
	ScoresRecordedCount     int
	SessionsStartedCount    int
	GenerationDurations     []float64
	NotifSentCount          int
	NotifFailedCount        int
	StartupTimes            []float64
}

var _ Metrics = (*MockMetrics)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockMetrics {
	return &MockMetrics{}
}

func (m *MockMetrics) IncRoundsGenerated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RoundsGeneratedCount++
}

func (m *MockMetrics) IncGenerationFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerationFailedCount++
}

func (m *MockMetrics) IncScoresRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScoresRecordedCount++
}

func (m *MockMetrics) IncSessionsStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsStartedCount++
}

func (m *MockMetrics) ObserveGenerationDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerationDurations = append(m.GenerationDurations, duration)
}

func (m *MockMetrics) IncNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifSentCount++
}

func (m *MockMetrics) IncNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifFailedCount++
}

func (m *MockMetrics) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartupTimes = append(m.StartupTimes, duration)
}

// MockMetricsStore is an in-memory MetricsStore for testing.
type MockMetricsStore struct {
	mu     sync.Mutex
	Counts map[string]int
}

var _ MetricsStore = (*MockMetricsStore)(nil)

// NewMockStore creates a new mock instance.
func NewMockStore() *MockMetricsStore {
	return &MockMetricsStore{Counts: make(map[string]int)}
}

func (m *MockMetricsStore) Increment(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Counts[key]++
}

func (m *MockMetricsStore) GetAll() (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.Counts))
	for k, v := range m.Counts {
		out[k] = v
	}
	return out, nil
}
