package metrics

import "sync"

// InMemory is a Recorder backed by in-process counters.
// Suitable for tests and for exposure via a debug endpoint.
type InMemory struct {
	mu              sync.Mutex
	productWrites   map[string]int64
	authAttempts    map[string]int64
	feedDeliveries  map[string]int64
	feedSubscribers int
}

// NewInMemory creates a new in-memory recorder.
func NewInMemory() *InMemory {
	return &InMemory{
		productWrites:  make(map[string]int64),
		authAttempts:   make(map[string]int64),
		feedDeliveries: make(map[string]int64),
	}
}

func (m *InMemory) IncProductWrite(operation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.productWrites[operation]++
}

func (m *InMemory) IncAuthAttempt(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authAttempts[result]++
}

func (m *InMemory) IncFeedDelivery(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feedDeliveries[result]++
}

func (m *InMemory) SetFeedSubscribers(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feedSubscribers = n
}

// ProductWrites returns the counter for the given operation.
func (m *InMemory) ProductWrites(operation string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.productWrites[operation]
}

// AuthAttempts returns the counter for the given result.
func (m *InMemory) AuthAttempts(result string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authAttempts[result]
}

// FeedDeliveries returns the counter for the given result.
func (m *InMemory) FeedDeliveries(result string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.feedDeliveries[result]
}

// FeedSubscribers returns the last recorded subscriber count.
func (m *InMemory) FeedSubscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.feedSubscribers
}
