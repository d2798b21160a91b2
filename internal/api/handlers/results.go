package handlers

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"coin-dca/internal/api/models"
)

// ResultStore keeps the event ledgers of recent simulation runs in memory so
// GET /simulate/:id/events can serve them without re-running anything.
// Entries expire after a TTL; results are immutable once stored.
type ResultStore struct {
	mu      sync.RWMutex
	entries map[string]*storedResult
	ttl     time.Duration
}

type storedResult struct {
	events    []models.EventRow
	expiresAt time.Time
}

// NewResultStore creates a result store. A non-positive ttl defaults to one hour.
func NewResultStore(ttl time.Duration) *ResultStore {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	s := &ResultStore{
		entries: make(map[string]*storedResult),
		ttl:     ttl,
	}
	go s.cleanup()
	return s
}

// Put stores an event ledger and returns its fresh id.
func (s *ResultStore) Put(events []models.EventRow) string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = &storedResult{
		events:    events,
		expiresAt: time.Now().Add(s.ttl),
	}
	return id
}

// Get retrieves a stored ledger if present and not expired.
func (s *ResultStore) Get(id string) ([]models.EventRow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, exists := s.entries[id]
	if !exists || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.events, true
}

// cleanup periodically removes expired entries
func (s *ResultStore) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for id, entry := range s.entries {
			if now.After(entry.expiresAt) {
				delete(s.entries, id)
			}
		}
		s.mu.Unlock()
	}
}
