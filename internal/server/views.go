package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// viewEntry is one stored artifact, retrievable until it expires.
type viewEntry struct {
	data        []byte
	contentType string
	expires     time.Time
}

// viewStore holds rendered artifacts under random IDs so render responses
// can point at them instead of embedding binary payloads. Entries expire
// after the configured TTL; expired entries are swept lazily on writes.
type viewStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]viewEntry
}

func newViewStore(ttl time.Duration) *viewStore {
	return &viewStore{
		ttl:     ttl,
		entries: make(map[string]viewEntry),
	}
}

// Put stores an artifact and returns its view ID.
func (s *viewStore) Put(data []byte, contentType string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, id)
		}
	}

	id := uuid.NewString()
	s.entries[id] = viewEntry{
		data:        data,
		contentType: contentType,
		expires:     now.Add(s.ttl),
	}
	return id
}

// Get retrieves an artifact by ID. Expired entries are treated as missing.
func (s *viewStore) Get(id string) (viewEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return viewEntry{}, false
	}
	if time.Now().After(e.expires) {
		delete(s.entries, id)
		return viewEntry{}, false
	}
	return e, true
}

// Len reports the number of live entries.
func (s *viewStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
