package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// StorageKey names the persisted search of a session
const StorageKey = "transactionSearchParams"

// SavedSearch is the last search of a session plus the page being viewed
type SavedSearch struct {
	SearchParams
	Page       int `json:"page"`
	TotalPages int `json:"totalPages,omitempty"`
}

// ParseError means a stored search could not be decoded
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("stored search is malformed: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Store persists the last search of each browser session
type Store interface {
	// Load returns nil, nil when nothing was saved
	Load(ctx context.Context, session string) (*SavedSearch, error)
	Save(ctx context.Context, session string, search SavedSearch) error
	Clear(ctx context.Context, session string) error
}

func storageKey(session string) string {
	return StorageKey + ":" + session
}

func encodeSearch(search SavedSearch) ([]byte, error) {
	return json.Marshal(search)
}

func decodeSearch(raw []byte) (*SavedSearch, error) {
	var search SavedSearch
	if err := json.Unmarshal(raw, &search); err != nil {
		return nil, &ParseError{Err: err}
	}
	if search.StartDate == "" || search.EndDate == "" {
		return nil, &ParseError{Err: fmt.Errorf("missing date range")}
	}
	if search.Page < 1 {
		search.Page = 1
	}
	return &search, nil
}

type memoryEntry struct {
	raw       []byte
	expiresAt time.Time
}

// MemoryStore keeps searches in process memory. Like the Redis store, every
// save restarts the entry's TTL; expired entries read as absent.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store. A ttl <= 0 keeps entries forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Load implements Store
func (m *MemoryStore) Load(_ context.Context, session string) (*SavedSearch, error) {
	key := storageKey(session)

	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if m.expired(entry) {
		m.mu.Lock()
		if current, still := m.entries[key]; still && m.expired(current) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, nil
	}
	return decodeSearch(entry.raw)
}

// Save implements Store
func (m *MemoryStore) Save(_ context.Context, session string, search SavedSearch) error {
	raw, err := encodeSearch(search)
	if err != nil {
		return err
	}

	entry := memoryEntry{raw: raw}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	m.entries[storageKey(session)] = entry
	m.mu.Unlock()
	return nil
}

// Clear implements Store
func (m *MemoryStore) Clear(_ context.Context, session string) error {
	m.mu.Lock()
	delete(m.entries, storageKey(session))
	m.mu.Unlock()
	return nil
}

// Run evicts expired entries every interval until ctx is done
func (m *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.evict()
		}
	}
}

func (m *MemoryStore) evict() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, entry := range m.entries {
		if m.expired(entry) {
			delete(m.entries, key)
		}
	}
}

func (m *MemoryStore) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt)
}
