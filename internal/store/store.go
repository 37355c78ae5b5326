// Package store keeps pre-trim originals and a reduction cache.
//
// DESIGN: Trimming is lossy, so the server hands back a trim ID with
// every reduction and keeps the original here for recovery. Dual TTL:
//   - Originals: short TTL — only needed while the caller might ask back
//   - Reductions: long TTL — keyed by (text, options) hash so identical
//     inputs are not re-trimmed
//
// Only MemoryStore is implemented. For multi-instance deployments,
// implement Store with Redis or similar.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Default TTL values.
const (
	DefaultOriginalTTL = 5 * time.Minute
	DefaultReducedTTL  = 24 * time.Hour
)

// Store defines the interface for original-text and reduction storage.
type Store interface {
	// SetOriginal stores the pre-trim text under a trim ID (short TTL).
	SetOriginal(id, text string) error

	// GetOriginal retrieves pre-trim text by trim ID.
	GetOriginal(id string) (string, bool)

	// DeleteOriginal removes a stored original.
	DeleteOriginal(id string) error

	// SetReduced caches a reduction result under a content key (long TTL).
	SetReduced(key, reduced string) error

	// GetReduced retrieves a cached reduction.
	GetReduced(key string) (string, bool)

	// Close cleans up resources.
	Close() error
}

// CacheKey derives the reduction-cache key for a text and an encoded
// options fingerprint.
func CacheKey(text, optionsFingerprint string) string {
	sum := sha256.Sum256([]byte(optionsFingerprint + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

// MemoryStore is a TTL-evicting in-memory implementation of Store.
type MemoryStore struct {
	originals   map[string]entry
	reductions  map[string]entry
	mu          sync.RWMutex
	originalTTL time.Duration
	reducedTTL  time.Duration
	stopChan    chan struct{}
	stopped     bool
}

type entry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryStore creates a store with the given TTLs; zero values take
// the defaults.
func NewMemoryStore(originalTTL, reducedTTL time.Duration) *MemoryStore {
	if originalTTL <= 0 {
		originalTTL = DefaultOriginalTTL
	}
	if reducedTTL <= 0 {
		reducedTTL = DefaultReducedTTL
	}

	s := &MemoryStore{
		originals:   make(map[string]entry),
		reductions:  make(map[string]entry),
		originalTTL: originalTTL,
		reducedTTL:  reducedTTL,
		stopChan:    make(chan struct{}),
	}

	go s.cleanup()

	return s
}

// SetOriginal stores pre-trim text with the short TTL.
func (s *MemoryStore) SetOriginal(id, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil
	}

	s.originals[id] = entry{value: text, expiresAt: time.Now().Add(s.originalTTL)}
	return nil
}

// GetOriginal retrieves pre-trim text if it exists and hasn't expired.
func (s *MemoryStore) GetOriginal(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.originals[id]
	if !exists || time.Now().After(e.expiresAt) {
		return "", false
	}
	return e.value, true
}

// DeleteOriginal removes a stored original.
func (s *MemoryStore) DeleteOriginal(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.originals, id)
	return nil
}

// SetReduced caches a reduction with the long TTL.
func (s *MemoryStore) SetReduced(key, reduced string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil
	}

	s.reductions[key] = entry{value: reduced, expiresAt: time.Now().Add(s.reducedTTL)}
	return nil
}

// GetReduced retrieves a cached reduction.
func (s *MemoryStore) GetReduced(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.reductions[key]
	if !exists || time.Now().After(e.expiresAt) {
		return "", false
	}
	return e.value, true
}

// Close stops the cleanup goroutine and clears data.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.stopped {
		s.stopped = true
		close(s.stopChan)
		s.originals = nil
		s.reductions = nil
	}
	return nil
}

// cleanup periodically removes expired entries.
func (s *MemoryStore) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.mu.Lock()
			if !s.stopped {
				now := time.Now()
				for key, e := range s.originals {
					if now.After(e.expiresAt) {
						delete(s.originals, key)
					}
				}
				for key, e := range s.reductions {
					if now.After(e.expiresAt) {
						delete(s.reductions, key)
					}
				}
			}
			s.mu.Unlock()
		}
	}
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
