package service

import (
	"context"
	"sync"

	"github.com/ndewijer/shoken-receipts-backend/internal/receipt"
)

type storeKey struct {
	sessionID string
	kind      receipt.Kind
}

type storeEntry struct {
	generation uint64
	cancel     context.CancelFunc
	result     *ImportResult
}

// receiptStore holds the current receipt set per session and kind.
// Every import takes a new generation; only the latest generation for its key may commit.
// Generations come from one store-wide counter so they are never reused after dropSession.
type receiptStore struct {
	mu      sync.Mutex
	next    uint64
	entries map[storeKey]*storeEntry
}

func newReceiptStore() *receiptStore {
	return &receiptStore{entries: make(map[storeKey]*storeEntry)}
}

// begin starts a new generation for key and cancels the one in flight.
// The returned func releases the generation's context.
func (s *receiptStore) begin(ctx context.Context, key storeKey) (context.Context, uint64, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		e = &storeEntry{}
		s.entries[key] = e
	}
	if e.cancel != nil {
		e.cancel()
	}

	s.next++
	e.generation = s.next
	gen := e.generation
	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel

	return ctx, gen, func() {
		cancel()
		s.mu.Lock()
		defer s.mu.Unlock()
		if cur, ok := s.entries[key]; ok && cur.generation == gen {
			cur.cancel = nil
		}
	}
}

// commit replaces the result for key if gen is still the latest generation.
func (s *receiptStore) commit(key storeKey, gen uint64, result *ImportResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.generation != gen {
		return false
	}
	e.result = result
	return true
}

func (s *receiptStore) current(key storeKey) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		return e.generation
	}
	return 0
}

func (s *receiptStore) get(key storeKey) (*ImportResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.result == nil {
		return nil, false
	}
	return e.result, true
}

// dropSession cancels in-flight imports and forgets every result of the session.
func (s *receiptStore) dropSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, e := range s.entries {
		if key.sessionID != sessionID {
			continue
		}
		if e.cancel != nil {
			e.cancel()
		}
		delete(s.entries, key)
	}
}
