package oracle

import (
	"context"
	"sync"
	"time"

	id "civicred/pkg/domain"
	"civicred/pkg/platform/sentinel"
)

type pendingKey struct {
	requestID id.RequestID
	kind      Kind
}

// InMemoryPendingStore is the in-memory request ledger.
type InMemoryPendingStore struct {
	mu      sync.Mutex
	entries map[pendingKey]PendingRequest
}

func NewInMemoryPendingStore() *InMemoryPendingStore {
	return &InMemoryPendingStore{entries: make(map[pendingKey]PendingRequest)}
}

func (s *InMemoryPendingStore) Create(_ context.Context, pending PendingRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pendingKey{requestID: pending.RequestID, kind: pending.Kind}
	if _, ok := s.entries[key]; ok {
		return sentinel.ErrAlreadyUsed
	}
	if pending.CreatedAt.IsZero() {
		pending.CreatedAt = time.Now()
	}
	s.entries[key] = pending
	return nil
}

func (s *InMemoryPendingStore) Get(_ context.Context, requestID id.RequestID, kind Kind) (*PendingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending, ok := s.entries[pendingKey{requestID: requestID, kind: kind}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &pending, nil
}

func (s *InMemoryPendingStore) Take(_ context.Context, requestID id.RequestID, kind Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pendingKey{requestID: requestID, kind: kind}
	if _, ok := s.entries[key]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.entries, key)
	return nil
}
