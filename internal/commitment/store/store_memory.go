// Package store implements the used-commitment registry. It is the single
// source of truth linking "credential was minted" to "credential was spent":
// issuance reserves a commitment and the ballot system later consumes against
// the same set.
package store

import (
	"context"
	"sync"

	id "civicred/pkg/domain"
	"civicred/pkg/platform/sentinel"
)

// InMemory tracks used commitments in memory.
type InMemory struct {
	mu   sync.Mutex
	used map[id.Commitment]struct{}
}

func NewInMemory() *InMemory {
	return &InMemory{used: make(map[id.Commitment]struct{})}
}

// MarkUsed atomically checks and marks a commitment. Returns ErrAlreadyUsed
// if it was already marked; a marked commitment is never reusable.
func (s *InMemory) MarkUsed(_ context.Context, c id.Commitment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.used[c]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.used[c] = struct{}{}
	return nil
}

// Release undoes a reservation. It exists solely so a failed synchronous
// dispatch inside an issuance request can restore pre-call state; no public
// operation ever unmarks a commitment.
func (s *InMemory) Release(_ context.Context, c id.Commitment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.used, c)
	return nil
}

// Used reports whether a commitment has been marked.
func (s *InMemory) Used(_ context.Context, c id.Commitment) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.used[c]
	return ok, nil
}
