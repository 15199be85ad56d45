package oracle

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	id "civicred/pkg/domain"
	"civicred/pkg/platform/sentinel"
)

type PendingStoreSuite struct {
	suite.Suite
	store *InMemoryPendingStore
	ctx   context.Context
}

func (s *PendingStoreSuite) SetupTest() {
	s.store = NewInMemoryPendingStore()
	s.ctx = context.Background()
}

func TestPendingStoreSuite(t *testing.T) {
	suite.Run(t, new(PendingStoreSuite))
}

func (s *PendingStoreSuite) TestCreateAndGet() {
	pending := PendingRequest{RequestID: "req-1", Kind: KindVerification, RegistrationID: 1}
	s.Require().NoError(s.store.Create(s.ctx, pending))

	got, err := s.store.Get(s.ctx, "req-1", KindVerification)
	s.Require().NoError(err)
	s.Equal(id.RegistrationID(1), got.RegistrationID)
	s.False(got.CreatedAt.IsZero())
}

func (s *PendingStoreSuite) TestCreateRejectsDuplicate() {
	pending := PendingRequest{RequestID: "req-1", Kind: KindIssuance, RegistrationID: 1}
	s.Require().NoError(s.store.Create(s.ctx, pending))

	err := s.store.Create(s.ctx, pending)
	s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
}

// TestKindsDoNotCollide verifies a verification entry can never resolve an
// issuance callback and vice versa.
func (s *PendingStoreSuite) TestKindsDoNotCollide() {
	s.Require().NoError(s.store.Create(s.ctx, PendingRequest{
		RequestID: "req-1", Kind: KindVerification, RegistrationID: 1,
	}))

	_, err := s.store.Get(s.ctx, "req-1", KindIssuance)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	err = s.store.Take(s.ctx, "req-1", KindIssuance)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PendingStoreSuite) TestTakeConsumesExactlyOnce() {
	s.Require().NoError(s.store.Create(s.ctx, PendingRequest{
		RequestID: "req-1", Kind: KindVerification, RegistrationID: 1,
	}))

	s.Require().NoError(s.store.Take(s.ctx, "req-1", KindVerification))

	err := s.store.Take(s.ctx, "req-1", KindVerification)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.Get(s.ctx, "req-1", KindVerification)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PendingStoreSuite) TestGetDoesNotConsume() {
	s.Require().NoError(s.store.Create(s.ctx, PendingRequest{
		RequestID: "req-1", Kind: KindVerification, RegistrationID: 1,
	}))

	for i := 0; i < 3; i++ {
		_, err := s.store.Get(s.ctx, "req-1", KindVerification)
		s.Require().NoError(err)
	}
}

// TestConcurrentTake verifies exactly one of many racing consumers wins.
func (s *PendingStoreSuite) TestConcurrentTake() {
	s.Require().NoError(s.store.Create(s.ctx, PendingRequest{
		RequestID: "contested", Kind: KindIssuance, RegistrationID: 1,
	}))

	const goroutines = 50
	var wg sync.WaitGroup
	results := make(chan error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.store.Take(s.ctx, "contested", KindIssuance)
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
		}
	}
	s.Equal(1, wins)
}
