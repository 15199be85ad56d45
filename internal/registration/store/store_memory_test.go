package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"civicred/internal/registration/models"
	id "civicred/pkg/domain"
	"civicred/pkg/platform/sentinel"
)

type RegistrationStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *RegistrationStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestRegistrationStoreSuite(t *testing.T) {
	suite.Run(t, new(RegistrationStoreSuite))
}

func testBundle() models.CiphertextBundle {
	return models.CiphertextBundle{
		NationalID:       id.Ciphertext("ct-national-id"),
		DateOfBirth:      id.Ciphertext("ct-dob"),
		AddressHash:      id.Ciphertext("ct-address"),
		EligibilityFlags: id.Ciphertext("ct-flags"),
	}
}

// TestSequentialIDs verifies ids are monotonic from 1 and never reused.
func (s *RegistrationStoreSuite) TestSequentialIDs() {
	first, err := s.store.Create(s.ctx, testBundle())
	s.Require().NoError(err)
	s.Equal(id.RegistrationID(1), first)

	second, err := s.store.Create(s.ctx, testBundle())
	s.Require().NoError(err)
	s.Equal(id.RegistrationID(2), second)
}

func (s *RegistrationStoreSuite) TestCreateAlsoCreatesEmptyCredential() {
	regID, err := s.store.Create(s.ctx, testBundle())
	s.Require().NoError(err)

	cred, err := s.store.GetCredential(s.ctx, regID)
	s.Require().NoError(err)
	s.False(cred.Issued)
	s.Empty(cred.Value)
}

func (s *RegistrationStoreSuite) TestGetUnknown() {
	_, err := s.store.Get(s.ctx, id.RegistrationID(99))
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.GetCredential(s.ctx, id.RegistrationID(99))
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RegistrationStoreSuite) TestSetStatusCheckAndSet() {
	regID, err := s.store.Create(s.ctx, testBundle())
	s.Require().NoError(err)

	s.Run("valid transition", func() {
		s.Require().NoError(s.store.SetStatus(s.ctx, regID, models.StatusPending, models.StatusVerified))
		reg, err := s.store.Get(s.ctx, regID)
		s.Require().NoError(err)
		s.Equal(models.StatusVerified, reg.Status)
	})

	s.Run("stale transition rejected", func() {
		err := s.store.SetStatus(s.ctx, regID, models.StatusPending, models.StatusIneligible)
		s.Require().ErrorIs(err, sentinel.ErrInvalidState)
	})

	s.Run("unknown id", func() {
		err := s.store.SetStatus(s.ctx, id.RegistrationID(99), models.StatusPending, models.StatusVerified)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

// TestMarkIssuedWriteOnce verifies the issued flag transitions at most once.
func (s *RegistrationStoreSuite) TestMarkIssuedWriteOnce() {
	regID, err := s.store.Create(s.ctx, testBundle())
	s.Require().NoError(err)

	s.Require().NoError(s.store.MarkIssued(s.ctx, regID, "ANON-1"))

	err = s.store.MarkIssued(s.ctx, regID, "ANON-2")
	s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)

	cred, err := s.store.GetCredential(s.ctx, regID)
	s.Require().NoError(err)
	s.True(cred.Issued)
	s.Equal("ANON-1", cred.Value)
}

func (s *RegistrationStoreSuite) TestMarkIssuedUnknown() {
	err := s.store.MarkIssued(s.ctx, id.RegistrationID(7), "ANON-1")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RegistrationStoreSuite) TestRecordsAreImmutableCopies() {
	regID, err := s.store.Create(s.ctx, testBundle())
	s.Require().NoError(err)

	reg, err := s.store.Get(s.ctx, regID)
	s.Require().NoError(err)
	reg.Status = models.StatusIneligible // mutate the copy only

	fresh, err := s.store.Get(s.ctx, regID)
	s.Require().NoError(err)
	s.Equal(models.StatusPending, fresh.Status)
}
