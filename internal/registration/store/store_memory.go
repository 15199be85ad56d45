package store

import (
	"context"
	"sync"
	"time"

	"civicred/internal/registration/models"
	id "civicred/pkg/domain"
	"civicred/pkg/platform/sentinel"
)

// InMemory holds registration and credential records in arena-style tables
// keyed by monotonically increasing identifiers. The mutex is the
// transactional boundary: every mutation is a single critical section, so a
// failed call leaves both tables untouched.
type InMemory struct {
	mu            sync.RWMutex
	nextID        id.RegistrationID
	registrations map[id.RegistrationID]models.EncryptedRegistration
	credentials   map[id.RegistrationID]models.CredentialRecord
}

func NewInMemory() *InMemory {
	return &InMemory{
		nextID:        1,
		registrations: make(map[id.RegistrationID]models.EncryptedRegistration),
		credentials:   make(map[id.RegistrationID]models.CredentialRecord),
	}
}

// Create allocates the next sequential id and stores the immutable record
// plus its empty credential slot atomically.
func (s *InMemory) Create(_ context.Context, ciphertexts models.CiphertextBundle) (id.RegistrationID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	regID := s.nextID
	s.nextID++

	s.registrations[regID] = models.EncryptedRegistration{
		ID:          regID,
		Ciphertexts: ciphertexts,
		Status:      models.StatusPending,
		CreatedAt:   time.Now(),
	}
	s.credentials[regID] = models.CredentialRecord{RegistrationID: regID}
	return regID, nil
}

func (s *InMemory) Get(_ context.Context, regID id.RegistrationID) (*models.EncryptedRegistration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.registrations[regID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &reg, nil
}

// SetStatus performs a check-and-set transition. Returns ErrNotFound for an
// unknown id and ErrInvalidState when the current status is not `from`.
func (s *InMemory) SetStatus(_ context.Context, regID id.RegistrationID, from, to models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.registrations[regID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if reg.Status != from {
		return sentinel.ErrInvalidState
	}
	reg.Status = to
	s.registrations[regID] = reg
	return nil
}

func (s *InMemory) GetCredential(_ context.Context, regID id.RegistrationID) (*models.CredentialRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.credentials[regID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &cred, nil
}

// MarkIssued writes the credential value and flips the issued flag. The flag
// is write-once: a second call returns ErrAlreadyUsed.
func (s *InMemory) MarkIssued(_ context.Context, regID id.RegistrationID, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.credentials[regID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if cred.Issued {
		return sentinel.ErrAlreadyUsed
	}
	cred.Value = value
	cred.Issued = true
	s.credentials[regID] = cred
	return nil
}
