package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"civicred/internal/audit"
	"civicred/internal/registration/models"
	"civicred/internal/registration/store"
	id "civicred/pkg/domain"
	dErrors "civicred/pkg/domain-errors"
)

func validBundle() models.CiphertextBundle {
	return models.CiphertextBundle{
		NationalID:       id.Ciphertext("ct-nid"),
		DateOfBirth:      id.Ciphertext("ct-dob"),
		AddressHash:      id.Ciphertext("ct-addr"),
		EligibilityFlags: id.Ciphertext("ct-flags"),
	}
}

func TestSubmit(t *testing.T) {
	registrations := store.NewInMemory()
	auditStore := audit.NewInMemoryStore()
	svc := New(registrations, WithAuditPublisher(audit.NewPublisher(auditStore)))
	ctx := context.Background()

	regID, err := svc.Submit(ctx, validBundle())
	require.NoError(t, err)
	require.Equal(t, id.RegistrationID(1), regID)

	reg, err := registrations.Get(ctx, regID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, reg.Status)

	events, err := auditStore.ListByRegistration(ctx, regID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, audit.ActionRegistrationSubmitted, events[0].Action)
}

func TestSubmitAllocatesDistinctIDs(t *testing.T) {
	svc := New(store.NewInMemory())
	ctx := context.Background()

	first, err := svc.Submit(ctx, validBundle())
	require.NoError(t, err)
	second, err := svc.Submit(ctx, validBundle())
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestSubmitRejectsMissingHandles(t *testing.T) {
	svc := New(store.NewInMemory())
	ctx := context.Background()

	for name, mutate := range map[string]func(*models.CiphertextBundle){
		"national id":       func(b *models.CiphertextBundle) { b.NationalID = nil },
		"date of birth":     func(b *models.CiphertextBundle) { b.DateOfBirth = nil },
		"address hash":      func(b *models.CiphertextBundle) { b.AddressHash = nil },
		"eligibility flags": func(b *models.CiphertextBundle) { b.EligibilityFlags = nil },
	} {
		bundle := validBundle()
		mutate(&bundle)
		_, err := svc.Submit(ctx, bundle)
		require.True(t, dErrors.HasCode(err, dErrors.CodeValidation), "missing %s must be rejected", name)
	}
}
