package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"civicred/internal/audit"
	commitstore "civicred/internal/commitment/store"
	dErrors "civicred/pkg/domain-errors"
)

func TestConsume(t *testing.T) {
	commitments := commitstore.NewInMemory()
	auditStore := audit.NewInMemoryStore()
	svc := New(commitments, WithAuditPublisher(audit.NewPublisher(auditStore)))
	ctx := context.Background()

	require.NoError(t, svc.Consume(ctx, "commitment-a"))

	used, err := commitments.Used(ctx, "commitment-a")
	require.NoError(t, err)
	require.True(t, used)

	events := auditStore.All()
	require.Len(t, events, 1)
	require.Equal(t, audit.ActionCredentialConsumed, events[0].Action)
	require.Equal(t, audit.HashCommitment("commitment-a"), events[0].CommitmentHash)
}

func TestConsumeTwice(t *testing.T) {
	svc := New(commitstore.NewInMemory())
	ctx := context.Background()

	require.NoError(t, svc.Consume(ctx, "commitment-a"))

	err := svc.Consume(ctx, "commitment-a")
	require.True(t, dErrors.HasCode(err, dErrors.CodeAlreadyConsumed))
}

func TestConsumeRequiresCommitment(t *testing.T) {
	svc := New(commitstore.NewInMemory())

	err := svc.Consume(context.Background(), "")
	require.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestConsumeSharedRegistryWithIssuance(t *testing.T) {
	commitments := commitstore.NewInMemory()
	svc := New(commitments)
	ctx := context.Background()

	// A commitment reserved by the issuance side is already spent from the
	// ballot gate's point of view.
	require.NoError(t, commitments.MarkUsed(ctx, "commitment-issued"))

	err := svc.Consume(ctx, "commitment-issued")
	require.True(t, dErrors.HasCode(err, dErrors.CodeAlreadyConsumed))
}
