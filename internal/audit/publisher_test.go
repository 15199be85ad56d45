package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	id "civicred/pkg/domain"
)

func TestEmitSetsTimestampAndPersists(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(store)

	err := pub.Emit(context.Background(), Event{
		Action:         ActionRegistrationSubmitted,
		RegistrationID: id.RegistrationID(1),
	})
	require.NoError(t, err)

	events := store.All()
	require.Len(t, events, 1)
	require.False(t, events[0].Timestamp.IsZero())
	require.Equal(t, ActionRegistrationSubmitted, events[0].Action)
}

func TestEmitQueuesToInbox(t *testing.T) {
	store := NewInMemoryStore()
	inbox := make(chan Event, 1)
	pub := NewPublisher(store, WithInbox(inbox))

	err := pub.Emit(context.Background(), Event{Action: ActionCredentialConsumed})
	require.NoError(t, err)

	select {
	case e := <-inbox:
		require.Equal(t, ActionCredentialConsumed, e.Action)
	default:
		t.Fatal("expected event in inbox")
	}
}

func TestEmitDoesNotBlockOnFullInbox(t *testing.T) {
	store := NewInMemoryStore()
	inbox := make(chan Event) // unbuffered, no reader
	pub := NewPublisher(store, WithInbox(inbox))

	err := pub.Emit(context.Background(), Event{Action: ActionCredentialIssued})
	require.NoError(t, err)
	require.Len(t, store.All(), 1)
}

func TestListByRegistration(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(store)
	ctx := context.Background()

	require.NoError(t, pub.Emit(ctx, Event{Action: ActionRegistrationSubmitted, RegistrationID: 1}))
	require.NoError(t, pub.Emit(ctx, Event{Action: ActionVerificationRequested, RegistrationID: 1}))
	require.NoError(t, pub.Emit(ctx, Event{Action: ActionRegistrationSubmitted, RegistrationID: 2}))

	events, err := pub.List(ctx, id.RegistrationID(1))
	require.NoError(t, err)
	require.Len(t, events, 2)
}

func TestHashCommitmentIsStableAndOpaque(t *testing.T) {
	h1 := HashCommitment("commitment-a")
	h2 := HashCommitment("commitment-a")
	require.Equal(t, h1, h2)
	require.NotContains(t, h1, "commitment")
	require.NotEqual(t, h1, HashCommitment("commitment-b"))
}
