package audit

import (
	"context"
	"time"

	id "civicred/pkg/domain"
)

// Publisher captures structured audit events. It is append-only and uses the
// store for persistence so tests can swap sinks easily. When an inbox channel
// is configured, emitted events are additionally queued for asynchronous sink
// delivery; the store write is the authoritative one and is fail-closed.
type Publisher struct {
	store Store
	inbox chan<- Event
}

type PublisherOption func(*Publisher)

// WithInbox queues every emitted event for asynchronous delivery, typically
// drained by a Worker into a kafka sink. The send is non-blocking: a full
// inbox drops the sink copy, never the store write.
func WithInbox(inbox chan<- Event) PublisherOption {
	return func(p *Publisher) {
		p.inbox = inbox
	}
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := p.store.Append(ctx, event); err != nil {
		return err
	}
	if p.inbox != nil {
		select {
		case p.inbox <- event:
		default:
		}
	}
	return nil
}

func (p *Publisher) List(ctx context.Context, registrationID id.RegistrationID) ([]Event, error) {
	return p.store.ListByRegistration(ctx, registrationID)
}
