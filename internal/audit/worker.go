package audit

import (
	"context"
	"log/slog"
)

// Worker drains emitted events from a channel into a sink. It keeps sink
// latency (kafka round trips) off the request path: the publisher's store
// write already happened by the time an event reaches the inbox.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run pumps events until the context is cancelled. Sink failures are logged
// and skipped; the store copy is authoritative.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Publish(ctx, event); err != nil {
				w.logger.WarnContext(ctx, "audit sink publish failed",
					"action", event.Action,
					"error", err,
				)
			}
		}
	}
}
