package audit

import (
	"context"
	"log/slog"
)

// Worker drains a recorder and persists its events. Persisting failures are
// logged and skipped rather than halting the drain; losing one audit write is
// preferable to backing up every manifest operation behind a dead sink.
type Worker struct {
	store  Store
	events <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, events <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, events: events, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.events:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "audit append failed",
					"action", string(event.Action),
					"manifest_id", event.ManifestID,
					"error", err.Error(),
				)
			}
		}
	}
}
