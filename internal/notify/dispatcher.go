package notify

import (
	"context"
	"log/slog"
	"time"
)

// Notifier is what the lifecycle services see: a fire-and-forget dispatch
// attempt per transition.
type Notifier interface {
	Dispatch(recipientID string, event Event)
}

// Publisher delivers an event to a recipient. Implementations must not be
// relied on for correctness: delivery is best-effort, at-least-one-attempt.
type Publisher interface {
	Publish(ctx context.Context, recipientID string, event Event) error
}

// Store keeps a copy of the event in the recipient's inbox so it survives the
// recipient being offline.
type Store interface {
	Save(ctx context.Context, event Event) error
}

// Dispatcher fans lifecycle events out to booking parties without ever
// blocking or failing the transition that produced them. Store and publish
// errors are logged and discarded.
type Dispatcher struct {
	publisher Publisher
	store     Store
	logger    *slog.Logger
	timeout   time.Duration
}

func NewDispatcher(publisher Publisher, store Store, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		publisher: publisher,
		store:     store,
		logger:    logger,
		timeout:   5 * time.Second,
	}
}

// Dispatch attempts delivery in the background. The event timestamp is
// stamped here so callers only describe the transition.
func (d *Dispatcher) Dispatch(recipientID string, event Event) {
	event.ToUserID = recipientID
	event.Timestamp = time.Now()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if d.store != nil {
			if err := d.store.Save(ctx, event); err != nil {
				d.logger.Warn("notification store failed",
					"recipient", recipientID,
					"type", event.Type,
					"error", err)
			}
		}

		if err := d.publisher.Publish(ctx, recipientID, event); err != nil {
			d.logger.Warn("notification dispatch failed",
				"recipient", recipientID,
				"type", event.Type,
				"booking_id", event.BookingID,
				"error", err)
		}
	}()
}
