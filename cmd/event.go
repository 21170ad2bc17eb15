package cmd

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/job-board/internal/core/events"
	"github.com/frahmantamala/job-board/internal/transport/metrics"
)

var observedEvents = []string{
	events.EventTypeApplicationSubmitted,
	events.EventTypeApplicationStatusChanged,
	events.EventTypeJobStatusChanged,
}

// newEventBus returns the process event bus with the logging and metrics
// observers attached to every domain event.
func newEventBus(logger *slog.Logger) *events.EventBus {
	eventBus := events.NewEventBus(logger)

	for _, eventType := range observedEvents {
		eventBus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
			logger.InfoContext(ctx, "domain event",
				"event_id", event.EventID(),
				"event_type", event.EventType(),
				"payload", event.Payload())
			return nil
		})
		eventBus.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			metrics.EventsHandledTotal.WithLabelValues(event.EventType()).Inc()
			return nil
		})
	}
	return eventBus
}
