package services

import (
	"context"

	"notesapp/internal/messaging"
	"notesapp/internal/metrics"

	"go.uber.org/zap"
)

// eventEmitter publishes domain events on a best-effort basis. A broker
// failure is logged and counted but never fails the calling operation.
type eventEmitter struct {
	publisher messaging.Publisher
	metrics   *metrics.Metrics
	log       *zap.Logger
}

func (e eventEmitter) emit(ctx context.Context, event messaging.Event) {
	if e.publisher == nil {
		return
	}
	status := "ok"
	if err := e.publisher.Publish(ctx, event); err != nil {
		status = "error"
		e.log.Warn("Failed to publish event", zap.String("type", event.Type), zap.Error(err))
	}
	if e.metrics != nil {
		e.metrics.EventsPublished.WithLabelValues(event.Type, status).Inc()
	}
}
