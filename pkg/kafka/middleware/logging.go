package kafka_middleware

import (
	"context"
	"time"

	"reserva/pkg/kafka"
	"reserva/pkg/logger"
)

// PublishLogging logs every publish with its event metadata and latency.
func PublishLogging(log *logger.Logger) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		duration := time.Since(start)

		if err != nil {
			log.Error("Kafka publish failed",
				"key", msg.Key,
				"event_type", msg.Headers[kafka.HeaderEventType],
				"event_id", msg.Headers[kafka.HeaderEventID],
				"duration_ms", duration.Milliseconds(),
				"error", err,
			)
			return err
		}

		log.Debug("Kafka message published",
			"key", msg.Key,
			"event_type", msg.Headers[kafka.HeaderEventType],
			"event_id", msg.Headers[kafka.HeaderEventID],
			"duration_ms", duration.Milliseconds(),
		)
		return nil
	}
}
