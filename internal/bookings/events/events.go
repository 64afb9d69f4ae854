package events

import (
	"context"
	"time"

	"reserva/pkg/kafka"
	"reserva/pkg/logger"
	"reserva/pkg/model"
)

const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"

	schemaVersion = "1"
	source        = "bookings-service"
)

// BookingEvent is the payload published for booking lifecycle transitions.
type BookingEvent struct {
	BookingID   string     `json:"booking_id"`
	OwnerID     string     `json:"owner_id"`
	ServiceType string     `json:"service_type"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	Status      string     `json:"status"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	OccurredAt  time.Time  `json:"occurred_at"`
}

// Publisher emits booking lifecycle events after commit. Publishing is
// best-effort: failures are logged and never surfaced to the caller. A nil
// Publisher is valid and publishes nothing, which is how the service runs
// with Kafka disabled.
type Publisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewPublisher(producer *kafka.Producer, log *logger.Logger) *Publisher {
	return &Publisher{producer: producer, log: log}
}

func (p *Publisher) BookingCreated(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, EventBookingCreated, booking)
}

func (p *Publisher) BookingCancelled(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, EventBookingCancelled, booking)
}

func (p *Publisher) publish(ctx context.Context, eventType string, booking *model.Booking) {
	if p == nil || p.producer == nil {
		return
	}

	// Keyed by owner so one owner's events stay in order.
	msg := kafka.NewMessage().
		WithKey(booking.OwnerID).
		WithValue(BookingEvent{
			BookingID:   booking.ID,
			OwnerID:     booking.OwnerID,
			ServiceType: booking.ServiceType,
			ScheduledAt: booking.ScheduledAt,
			Status:      booking.Status,
			CancelledAt: booking.CancelledAt,
			OccurredAt:  time.Now().UTC(),
		}).
		WithEventID("").
		WithEventType(eventType).
		WithSchemaVersion(schemaVersion).
		WithSource(source).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}
