package model

import (
	"time"
)

const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

// Booking is a plain persisted record. All mutation goes through the
// repository; the struct itself carries no behavior beyond predicates.
type Booking struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	ServiceType string     `json:"service_type"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	Status      string     `json:"status"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

type CreateBookingRequest struct {
	ScheduledAt string `json:"scheduled_at" validate:"required"`
	ServiceType string `json:"service_type" validate:"required,min=2,max=100"`
}

// BookingView is the API representation: the stored record plus the
// scheduled date rendered in the service timezone.
type BookingView struct {
	Booking
	ScheduledAtFormatted string `json:"scheduled_at_formatted"`
}
