package service

import (
	"context"
	"errors"
	"time"

	bookingserrors "reserva/internal/bookings/errors"
	"reserva/internal/bookings/repository"
	"reserva/internal/bookings/retention"
	"reserva/internal/bookings/validator"
	"reserva/pkg/config"
	"reserva/pkg/datefmt"
	apperrors "reserva/pkg/errors"
	"reserva/pkg/model"
	"reserva/pkg/sanitizer"
)

const upcomingLimit = 5

// Notifier is the notification collaborator. Failures are logged, never
// propagated: a booking workflow must not depend on email delivery.
type Notifier interface {
	NotifyBookingCreated(ctx context.Context, email, displayName, serviceType, formattedDate string) error
	NotifyBookingCancelled(ctx context.Context, email, displayName, serviceType, formattedDate string) error
}

// EventPublisher emits lifecycle events post-commit, best-effort.
type EventPublisher interface {
	BookingCreated(ctx context.Context, booking *model.Booking)
	BookingCancelled(ctx context.Context, booking *model.Booking)
}

type BookingService interface {
	Create(ctx context.Context, owner *model.Identity, req *model.CreateBookingRequest) (*model.Booking, bool, error)
	GetByID(ctx context.Context, id, ownerID string) (*model.Booking, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Booking, error)
	ListUpcoming(ctx context.Context, ownerID string) ([]*model.Booking, error)
	ListCancelled(ctx context.Context, ownerID string) ([]*model.Booking, error)
	Cancel(ctx context.Context, id string, owner *model.Identity) (*model.Booking, bool, error)
	Delete(ctx context.Context, id, ownerID string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	validator *validator.BookingValidator
	notifier  Notifier
	events    EventPublisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	validator *validator.BookingValidator,
	notifier Notifier,
	events EventPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		validator: validator,
		notifier:  notifier,
		events:    events,
		cfg:       cfg,
	}
}

// Create parses the caller-supplied wall-clock date in the service timezone,
// inserts the booking, then notifies creation best-effort. The returned bool
// reports whether the notification was delivered.
func (s *bookingService) Create(ctx context.Context, owner *model.Identity, req *model.CreateBookingRequest) (*model.Booking, bool, error) {
	req.ServiceType = sanitizer.SanitizeServiceType(req.ServiceType)

	if err := s.validator.ValidateCreate(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "owner_id", owner.UserID, "error", err)
		return nil, false, apperrors.Validation("Invalid booking input", map[string]any{"error": err.Error()})
	}

	scheduledAt, err := datefmt.ParseLocalInZone(req.ScheduledAt, s.cfg.Location)
	if err != nil {
		return nil, false, apperrors.Validation("Invalid scheduled date", map[string]any{
			"scheduled_at": req.ScheduledAt,
			"error":        err.Error(),
		})
	}

	booking := &model.Booking{
		OwnerID:     owner.UserID,
		ServiceType: req.ServiceType,
		ScheduledAt: scheduledAt,
	}

	if err := s.repo.Insert(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create booking", "owner_id", owner.UserID, "error", err)
		return nil, false, apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"owner_id", booking.OwnerID,
		"service_type", booking.ServiceType,
		"scheduled_at", booking.ScheduledAt,
	)

	notified := s.notifyCreated(ctx, owner, booking)
	s.events.BookingCreated(ctx, booking)

	return booking, notified, nil
}

func (s *bookingService) GetByID(ctx context.Context, id, ownerID string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindOwned(ctx, id, ownerID)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}
	return booking, nil
}

func (s *bookingService) ListByOwner(ctx context.Context, ownerID string) ([]*model.Booking, error) {
	bookings, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "owner_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) ListUpcoming(ctx context.Context, ownerID string) ([]*model.Booking, error) {
	from := datefmt.StartOfDay(time.Now(), s.cfg.Location)
	bookings, err := s.repo.ListUpcomingActive(ctx, ownerID, from, upcomingLimit)
	if err != nil {
		s.cfg.Log.Error("Failed to list upcoming bookings", "owner_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve upcoming bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) ListCancelled(ctx context.Context, ownerID string) ([]*model.Booking, error) {
	bookings, err := s.repo.ListCancelled(ctx, ownerID)
	if err != nil {
		s.cfg.Log.Error("Failed to list cancelled bookings", "owner_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve cancelled bookings", err)
	}
	return bookings, nil
}

// Cancel transitions the booking to cancelled and trims the owner's cancelled
// set down to the retention limit, all in one transaction. The booking row
// and the owner's cancelled rows are locked for the duration so concurrent
// cancellations for the same owner cannot jointly exceed the limit.
// Notification happens after commit and never fails the operation.
func (s *bookingService) Cancel(ctx context.Context, id string, owner *model.Identity) (*model.Booking, bool, error) {
	if id == "" {
		return nil, false, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	var cancelled *model.Booking
	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context, txRepo repository.BookingRepository) error {
		existing, err := txRepo.FindOwnedForUpdate(txCtx, id, owner.UserID)
		if err != nil {
			return s.mapLookupError(err, id)
		}
		if existing.IsCancelled() {
			return apperrors.InvalidState("Booking is already cancelled")
		}

		updated, err := txRepo.MarkCancelled(txCtx, id, owner.UserID, time.Now().UTC())
		if err != nil {
			return s.mapLookupError(err, id)
		}

		retained, err := txRepo.ListCancelledForUpdate(txCtx, owner.UserID)
		if err != nil {
			return apperrors.Internal("Failed to load cancelled bookings", err)
		}

		if excess := retention.Excess(retained, s.cfg.RetentionLimit); len(excess) > 0 {
			deleted, err := txRepo.DeleteMany(txCtx, excess)
			if err != nil {
				return apperrors.Internal("Failed to purge old cancelled bookings", err)
			}
			s.cfg.Log.Info("Purged cancelled bookings over retention limit",
				"owner_id", owner.UserID,
				"deleted", deleted,
				"retention_limit", s.cfg.RetentionLimit,
			)
		}

		cancelled = updated
		return nil
	})
	if err != nil {
		if !apperrors.IsAppError(err) {
			err = apperrors.Internal("Failed to cancel booking", err)
		}
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "owner_id", owner.UserID, "error", err)
		return nil, false, err
	}

	s.cfg.Log.Info("Booking cancelled successfully",
		"id", cancelled.ID,
		"owner_id", cancelled.OwnerID,
		"cancelled_at", cancelled.CancelledAt,
	)

	notified := s.notifyCancelled(ctx, owner, cancelled)
	s.events.BookingCancelled(ctx, cancelled)

	return cancelled, notified, nil
}

func (s *bookingService) Delete(ctx context.Context, id, ownerID string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	deleted, err := s.repo.DeleteOwned(ctx, id, ownerID)
	if err != nil {
		return s.mapLookupError(err, id)
	}

	s.cfg.Log.Info("Booking deleted successfully", "id", deleted.ID, "owner_id", deleted.OwnerID)
	return nil
}

// --- Helpers ---

func (s *bookingService) mapLookupError(err error, id string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal("Failed to access booking", err)
}

func (s *bookingService) notifyCreated(ctx context.Context, owner *model.Identity, booking *model.Booking) bool {
	if owner.Email == "" {
		return false
	}
	formatted := datefmt.FormatInZone(booking.ScheduledAt, s.cfg.Location)
	name := sanitizer.SanitizeDisplayName(owner.DisplayName)
	if err := s.notifier.NotifyBookingCreated(ctx, owner.Email, name, booking.ServiceType, formatted); err != nil {
		s.cfg.Log.Warn("Booking created but notification undelivered",
			"id", booking.ID,
			"owner_id", booking.OwnerID,
			"error", err,
		)
		return false
	}
	return true
}

func (s *bookingService) notifyCancelled(ctx context.Context, owner *model.Identity, booking *model.Booking) bool {
	if owner.Email == "" {
		return false
	}
	formatted := datefmt.FormatInZone(booking.ScheduledAt, s.cfg.Location)
	name := sanitizer.SanitizeDisplayName(owner.DisplayName)
	if err := s.notifier.NotifyBookingCancelled(ctx, owner.Email, name, booking.ServiceType, formatted); err != nil {
		s.cfg.Log.Warn("Booking cancelled but notification undelivered",
			"id", booking.ID,
			"owner_id", booking.OwnerID,
			"error", err,
		)
		return false
	}
	return true
}
