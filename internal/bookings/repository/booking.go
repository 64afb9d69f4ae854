package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	bookingserrors "reserva/internal/bookings/errors"
	"reserva/pkg/config"
	"reserva/pkg/db/postgres"
	"reserva/pkg/model"
)

const bookingColumns = "id, owner_id, service_type, scheduled_at, status, cancelled_at, created_at, updated_at"

type BookingRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Booking, error)
	FindOwned(ctx context.Context, id, ownerID string) (*model.Booking, error)
	FindOwnedForUpdate(ctx context.Context, id, ownerID string) (*model.Booking, error)
	ListUpcomingActive(ctx context.Context, ownerID string, from time.Time, limit int) ([]*model.Booking, error)
	ListCancelled(ctx context.Context, ownerID string) ([]*model.Booking, error)
	ListCancelledForUpdate(ctx context.Context, ownerID string) ([]*model.Booking, error)
	Insert(ctx context.Context, booking *model.Booking) error
	MarkCancelled(ctx context.Context, id, ownerID string, cancelledAt time.Time) (*model.Booking, error)
	DeleteOwned(ctx context.Context, id, ownerID string) (*model.Booking, error)
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	CountCancelled(ctx context.Context, ownerID string) (int64, error)
	ExecuteTransaction(ctx context.Context, fn func(ctx context.Context, repo BookingRepository) error) error
}

type postgresBookingRepository struct {
	cfg       *config.Config
	db        postgres.DBTX
	txManager postgres.TransactionManager
	inTx      bool
}

func NewPostgresBookingRepository(cfg *config.Config) BookingRepository {
	pool := cfg.Client.Postgres
	return &postgresBookingRepository{
		cfg:       cfg,
		db:        pool,
		txManager: postgres.NewTransactionManager(pool),
	}
}

// withTimeout bounds a single statement. Inside a transaction the scope is
// left untouched so a statement timeout cannot abort sibling statements that
// already ran.
func (r *postgresBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if r.inTx {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *postgresBookingRepository) ListByOwner(ctx context.Context, ownerID string) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE owner_id = $1 ORDER BY scheduled_at ASC`, bookingColumns)
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return scanBookings(rows)
}

func (r *postgresBookingRepository) FindOwned(ctx context.Context, id, ownerID string) (*model.Booking, error) {
	return r.findOwned(ctx, id, ownerID, false)
}

func (r *postgresBookingRepository) FindOwnedForUpdate(ctx context.Context, id, ownerID string) (*model.Booking, error) {
	return r.findOwned(ctx, id, ownerID, true)
}

func (r *postgresBookingRepository) findOwned(ctx context.Context, id, ownerID string, forUpdate bool) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1 AND owner_id = $2`, bookingColumns)
	if forUpdate {
		query += " FOR UPDATE"
	}

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return booking, nil
}

func (r *postgresBookingRepository) ListUpcomingActive(ctx context.Context, ownerID string, from time.Time, limit int) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT %s FROM bookings
		WHERE owner_id = $1 AND status = $2 AND scheduled_at >= $3
		ORDER BY scheduled_at ASC
		LIMIT $4`, bookingColumns)

	rows, err := r.db.Query(ctx, query, ownerID, model.StatusActive, from, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming bookings: %w", err)
	}
	return scanBookings(rows)
}

func (r *postgresBookingRepository) ListCancelled(ctx context.Context, ownerID string) ([]*model.Booking, error) {
	return r.listCancelled(ctx, ownerID, false)
}

// ListCancelledForUpdate locks the owner's cancelled set so concurrent
// cancellations for the same owner serialize on the count-then-delete
// sequence. Other owners' rows are untouched.
func (r *postgresBookingRepository) ListCancelledForUpdate(ctx context.Context, ownerID string) ([]*model.Booking, error) {
	return r.listCancelled(ctx, ownerID, true)
}

func (r *postgresBookingRepository) listCancelled(ctx context.Context, ownerID string, forUpdate bool) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT %s FROM bookings
		WHERE owner_id = $1 AND status = $2
		ORDER BY cancelled_at ASC, id ASC`, bookingColumns)
	if forUpdate {
		query += " FOR UPDATE"
	}

	rows, err := r.db.Query(ctx, query, ownerID, model.StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to list cancelled bookings: %w", err)
	}
	return scanBookings(rows)
}

func (r *postgresBookingRepository) Insert(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.ID = uuid.New().String()
	booking.Status = model.StatusActive
	booking.CancelledAt = nil
	booking.CreatedAt = now
	booking.UpdatedAt = now

	query := `
		INSERT INTO bookings (id, owner_id, service_type, scheduled_at, status, cancelled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.OwnerID,
		booking.ServiceType,
		booking.ScheduledAt,
		booking.Status,
		booking.CancelledAt,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (r *postgresBookingRepository) MarkCancelled(ctx context.Context, id, ownerID string, cancelledAt time.Time) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	query := fmt.Sprintf(`
		UPDATE bookings
		SET status = $1, cancelled_at = $2, updated_at = $2
		WHERE id = $3 AND owner_id = $4 AND status = $5
		RETURNING %s`, bookingColumns)

	booking, err := scanBooking(r.db.QueryRow(ctx, query,
		model.StatusCancelled, cancelledAt.UTC(), id, ownerID, model.StatusActive,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}
	return booking, nil
}

func (r *postgresBookingRepository) DeleteOwned(ctx context.Context, id, ownerID string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	query := fmt.Sprintf(`DELETE FROM bookings WHERE id = $1 AND owner_id = $2 RETURNING %s`, bookingColumns)

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete booking: %w", err)
	}
	return booking, nil
}

func (r *postgresBookingRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete bookings: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *postgresBookingRepository) CountCancelled(ctx context.Context, ownerID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE owner_id = $1 AND status = $2`,
		ownerID, model.StatusCancelled,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count cancelled bookings: %w", err)
	}
	return count, nil
}

// ExecuteTransaction runs fn against a repository bound to the open
// transaction. Every repository call fn makes shares the same scope, so the
// cancel-count-delete sequence commits or rolls back as one unit.
func (r *postgresBookingRepository) ExecuteTransaction(ctx context.Context, fn func(ctx context.Context, repo BookingRepository) error) error {
	return r.txManager.ExecuteTransaction(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		txRepo := &postgresBookingRepository{
			cfg:       r.cfg,
			db:        tx,
			txManager: r.txManager,
			inTx:      true,
		}
		return fn(txCtx, txRepo)
	})
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID,
		&b.OwnerID,
		&b.ServiceType,
		&b.ScheduledAt,
		&b.Status,
		&b.CancelledAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func scanBookings(rows pgx.Rows) ([]*model.Booking, error) {
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to decode booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read booking rows: %w", err)
	}
	return bookings, nil
}
