package guest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// LoadFacts returns the aggregation inputs for every booking of the
	// guest, regardless of status.
	LoadFacts(ctx context.Context, guestID string) ([]BookingFact, error)

	// Upsert writes the stats record, creating or replacing it. Idempotent.
	Upsert(ctx context.Context, s *Stats) error

	GetByGuest(ctx context.Context, guestID string) (*Stats, error)
}

type pgxRepository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewPgxRepository(pool *pgxpool.Pool, timeout time.Duration) Repository {
	return &pgxRepository{pool: pool, timeout: timeout}
}

func (r *pgxRepository) guard(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *pgxRepository) LoadFacts(ctx context.Context, guestID string) ([]BookingFact, error) {
	const query = `
		SELECT total_price, status, created_at
		FROM public.bookings
		WHERE guest_id = $1
	`

	ctx, cancel := r.guard(ctx)
	defer cancel()

	rows, err := r.pool.Query(ctx, query, guestID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrStoreUnavailable
		}
		return nil, fmt.Errorf("load booking facts failed: %w", err)
	}
	defer rows.Close()

	var facts []BookingFact
	for rows.Next() {
		var f BookingFact
		if err := rows.Scan(&f.TotalPrice, &f.Status, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan booking fact failed: %w", err)
		}
		facts = append(facts, f)
	}

	return facts, nil
}

func (r *pgxRepository) Upsert(ctx context.Context, s *Stats) error {
	const query = `
		INSERT INTO public.guest_stats
			(guest_id, total_bookings, completed_bookings, total_spent, last_booking_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (guest_id) DO UPDATE SET
			total_bookings = EXCLUDED.total_bookings,
			completed_bookings = EXCLUDED.completed_bookings,
			total_spent = EXCLUDED.total_spent,
			last_booking_date = EXCLUDED.last_booking_date,
			updated_at = now()
		RETURNING updated_at
	`

	ctx, cancel := r.guard(ctx)
	defer cancel()

	err := r.pool.QueryRow(ctx, query,
		s.GuestID, s.TotalBookings, s.CompletedBookings, s.TotalSpent, s.LastBookingDate,
	).Scan(&s.UpdatedAt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrStoreUnavailable
		}
		return fmt.Errorf("upsert guest stats failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByGuest(ctx context.Context, guestID string) (*Stats, error) {
	const query = `
		SELECT guest_id, total_bookings, completed_bookings, total_spent, last_booking_date, updated_at
		FROM public.guest_stats
		WHERE guest_id = $1
	`

	ctx, cancel := r.guard(ctx)
	defer cancel()

	var s Stats
	err := r.pool.QueryRow(ctx, query, guestID).Scan(
		&s.GuestID, &s.TotalBookings, &s.CompletedBookings, &s.TotalSpent, &s.LastBookingDate, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrStoreUnavailable
		}
		return nil, fmt.Errorf("get guest stats failed: %w", err)
	}
	return &s, nil
}
