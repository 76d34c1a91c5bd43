package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Get(ctx context.Context) (*Settings, error)
	Update(ctx context.Context, s *Settings) error
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

func (r *pgxRepository) Get(ctx context.Context) (*Settings, error) {
	const query = `
		SELECT min_booking_length, max_booking_length, max_guests_per_booking,
		       breakfast_price, pet_fee, allow_pets, parking_fee, parking_included,
		       early_check_in_fee, late_check_out_fee,
		       require_deposit, deposit_percentage, updated_at
		FROM public.settings
		WHERE id = 1
	`

	ctx, cancel := r.guard(ctx)
	defer cancel()

	var s Settings
	err := r.pool.QueryRow(ctx, query).Scan(
		&s.MinBookingLength, &s.MaxBookingLength, &s.MaxGuestsPerBooking,
		&s.BreakfastPrice, &s.PetFee, &s.AllowPets, &s.ParkingFee, &s.ParkingIncluded,
		&s.EarlyCheckInFee, &s.LateCheckOutFee,
		&s.RequireDeposit, &s.DepositPercentage, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrStoreUnavailable
		}
		return nil, fmt.Errorf("get settings failed: %w", err)
	}
	return &s, nil
}

func (r *pgxRepository) Update(ctx context.Context, s *Settings) error {
	const query = `
		UPDATE public.settings
		SET min_booking_length = $1, max_booking_length = $2, max_guests_per_booking = $3,
		    breakfast_price = $4, pet_fee = $5, allow_pets = $6,
		    parking_fee = $7, parking_included = $8,
		    early_check_in_fee = $9, late_check_out_fee = $10,
		    require_deposit = $11, deposit_percentage = $12, updated_at = now()
		WHERE id = 1
		RETURNING updated_at
	`

	ctx, cancel := r.guard(ctx)
	defer cancel()

	err := r.pool.QueryRow(ctx, query,
		s.MinBookingLength, s.MaxBookingLength, s.MaxGuestsPerBooking,
		s.BreakfastPrice, s.PetFee, s.AllowPets, s.ParkingFee, s.ParkingIncluded,
		s.EarlyCheckInFee, s.LateCheckOutFee,
		s.RequireDeposit, s.DepositPercentage,
	).Scan(&s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrStoreUnavailable
		}
		return fmt.Errorf("update settings failed: %w", err)
	}
	return nil
}
