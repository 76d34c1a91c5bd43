package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// errDuplicateRequest signals an idempotency-key collision on insert: the
// same reservation request was already accepted once. The service resolves
// it by returning the previously created booking.
var errDuplicateRequest = errors.New("duplicate reservation request")

type Repository interface {
	// Create inserts the booking. The store-level exclusion constraint on
	// (cabin, active daterange) turns a racing insert for overlapping dates
	// into ErrDateConflict, closing the check-then-act gap.
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	Update(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id string) error

	// HasConflict checks whether any non-cancelled booking for the cabin
	// overlaps the half-open range [checkIn, checkOut).
	// excludeBookingID is used during updates to ignore the booking itself.
	HasConflict(ctx context.Context, cabinID string, checkIn, checkOut time.Time, excludeBookingID string) (bool, error)
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

var bookingColumns = []string{
	"b.id", "b.cabin_id", "c.name", "b.guest_id",
	"b.check_in_date", "b.check_out_date", "b.num_nights", "b.num_guests",
	"b.status", "b.cabin_price", "b.extras_price", "b.total_price",
	"b.has_breakfast", "b.has_pets", "b.has_parking", "b.early_check_in", "b.late_check_out",
	"b.is_paid", "b.deposit_paid", "b.deposit_amount",
	"b.check_in_time", "b.check_out_time",
	"b.observations", "b.special_requests",
	"b.idempotency_key", "b.created_at", "b.updated_at",
}

func scanBooking(row pgx.Row, b *Booking, extra ...any) error {
	var idemKey *string
	dest := []any{
		&b.ID, &b.CabinID, &b.CabinName, &b.GuestID,
		&b.CheckInDate, &b.CheckOutDate, &b.NumNights, &b.NumGuests,
		&b.Status, &b.CabinPrice, &b.ExtrasPrice, &b.TotalPrice,
		&b.Extras.Breakfast, &b.Extras.Pets, &b.Extras.Parking, &b.Extras.EarlyCheckIn, &b.Extras.LateCheckOut,
		&b.IsPaid, &b.DepositPaid, &b.DepositAmount,
		&b.CheckInTime, &b.CheckOutTime,
		&b.Observations, &b.SpecialRequests,
		&idemKey, &b.CreatedAt, &b.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	if idemKey != nil {
		b.IdempotencyKey = *idemKey
	}
	return nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	var idemKey *string
	if b.IdempotencyKey != "" {
		idemKey = &b.IdempotencyKey
	}

	query, args, err := psql.Insert("public.bookings").
		Columns(
			"cabin_id", "guest_id", "check_in_date", "check_out_date",
			"num_nights", "num_guests", "status",
			"cabin_price", "extras_price", "total_price",
			"has_breakfast", "has_pets", "has_parking", "early_check_in", "late_check_out",
			"is_paid", "deposit_paid", "deposit_amount",
			"observations", "special_requests", "idempotency_key",
		).
		Values(
			b.CabinID, b.GuestID, b.CheckInDate, b.CheckOutDate,
			b.NumNights, b.NumGuests, b.Status,
			b.CabinPrice, b.ExtrasPrice, b.TotalPrice,
			b.Extras.Breakfast, b.Extras.Pets, b.Extras.Parking, b.Extras.EarlyCheckIn, b.Extras.LateCheckOut,
			b.IsPaid, b.DepositPaid, b.DepositAmount,
			b.Observations, b.SpecialRequests, idemKey,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	ctx, cancel := r.guard(ctx)
	defer cancel()

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return classifyWriteErr("create booking", err)
	}
	return nil
}

// classifyWriteErr maps constraint violations and timeouts on booking writes
// to domain errors.
func classifyWriteErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.ExclusionViolation:
			// The (cabin, active daterange) exclusion constraint is the
			// canonical conflict signal under concurrency.
			return ErrDateConflict
		case pgerrcode.UniqueViolation:
			return errDuplicateRequest
		case pgerrcode.ForeignKeyViolation:
			return ErrCabinNotFound
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrStoreUnavailable
	}
	return fmt.Errorf("%s failed: %w", op, err)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	return r.getWhere(ctx, squirrel.Eq{"b.id": id})
}

func (r *pgxRepository) GetByIdempotencyKey(ctx context.Context, key string) (*Booking, error) {
	return r.getWhere(ctx, squirrel.Eq{"b.idempotency_key": key})
}

func (r *pgxRepository) getWhere(ctx context.Context, pred any) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings b").
		Join("public.cabins c ON b.cabin_id = c.id").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	ctx, cancel := r.guard(ctx)
	defer cancel()

	var b Booking
	if err := scanBooking(r.pool.QueryRow(ctx, query, args...), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrStoreUnavailable
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	columns := append(append([]string{}, bookingColumns...), "count(*) OVER() as total_count")
	query := psql.Select(columns...).
		From("public.bookings b").
		Join("public.cabins c ON b.cabin_id = c.id")

	if filter.GuestID != "" {
		query = query.Where(squirrel.Eq{"b.guest_id": filter.GuestID})
	}
	if filter.CabinID != "" {
		query = query.Where(squirrel.Eq{"b.cabin_id": filter.CabinID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}
	// Date window filtering (intersection logic)
	if filter.DateFrom != nil {
		query = query.Where(squirrel.GtOrEq{"b.check_out_date": filter.DateFrom})
	}
	if filter.DateTo != nil {
		query = query.Where(squirrel.LtOrEq{"b.check_in_date": filter.DateTo})
	}

	orderBy := "b.check_in_date"
	switch filter.SortBy {
	case "check_in_date", "check_out_date", "created_at", "status", "total_price":
		orderBy = "b." + filter.SortBy
	}
	orderDir := "DESC"
	if filter.SortOrder == "ASC" || filter.SortOrder == "asc" {
		orderDir = "ASC"
	}
	query = query.OrderBy(orderBy + " " + orderDir)

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	ctx, cancel := r.guard(ctx)
	defer cancel()

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, 0, ErrStoreUnavailable
		}
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		var b Booking
		if err := scanBooking(rows, &b, &total); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}

	return bookings, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("check_in_date", b.CheckInDate).
		Set("check_out_date", b.CheckOutDate).
		Set("num_nights", b.NumNights).
		Set("num_guests", b.NumGuests).
		Set("status", b.Status).
		Set("cabin_price", b.CabinPrice).
		Set("extras_price", b.ExtrasPrice).
		Set("total_price", b.TotalPrice).
		Set("has_breakfast", b.Extras.Breakfast).
		Set("has_pets", b.Extras.Pets).
		Set("has_parking", b.Extras.Parking).
		Set("early_check_in", b.Extras.EarlyCheckIn).
		Set("late_check_out", b.Extras.LateCheckOut).
		Set("is_paid", b.IsPaid).
		Set("deposit_paid", b.DepositPaid).
		Set("deposit_amount", b.DepositAmount).
		Set("check_in_time", b.CheckInTime).
		Set("check_out_time", b.CheckOutTime).
		Set("observations", b.Observations).
		Set("special_requests", b.SpecialRequests).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	ctx, cancel := r.guard(ctx)
	defer cancel()

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return classifyWriteErr("update booking", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete booking query failed: %w", err)
	}

	ctx, cancel := r.guard(ctx)
	defer cancel()

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrStoreUnavailable
		}
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) HasConflict(ctx context.Context, cabinID string, checkIn, checkOut time.Time, excludeBookingID string) (bool, error) {
	// Logic:
	// 1. Cabin matches
	// 2. Status is NOT cancelled
	// 3. Half-open overlap: (NewCheckIn < ExistingCheckOut) AND (NewCheckOut > ExistingCheckIn)
	//    so touching boundaries do not conflict
	// 4. Exclude specific ID (for updates)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	subQuery := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"cabin_id": cabinID}).
		Where(squirrel.NotEq{"status": StatusCancelled}).
		Where(squirrel.Lt{"check_in_date": checkOut}).
		Where(squirrel.Gt{"check_out_date": checkIn})

	if excludeBookingID != "" {
		subQuery = subQuery.Where(squirrel.NotEq{"id": excludeBookingID})
	}

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build check conflict query failed: %w", err)
	}

	query := "SELECT EXISTS (" + sql + ")"

	ctx, cancel := r.guard(ctx)
	defer cancel()

	var exists bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return false, ErrStoreUnavailable
		}
		return false, fmt.Errorf("check conflict failed: %w", err)
	}
	return exists, nil
}
