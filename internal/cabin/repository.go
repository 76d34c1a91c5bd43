package cabin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, c *Cabin) error
	GetByID(ctx context.Context, id string) (*Cabin, error)
	List(ctx context.Context, filter Filter) ([]*Cabin, int, error)
	Update(ctx context.Context, c *Cabin) error
	Delete(ctx context.Context, id string) error
	SetPhotoPath(ctx context.Context, id, path string) error
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

func (r *pgxRepository) Create(ctx context.Context, c *Cabin) error {
	const query = `
		INSERT INTO public.cabins (name, description, max_capacity, price, discount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	ctx, cancel := r.guard(ctx)
	defer cancel()

	err := r.pool.QueryRow(ctx, query, c.Name, c.Description, c.MaxCapacity, c.Price, c.Discount).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrStoreUnavailable
		}
		return fmt.Errorf("create cabin failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Cabin, error) {
	const query = `
		SELECT id, name, description, max_capacity, price, discount, photo_path, created_at, updated_at
		FROM public.cabins
		WHERE id = $1
	`

	ctx, cancel := r.guard(ctx)
	defer cancel()

	var c Cabin
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Description, &c.MaxCapacity, &c.Price, &c.Discount,
		&c.PhotoPath, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrStoreUnavailable
		}
		return nil, fmt.Errorf("get cabin failed: %w", err)
	}
	return &c, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Cabin, int, error) {
	var args []any
	queryBase := `
		SELECT id, name, description, max_capacity, price, discount, photo_path,
		       created_at, updated_at, count(*) OVER() as total_count
		FROM public.cabins
		WHERE 1=1
	`
	paramIndex := 1

	if filter.Name != "" {
		queryBase += fmt.Sprintf(" AND name ILIKE $%d", paramIndex)
		args = append(args, "%"+filter.Name+"%")
		paramIndex++
	}

	orderBy := "name"
	switch filter.SortBy {
	case "price", "max_capacity", "created_at":
		orderBy = filter.SortBy
	}
	orderDir := "ASC"
	if filter.SortOrder == "DESC" || filter.SortOrder == "desc" {
		orderDir = "DESC"
	}
	queryBase += " ORDER BY " + orderBy + " " + orderDir

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	queryBase += fmt.Sprintf(" LIMIT $%d OFFSET $%d", paramIndex, paramIndex+1)
	args = append(args, filter.PageSize, offset)

	ctx, cancel := r.guard(ctx)
	defer cancel()

	rows, err := r.pool.Query(ctx, queryBase, args...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, 0, ErrStoreUnavailable
		}
		return nil, 0, fmt.Errorf("list cabins failed: %w", err)
	}
	defer rows.Close()

	var result []*Cabin
	var total int

	for rows.Next() {
		var c Cabin
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Description, &c.MaxCapacity, &c.Price, &c.Discount,
			&c.PhotoPath, &c.CreatedAt, &c.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan cabin failed: %w", err)
		}
		result = append(result, &c)
	}

	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, c *Cabin) error {
	const query = `
		UPDATE public.cabins
		SET name = $1, description = $2, max_capacity = $3, price = $4, discount = $5, updated_at = now()
		WHERE id = $6
	`

	ctx, cancel := r.guard(ctx)
	defer cancel()

	ct, err := r.pool.Exec(ctx, query, c.Name, c.Description, c.MaxCapacity, c.Price, c.Discount, c.ID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrStoreUnavailable
		}
		return fmt.Errorf("update cabin failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM public.cabins WHERE id = $1`

	ctx, cancel := r.guard(ctx)
	defer cancel()

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		// bookings.cabin_id is ON DELETE RESTRICT: a referenced cabin stays.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrInUse
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrStoreUnavailable
		}
		return fmt.Errorf("delete cabin failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) SetPhotoPath(ctx context.Context, id, path string) error {
	const query = `UPDATE public.cabins SET photo_path = $1, updated_at = now() WHERE id = $2`

	ctx, cancel := r.guard(ctx)
	defer cancel()

	ct, err := r.pool.Exec(ctx, query, path, id)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrStoreUnavailable
		}
		return fmt.Errorf("set cabin photo failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
