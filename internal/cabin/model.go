package cabin

import (
	"net/http"
	"time"

	"github.com/pinehollow/lodge-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "cabin not found")
	ErrNameRequired     = apperror.New(http.StatusBadRequest, "cabin name is required")
	ErrNegativePrice    = apperror.New(http.StatusBadRequest, "nightly price must not be negative")
	ErrDiscountTooLarge = apperror.New(http.StatusBadRequest, "discount must be strictly less than the nightly price")
	ErrInvalidCapacity  = apperror.New(http.StatusBadRequest, "max capacity must be at least 1")
	ErrInUse            = apperror.New(http.StatusConflict, "cabin has bookings and cannot be deleted")
	ErrInvalidPhoto     = apperror.New(http.StatusBadRequest, "photo must be a decodable image")
	ErrStoreUnavailable = apperror.NewRetryable(http.StatusServiceUnavailable, "cabin store is temporarily unavailable")
)

// Cabin is a rentable unit with a nightly rate and guest capacity.
// Price and Discount are integer currency units; Discount is always
// strictly less than Price so the effective rate stays positive.
type Cabin struct {
	ID          string
	Name        string
	Description string
	MaxCapacity int
	Price       int64
	Discount    int64
	PhotoPath   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EffectiveRate is the nightly rate actually charged, after discount.
func (c *Cabin) EffectiveRate() int64 {
	return c.Price - c.Discount
}

// Validate checks the rate and capacity constraints.
func (c *Cabin) Validate() error {
	if c.Name == "" {
		return ErrNameRequired
	}
	if c.Price < 0 || c.Discount < 0 {
		return ErrNegativePrice
	}
	if c.Discount >= c.Price {
		return ErrDiscountTooLarge
	}
	if c.MaxCapacity < 1 {
		return ErrInvalidCapacity
	}
	return nil
}

// Filter defines parameters for listing cabins.
type Filter struct {
	Name      string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
