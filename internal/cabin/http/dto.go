package http

import (
	"time"

	"github.com/pinehollow/lodge-booking-backend/internal/cabin"
	"github.com/pinehollow/lodge-booking-backend/internal/pkg/request"
)

type ListCabinsRequest struct {
	request.ListParams
	Name   string `form:"name"`
	SortBy string `form:"sort_by" binding:"omitempty,oneof=name price max_capacity created_at"`
}

type CreateCabinRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	MaxCapacity int    `json:"max_capacity" binding:"required,min=1"`
	Price       int64  `json:"price" binding:"required,min=0"`
	Discount    int64  `json:"discount" binding:"omitempty,min=0"`
}

type UpdateCabinRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	MaxCapacity *int    `json:"max_capacity" binding:"omitempty,min=1"`
	Price       *int64  `json:"price" binding:"omitempty,min=0"`
	Discount    *int64  `json:"discount" binding:"omitempty,min=0"`
}

// CabinResponse is the shape of cabin data returned in API responses.
type CabinResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	MaxCapacity   int       `json:"max_capacity"`
	Price         int64     `json:"price"`
	Discount      int64     `json:"discount"`
	EffectiveRate int64     `json:"effective_rate"`
	HasPhoto      bool      `json:"has_photo"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewCabinResponse(c *cabin.Cabin) CabinResponse {
	return CabinResponse{
		ID:            c.ID,
		Name:          c.Name,
		Description:   c.Description,
		MaxCapacity:   c.MaxCapacity,
		Price:         c.Price,
		Discount:      c.Discount,
		EffectiveRate: c.EffectiveRate(),
		HasPhoto:      c.PhotoPath != nil,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
