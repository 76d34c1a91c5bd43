package http

import (
	"time"

	"github.com/pinehollow/lodge-booking-backend/internal/staff"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	Staff       StaffResponse `json:"staff"`
}

type CreateStaffRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name"`
	IsAdmin     bool   `json:"is_admin"`
}

// StaffResponse is the shape of staff data returned in API responses.
type StaffResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	DisplayName *string    `json:"display_name"`
	IsActive    bool       `json:"is_active"`
	IsAdmin     bool       `json:"is_admin"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

func NewStaffResponse(s *staff.Staff) StaffResponse {
	return StaffResponse{
		ID:          s.ID,
		Email:       s.Email,
		DisplayName: s.DisplayName,
		IsActive:    s.IsActive,
		IsAdmin:     s.IsAdmin,
		CreatedAt:   s.CreatedAt,
		LastLoginAt: s.LastLoginAt,
	}
}
