package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinehollow/lodge-booking-backend/internal/booking"
	"github.com/pinehollow/lodge-booking-backend/internal/identity"
)

func TestListBookingsRequestValidate(t *testing.T) {
	day := func(s string) *time.Time {
		d, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return &d
	}

	tests := []struct {
		name    string
		req     ListBookingsRequest
		wantErr error
	}{
		{"empty", ListBookingsRequest{}, nil},
		{"valid status", ListBookingsRequest{Status: "checked-in"}, nil},
		{"unknown status", ListBookingsRequest{Status: "checkedin"}, booking.ErrInvalidStatus},
		{"uppercase status", ListBookingsRequest{Status: "CONFIRMED"}, booking.ErrInvalidStatus},
		{"valid window", ListBookingsRequest{DateFrom: day("2026-07-01"), DateTo: day("2026-07-10")}, nil},
		{"reversed window", ListBookingsRequest{DateFrom: day("2026-07-10"), DateTo: day("2026-07-01")}, booking.ErrInvalidDateRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewGuestTagPlaceholder(t *testing.T) {
	// Both a missing profile and an explicit nil (cached directory miss)
	// render as the placeholder identity.
	tag := newGuestTag("3f8a1c92-0000-0000-0000-000000000000", nil)
	assert.Equal(t, "Guest 3f8a1c92", tag.FullName)
	assert.Empty(t, tag.Email)

	tag = newGuestTag("guest-1", &identity.Profile{ID: "guest-1", FullName: "Alex Doe", Email: "alex@example.com"})
	assert.Equal(t, "Alex Doe", tag.FullName)
	assert.Equal(t, "alex@example.com", tag.Email)
}
