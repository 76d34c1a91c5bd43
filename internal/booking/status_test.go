package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    Status
		wantErr bool
	}{
		{"unconfirmed", StatusUnconfirmed, false},
		{"confirmed", StatusConfirmed, false},
		{"checked-in", StatusCheckedIn, false},
		{"checked-out", StatusCheckedOut, false},
		{"cancelled", StatusCancelled, false},
		{"checkedin", "", true},
		{"", "", true},
		{"CONFIRMED", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusTransitionTable(t *testing.T) {
	all := []Status{StatusUnconfirmed, StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusCancelled}

	allowed := map[Status][]Status{
		StatusUnconfirmed: {StatusConfirmed, StatusCancelled},
		StatusConfirmed:   {StatusCheckedIn, StatusCancelled},
		StatusCheckedIn:   {StatusCheckedOut},
		StatusCheckedOut:  {},
		StatusCancelled:   {},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusUnconfirmed.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.False(t, StatusCheckedIn.IsTerminal())
	assert.True(t, StatusCheckedOut.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, Status("bogus").IsTerminal())
}

func TestTransitionStampsTimes(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

	b := &Booking{Status: StatusConfirmed}
	require.NoError(t, Transition(b, StatusCheckedIn, now, false))
	assert.Equal(t, StatusCheckedIn, b.Status)
	require.NotNil(t, b.CheckInTime)
	assert.Equal(t, now, *b.CheckInTime)
	assert.Nil(t, b.CheckOutTime)

	later := now.Add(48 * time.Hour)
	require.NoError(t, Transition(b, StatusCheckedOut, later, false))
	assert.Equal(t, StatusCheckedOut, b.Status)
	require.NotNil(t, b.CheckOutTime)
	assert.Equal(t, later, *b.CheckOutTime)
}

func TestTransitionRejectsInvalid(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name string
		from Status
		to   Status
	}{
		{"skip confirm", StatusUnconfirmed, StatusCheckedIn},
		{"skip check-in", StatusConfirmed, StatusCheckedOut},
		{"back to unconfirmed", StatusConfirmed, StatusUnconfirmed},
		{"checked-in cancel without force", StatusCheckedIn, StatusCancelled},
		{"reopen checked-out", StatusCheckedOut, StatusCheckedIn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Booking{Status: tt.from}
			err := Transition(b, tt.to, now, false)
			require.ErrorIs(t, err, ErrInvalidTransition)
			// Failed transitions leave the booking untouched.
			assert.Equal(t, tt.from, b.Status)
			assert.Nil(t, b.CheckInTime)
			assert.Nil(t, b.CheckOutTime)
		})
	}
}

func TestTransitionCancelAlreadyCancelled(t *testing.T) {
	// Cancelling an already-cancelled booking is rejected, even with force.
	b := &Booking{Status: StatusCancelled}

	err := Transition(b, StatusCancelled, time.Now().UTC(), false)
	require.ErrorIs(t, err, ErrInvalidTransition)

	err = Transition(b, StatusCancelled, time.Now().UTC(), true)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusCancelled, b.Status)
}

func TestTransitionForceCancel(t *testing.T) {
	now := time.Now().UTC()

	// Force only unlocks checked-in -> cancelled.
	b := &Booking{Status: StatusCheckedIn}
	require.NoError(t, Transition(b, StatusCancelled, now, true))
	assert.Equal(t, StatusCancelled, b.Status)

	// Checked-out stays terminal regardless of force.
	b = &Booking{Status: StatusCheckedOut}
	err := Transition(b, StatusCancelled, now, true)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionInvalidTarget(t *testing.T) {
	b := &Booking{Status: StatusUnconfirmed}
	err := Transition(b, Status("archived"), time.Now().UTC(), false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidStatus))
}
