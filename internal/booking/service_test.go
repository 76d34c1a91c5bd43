package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinehollow/lodge-booking-backend/internal/cabin"
	"github.com/pinehollow/lodge-booking-backend/internal/settings"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

// fakeRepo is an in-memory Repository with the same overlap and idempotency
// semantics as the real store.
type fakeRepo struct {
	bookings map[string]*Booking
	nextID   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: map[string]*Booking{}}
}

func (r *fakeRepo) Create(ctx context.Context, b *Booking) error {
	if b.IdempotencyKey != "" {
		for _, existing := range r.bookings {
			if existing.IdempotencyKey == b.IdempotencyKey {
				return errDuplicateRequest
			}
		}
	}
	// Mirror the store's exclusion constraint.
	for _, existing := range r.bookings {
		if existing.CabinID == b.CabinID && existing.Status != StatusCancelled &&
			b.CheckInDate.Before(existing.CheckOutDate) && b.CheckOutDate.After(existing.CheckInDate) {
			return ErrDateConflict
		}
	}

	r.nextID++
	b.ID = fmt.Sprintf("booking-%d", r.nextID)
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	clone := *b
	r.bookings[b.ID] = &clone
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *fakeRepo) GetByIdempotencyKey(ctx context.Context, key string) (*Booking, error) {
	for _, b := range r.bookings {
		if b.IdempotencyKey == key {
			clone := *b
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	var out []*Booking
	for _, b := range r.bookings {
		if filter.GuestID != "" && b.GuestID != filter.GuestID {
			continue
		}
		if filter.CabinID != "" && b.CabinID != filter.CabinID {
			continue
		}
		if filter.Status != "" && string(b.Status) != filter.Status {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func (r *fakeRepo) Update(ctx context.Context, b *Booking) error {
	if _, ok := r.bookings[b.ID]; !ok {
		return ErrNotFound
	}
	for _, existing := range r.bookings {
		if existing.ID == b.ID {
			continue
		}
		if existing.CabinID == b.CabinID && b.Status != StatusCancelled && existing.Status != StatusCancelled &&
			b.CheckInDate.Before(existing.CheckOutDate) && b.CheckOutDate.After(existing.CheckInDate) {
			return ErrDateConflict
		}
	}
	clone := *b
	clone.UpdatedAt = time.Now().UTC()
	r.bookings[b.ID] = &clone
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.bookings[id]; !ok {
		return ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *fakeRepo) HasConflict(ctx context.Context, cabinID string, checkIn, checkOut time.Time, excludeBookingID string) (bool, error) {
	for _, b := range r.bookings {
		if b.ID == excludeBookingID || b.CabinID != cabinID || b.Status == StatusCancelled {
			continue
		}
		if checkIn.Before(b.CheckOutDate) && checkOut.After(b.CheckInDate) {
			return true, nil
		}
	}
	return false, nil
}

type fakeCabins struct {
	cabins map[string]*cabin.Cabin
}

func (f *fakeCabins) GetByID(ctx context.Context, id string) (*cabin.Cabin, error) {
	c, ok := f.cabins[id]
	if !ok {
		return nil, cabin.ErrNotFound
	}
	return c, nil
}

type fakePolicy struct {
	settings *settings.Settings
}

func (f *fakePolicy) Get(ctx context.Context) (*settings.Settings, error) {
	return f.settings, nil
}

type recorderStats struct {
	enqueued []string
}

func (r *recorderStats) Enqueue(guestID string) {
	r.enqueued = append(r.enqueued, guestID)
}

type serviceFixture struct {
	svc    Service
	repo   *fakeRepo
	cabins *fakeCabins
	policy *fakePolicy
	stats  *recorderStats
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	repo := newFakeRepo()
	cabins := &fakeCabins{cabins: map[string]*cabin.Cabin{
		"cabin-1": {ID: "cabin-1", Name: "Pine Hollow", MaxCapacity: 4, Price: 250, Discount: 25},
		"cabin-2": {ID: "cabin-2", Name: "Birch Nook", MaxCapacity: 2, Price: 120, Discount: 0},
	}}
	policy := &fakePolicy{settings: testPolicy()}
	stats := &recorderStats{}

	return &serviceFixture{
		svc:    NewService(repo, cabins, policy, stats),
		repo:   repo,
		cabins: cabins,
		policy: policy,
		stats:  stats,
	}
}

func (f *serviceFixture) createRequest(t *testing.T) CreateRequest {
	t.Helper()
	return CreateRequest{
		CabinID:      "cabin-1",
		GuestID:      "guest-1",
		CheckInDate:  mustDate(t, "2026-07-01"),
		CheckOutDate: mustDate(t, "2026-07-06"),
		NumGuests:    2,
	}
}

func TestCreateBooking(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	req := f.createRequest(t)
	req.Extras = ExtrasSelection{Breakfast: true}

	b, err := f.svc.Create(ctx, req)
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, StatusUnconfirmed, b.Status)
	assert.Equal(t, 5, b.NumNights)
	assert.Equal(t, "Pine Hollow", b.CabinName)

	// Nightly rate is the discounted price, snapshotted on the booking.
	assert.Equal(t, int64(225), b.CabinPrice)
	assert.Equal(t, int64(150), b.ExtrasPrice)
	assert.Equal(t, int64(1275), b.TotalPrice)
	assert.Equal(t, int64(319), b.DepositAmount)
	assert.Equal(t, int64(956), b.RemainingAmount())

	assert.Equal(t, []string{"guest-1"}, f.stats.enqueued)
}

func TestCreateBookingValidation(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*CreateRequest)
		wantErr error
	}{
		{"missing guest", func(r *CreateRequest) { r.GuestID = "" }, ErrGuestRequired},
		{"reversed dates", func(r *CreateRequest) { r.CheckInDate, r.CheckOutDate = r.CheckOutDate, r.CheckInDate }, ErrInvalidDateRange},
		{"zero-night stay", func(r *CreateRequest) { r.CheckOutDate = r.CheckInDate }, ErrInvalidDateRange},
		{"unknown cabin", func(r *CreateRequest) { r.CabinID = "cabin-999" }, ErrCabinNotFound},
		{"too many guests for cabin", func(r *CreateRequest) { r.NumGuests = 5 }, ErrGuestCount},
		{"zero guests", func(r *CreateRequest) { r.NumGuests = 0 }, ErrGuestCount},
		{"stay too long", func(r *CreateRequest) { r.CheckOutDate = r.CheckInDate.AddDate(0, 0, 31) }, ErrStayLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.createRequest(t)
			tt.mutate(&req)
			_, err := f.svc.Create(ctx, req)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateBookingGuestCapFromPolicy(t *testing.T) {
	f := newServiceFixture(t)
	f.policy.settings.MaxGuestsPerBooking = 3
	// cabin-1 holds 4, but the policy caps at 3.
	req := f.createRequest(t)
	req.NumGuests = 4

	_, err := f.svc.Create(context.Background(), req)
	require.ErrorIs(t, err, ErrGuestCount)
}

func TestCreateBookingInvalidCabinRate(t *testing.T) {
	f := newServiceFixture(t)
	f.cabins.cabins["cabin-1"].Discount = 250 // equal to price

	_, err := f.svc.Create(context.Background(), f.createRequest(t))
	require.ErrorIs(t, err, ErrInvalidCabinRate)
}

func TestCreateBookingConflicts(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, f.createRequest(t)) // [Jul 1, Jul 6)
	require.NoError(t, err)

	t.Run("overlapping range rejected", func(t *testing.T) {
		req := f.createRequest(t)
		req.GuestID = "guest-2"
		req.CheckInDate = mustDate(t, "2026-07-03")
		req.CheckOutDate = mustDate(t, "2026-07-08")
		_, err := f.svc.Create(ctx, req)
		require.ErrorIs(t, err, ErrDateConflict)
	})

	t.Run("identical range rejected", func(t *testing.T) {
		req := f.createRequest(t)
		req.GuestID = "guest-2"
		_, err := f.svc.Create(ctx, req)
		require.ErrorIs(t, err, ErrDateConflict)
	})

	t.Run("back-to-back stay allowed", func(t *testing.T) {
		// Check-in on the previous guest's check-out day: half-open ranges
		// do not overlap.
		req := f.createRequest(t)
		req.GuestID = "guest-2"
		req.CheckInDate = mustDate(t, "2026-07-06")
		req.CheckOutDate = mustDate(t, "2026-07-09")
		_, err := f.svc.Create(ctx, req)
		require.NoError(t, err)
	})

	t.Run("other cabin unaffected", func(t *testing.T) {
		req := f.createRequest(t)
		req.CabinID = "cabin-2"
		req.GuestID = "guest-3"
		_, err := f.svc.Create(ctx, req)
		require.NoError(t, err)
	})

	t.Run("cancelled booking frees its dates", func(t *testing.T) {
		_, err := f.svc.Cancel(ctx, first.ID, false)
		require.NoError(t, err)

		req := f.createRequest(t)
		req.GuestID = "guest-4"
		_, err = f.svc.Create(ctx, req)
		require.NoError(t, err)
	})
}

func TestCreateBookingIdempotency(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	req := f.createRequest(t)
	req.IdempotencyKey = "11111111-1111-1111-1111-111111111111"

	first, err := f.svc.Create(ctx, req)
	require.NoError(t, err)

	// The retried request would conflict with itself; the idempotency key
	// resolves it to the original booking instead.
	replay, err := f.svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, replay.ID)

	all, total, err := f.svc.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, all, 1)
}

func TestUpdateBooking(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, f.createRequest(t))
	require.NoError(t, err)

	t.Run("re-prices with snapshotted rate", func(t *testing.T) {
		// The cabin got more expensive after the booking was made.
		f.cabins.cabins["cabin-1"].Price = 500

		extras := ExtrasSelection{Breakfast: true}
		updated, err := f.svc.Update(ctx, b.ID, UpdateRequest{Extras: &extras})
		require.NoError(t, err)

		// Still priced from the original 225 nightly rate.
		assert.Equal(t, int64(225), updated.CabinPrice)
		assert.Equal(t, int64(1275), updated.TotalPrice)
	})

	t.Run("date change re-validates conflicts", func(t *testing.T) {
		req := f.createRequest(t)
		req.GuestID = "guest-2"
		req.CheckInDate = mustDate(t, "2026-07-10")
		req.CheckOutDate = mustDate(t, "2026-07-12")
		_, err := f.svc.Create(ctx, req)
		require.NoError(t, err)

		newOut := mustDate(t, "2026-07-11")
		_, err = f.svc.Update(ctx, b.ID, UpdateRequest{CheckOutDate: &newOut})
		require.ErrorIs(t, err, ErrDateConflict)
	})

	t.Run("only unconfirmed bookings are editable", func(t *testing.T) {
		_, err := f.svc.Confirm(ctx, b.ID)
		require.NoError(t, err)

		obs := "late arrival"
		_, err = f.svc.Update(ctx, b.ID, UpdateRequest{Observations: &obs})
		require.ErrorIs(t, err, ErrImmutableBooking)
	})
}

func TestBookingLifecycleFlow(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	checkInAt := time.Date(2026, 7, 1, 15, 30, 0, 0, time.UTC)
	f.svc.(*service).now = func() time.Time { return checkInAt }

	b, err := f.svc.Create(ctx, f.createRequest(t))
	require.NoError(t, err)

	b, err = f.svc.Confirm(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, b.Status)

	t.Run("check-in requires confirmed", func(t *testing.T) {
		other, err := f.svc.Create(ctx, CreateRequest{
			CabinID:      "cabin-2",
			GuestID:      "guest-9",
			CheckInDate:  mustDate(t, "2026-07-01"),
			CheckOutDate: mustDate(t, "2026-07-03"),
			NumGuests:    1,
		})
		require.NoError(t, err)

		_, err = f.svc.CheckIn(ctx, other.ID, false)
		require.ErrorIs(t, err, ErrInvalidTransition)
	})

	b, err = f.svc.CheckIn(ctx, b.ID, true)
	require.NoError(t, err)
	assert.Equal(t, StatusCheckedIn, b.Status)
	assert.True(t, b.IsPaid)
	require.NotNil(t, b.CheckInTime)
	assert.Equal(t, checkInAt, *b.CheckInTime)

	t.Run("cancel after check-in needs force", func(t *testing.T) {
		_, err := f.svc.Cancel(ctx, b.ID, false)
		require.ErrorIs(t, err, ErrInvalidTransition)
	})

	b, err = f.svc.CheckOut(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCheckedOut, b.Status)
	require.NotNil(t, b.CheckOutTime)

	t.Run("checked-out is terminal", func(t *testing.T) {
		_, err := f.svc.Cancel(ctx, b.ID, true)
		require.ErrorIs(t, err, ErrInvalidTransition)
	})

	// Every mutation notified the stats worker.
	assert.GreaterOrEqual(t, len(f.stats.enqueued), 4)
}

func TestDepositFixedAtCreation(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, f.createRequest(t))
	require.NoError(t, err)
	require.Equal(t, int64(281), b.DepositAmount) // 25% of 1125 rounded half-up

	// Policy changes after creation do not reprice confirmed bookings.
	f.policy.settings.DepositPercentage = 50

	b, err = f.svc.Confirm(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(281), b.DepositAmount)
	assert.Equal(t, b.TotalPrice-b.DepositAmount, b.RemainingAmount())
}

func TestDeleteBookingNotifiesStats(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, f.createRequest(t))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, b.ID))

	_, err = f.svc.GetByID(ctx, b.ID)
	require.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{"guest-1", "guest-1"}, f.stats.enqueued)
}

func TestReadRetryOnRetryableError(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, f.createRequest(t))
	require.NoError(t, err)

	flaky := &flakyRepo{fakeRepo: f.repo, failures: 2}
	svc := NewService(flaky, f.cabins, f.policy, f.stats)

	got, err := svc.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, 3, flaky.calls)
}

func TestReadRetryGivesUp(t *testing.T) {
	f := newServiceFixture(t)

	flaky := &flakyRepo{fakeRepo: f.repo, failures: 10}
	svc := NewService(flaky, f.cabins, f.policy, f.stats)

	_, err := svc.GetByID(context.Background(), "booking-1")
	require.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, 1+maxReadRetries, flaky.calls)
}

// flakyRepo fails the first N GetByID calls with a retryable store error.
type flakyRepo struct {
	*fakeRepo
	failures int
	calls    int
}

func (r *flakyRepo) GetByID(ctx context.Context, id string) (*Booking, error) {
	r.calls++
	if r.calls <= r.failures {
		return nil, ErrStoreUnavailable
	}
	return r.fakeRepo.GetByID(ctx, id)
}
