package booking

import (
	"context"
	"errors"
	"time"

	"github.com/pinehollow/lodge-booking-backend/internal/cabin"
	"github.com/pinehollow/lodge-booking-backend/internal/pkg/apperror"
	"github.com/pinehollow/lodge-booking-backend/internal/settings"
)

// maxReadRetries bounds how often a retryable store failure is retried on
// the read path. Writes are never blindly retried; creation relies on the
// idempotency key instead.
const maxReadRetries = 2

// CabinSource provides cabin lookups. Satisfied by cabin.Service.
type CabinSource interface {
	GetByID(ctx context.Context, id string) (*cabin.Cabin, error)
}

// PolicySource provides the policy snapshot. Satisfied by settings.Service.
type PolicySource interface {
	Get(ctx context.Context) (*settings.Settings, error)
}

// StatsNotifier receives guest IDs whose derived statistics need a
// recompute. Enqueue must never block or fail the booking mutation.
type StatsNotifier interface {
	Enqueue(guestID string)
}

type CreateRequest struct {
	CabinID         string
	GuestID         string
	CheckInDate     time.Time
	CheckOutDate    time.Time
	NumGuests       int
	Extras          ExtrasSelection
	IsPaid          bool
	DepositPaid     bool
	Observations    string
	SpecialRequests string

	// IdempotencyKey makes retried creates safe: a repeated request returns
	// the booking created the first time instead of a double-booking error.
	IdempotencyKey string
}

// UpdateRequest carries field edits, permitted only while the booking is
// unconfirmed. Nil fields are left unchanged.
type UpdateRequest struct {
	CheckInDate     *time.Time
	CheckOutDate    *time.Time
	NumGuests       *int
	Extras          *ExtrasSelection
	IsPaid          *bool
	DepositPaid     *bool
	Observations    *string
	SpecialRequests *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Booking, error)

	// Status transitions. Any caller wanting to change status goes through
	// these; there is no raw status set.
	Confirm(ctx context.Context, id string) (*Booking, error)
	CheckIn(ctx context.Context, id string, confirmPaid bool) (*Booking, error)
	CheckOut(ctx context.Context, id string) (*Booking, error)
	Cancel(ctx context.Context, id string, force bool) (*Booking, error)

	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	cabins CabinSource
	policy PolicySource
	stats  StatsNotifier
	now    func() time.Time
}

func NewService(repo Repository, cabins CabinSource, policy PolicySource, stats StatsNotifier) Service {
	return &service{
		repo:   repo,
		cabins: cabins,
		policy: policy,
		stats:  stats,
		now:    time.Now,
	}
}

// toDate normalizes a timestamp to midnight UTC; bookings are per-night, so
// only the calendar date matters.
func toDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	if req.GuestID == "" {
		return nil, ErrGuestRequired
	}

	checkIn := toDate(req.CheckInDate)
	checkOut := toDate(req.CheckOutDate)
	if req.CheckInDate.IsZero() || req.CheckOutDate.IsZero() || !checkOut.After(checkIn) {
		return nil, ErrInvalidDateRange
	}
	nights := NightsBetween(checkIn, checkOut)

	c, err := s.cabins.GetByID(ctx, req.CabinID)
	if err != nil {
		if errors.Is(err, cabin.ErrNotFound) {
			return nil, ErrCabinNotFound
		}
		return nil, err
	}

	// Policy snapshot is fetched once per operation.
	policy, err := s.policy.Get(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validateStay(c, policy, nights, req.NumGuests); err != nil {
		return nil, err
	}

	hasConflict, err := s.repo.HasConflict(ctx, req.CabinID, checkIn, checkOut, "")
	if err != nil {
		return nil, err
	}
	if hasConflict {
		return nil, ErrDateConflict
	}

	quote := Quote(c.EffectiveRate(), nights, req.NumGuests, req.Extras, policy)

	b := &Booking{
		CabinID:         req.CabinID,
		CabinName:       c.Name,
		GuestID:         req.GuestID,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		NumNights:       nights,
		NumGuests:       req.NumGuests,
		Status:          StatusUnconfirmed,
		CabinPrice:      quote.NightlyRate,
		ExtrasPrice:     quote.ExtrasPrice,
		TotalPrice:      quote.TotalPrice,
		Extras:          req.Extras,
		IsPaid:          req.IsPaid,
		DepositPaid:     req.DepositPaid,
		DepositAmount:   quote.DepositAmount,
		Observations:    req.Observations,
		SpecialRequests: req.SpecialRequests,
		IdempotencyKey:  req.IdempotencyKey,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		// A replayed create with the same idempotency key is not an error:
		// hand back the booking the first attempt produced.
		if errors.Is(err, errDuplicateRequest) && req.IdempotencyKey != "" {
			return s.repo.GetByIdempotencyKey(ctx, req.IdempotencyKey)
		}
		return nil, err
	}

	s.stats.Enqueue(b.GuestID)

	return b, nil
}

// validateStay checks nights and guest count against the cabin and the
// policy snapshot, and the cabin's rate invariant.
func (s *service) validateStay(c *cabin.Cabin, policy *settings.Settings, nights, numGuests int) error {
	if c.Discount < 0 || c.Discount >= c.Price {
		return ErrInvalidCabinRate
	}
	if nights < policy.MinBookingLength || nights > policy.MaxBookingLength {
		return ErrStayLength
	}
	if numGuests < 1 || numGuests > c.MaxCapacity || numGuests > policy.MaxGuestsPerBooking {
		return ErrGuestCount
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	var b *Booking
	err := s.withReadRetry(ctx, func() error {
		var err error
		b, err = s.repo.GetByID(ctx, id)
		return err
	})
	return b, err
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	var bookings []*Booking
	var total int
	err := s.withReadRetry(ctx, func() error {
		var err error
		bookings, total, err = s.repo.List(ctx, filter)
		return err
	})
	return bookings, total, err
}

// withReadRetry retries fn a bounded number of times when the store reports
// a retryable failure. Deterministic errors surface immediately.
func (s *service) withReadRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || !apperror.IsRetryable(err) || attempt >= maxReadRetries {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Duration(attempt+1) * 100 * time.Millisecond):
		}
	}
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if b.Status != StatusUnconfirmed {
		return nil, ErrImmutableBooking
	}

	newCheckIn := b.CheckInDate
	newCheckOut := b.CheckOutDate
	datesChanged := false

	if req.CheckInDate != nil {
		newCheckIn = toDate(*req.CheckInDate)
		datesChanged = true
	}
	if req.CheckOutDate != nil {
		newCheckOut = toDate(*req.CheckOutDate)
		datesChanged = true
	}
	if !newCheckOut.After(newCheckIn) {
		return nil, ErrInvalidDateRange
	}
	nights := NightsBetween(newCheckIn, newCheckOut)

	if req.NumGuests != nil {
		b.NumGuests = *req.NumGuests
	}
	if req.Extras != nil {
		b.Extras = *req.Extras
	}
	if req.IsPaid != nil {
		b.IsPaid = *req.IsPaid
	}
	if req.DepositPaid != nil {
		b.DepositPaid = *req.DepositPaid
	}
	if req.Observations != nil {
		b.Observations = *req.Observations
	}
	if req.SpecialRequests != nil {
		b.SpecialRequests = *req.SpecialRequests
	}

	c, err := s.cabins.GetByID(ctx, b.CabinID)
	if err != nil {
		if errors.Is(err, cabin.ErrNotFound) {
			return nil, ErrCabinNotFound
		}
		return nil, err
	}

	policy, err := s.policy.Get(ctx)
	if err != nil {
		return nil, err
	}

	if nights < policy.MinBookingLength || nights > policy.MaxBookingLength {
		return nil, ErrStayLength
	}
	if b.NumGuests < 1 || b.NumGuests > c.MaxCapacity || b.NumGuests > policy.MaxGuestsPerBooking {
		return nil, ErrGuestCount
	}

	if datesChanged {
		hasConflict, err := s.repo.HasConflict(ctx, b.CabinID, newCheckIn, newCheckOut, b.ID)
		if err != nil {
			return nil, err
		}
		if hasConflict {
			return nil, ErrDateConflict
		}
		b.CheckInDate = newCheckIn
		b.CheckOutDate = newCheckOut
	}
	b.NumNights = nights

	// Re-price using the nightly rate snapshotted at creation: editing an
	// unconfirmed booking must not pick up later cabin price changes.
	quote := Quote(b.CabinPrice, nights, b.NumGuests, b.Extras, policy)
	b.ExtrasPrice = quote.ExtrasPrice
	b.TotalPrice = quote.TotalPrice
	b.DepositAmount = quote.DepositAmount

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	s.stats.Enqueue(b.GuestID)

	return b, nil
}

func (s *service) Confirm(ctx context.Context, id string) (*Booking, error) {
	return s.transition(ctx, id, StatusConfirmed, false, nil)
}

func (s *service) CheckIn(ctx context.Context, id string, confirmPaid bool) (*Booking, error) {
	return s.transition(ctx, id, StatusCheckedIn, false, func(b *Booking) {
		if confirmPaid {
			b.IsPaid = true
		}
	})
}

func (s *service) CheckOut(ctx context.Context, id string) (*Booking, error) {
	return s.transition(ctx, id, StatusCheckedOut, false, nil)
}

func (s *service) Cancel(ctx context.Context, id string, force bool) (*Booking, error) {
	return s.transition(ctx, id, StatusCancelled, force, nil)
}

// transition loads the booking, applies the state machine and persists the
// result. sideEffect runs only after the transition has been accepted.
func (s *service) transition(ctx context.Context, id string, target Status, force bool, sideEffect func(*Booking)) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := Transition(b, target, s.now().UTC(), force); err != nil {
		return nil, err
	}
	if sideEffect != nil {
		sideEffect(b)
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	s.stats.Enqueue(b.GuestID)

	return b, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// Deleting a booking changes the guest's aggregates as much as creating
	// one does.
	s.stats.Enqueue(b.GuestID)

	return nil
}
