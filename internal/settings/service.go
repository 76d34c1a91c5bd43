package settings

import "context"

// UpdateRequest carries partial policy updates. Nil fields are left unchanged.
type UpdateRequest struct {
	MinBookingLength    *int
	MaxBookingLength    *int
	MaxGuestsPerBooking *int
	BreakfastPrice      *int64
	PetFee              *int64
	AllowPets           *bool
	ParkingFee          *int64
	ParkingIncluded     *bool
	EarlyCheckInFee     *int64
	LateCheckOutFee     *int64
	RequireDeposit      *bool
	DepositPercentage   *int
}

type Service interface {
	// Get returns the current policy snapshot.
	Get(ctx context.Context) (*Settings, error)
	Update(ctx context.Context, req UpdateRequest) (*Settings, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context) (*Settings, error) {
	return s.repo.Get(ctx)
}

func (s *service) Update(ctx context.Context, req UpdateRequest) (*Settings, error) {
	current, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if req.MinBookingLength != nil {
		current.MinBookingLength = *req.MinBookingLength
	}
	if req.MaxBookingLength != nil {
		current.MaxBookingLength = *req.MaxBookingLength
	}
	if req.MaxGuestsPerBooking != nil {
		current.MaxGuestsPerBooking = *req.MaxGuestsPerBooking
	}
	if req.BreakfastPrice != nil {
		current.BreakfastPrice = *req.BreakfastPrice
	}
	if req.PetFee != nil {
		current.PetFee = *req.PetFee
	}
	if req.AllowPets != nil {
		current.AllowPets = *req.AllowPets
	}
	if req.ParkingFee != nil {
		current.ParkingFee = *req.ParkingFee
	}
	if req.ParkingIncluded != nil {
		current.ParkingIncluded = *req.ParkingIncluded
	}
	if req.EarlyCheckInFee != nil {
		current.EarlyCheckInFee = *req.EarlyCheckInFee
	}
	if req.LateCheckOutFee != nil {
		current.LateCheckOutFee = *req.LateCheckOutFee
	}
	if req.RequireDeposit != nil {
		current.RequireDeposit = *req.RequireDeposit
	}
	if req.DepositPercentage != nil {
		current.DepositPercentage = *req.DepositPercentage
	}

	if err := current.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, current); err != nil {
		return nil, err
	}

	return current, nil
}
