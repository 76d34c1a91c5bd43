package guest

import "context"

type Service interface {
	// Recompute rebuilds the guest's stats from the current booking records
	// and upserts the result. Safe to call repeatedly.
	Recompute(ctx context.Context, guestID string) (*Stats, error)

	GetByGuest(ctx context.Context, guestID string) (*Stats, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Recompute(ctx context.Context, guestID string) (*Stats, error) {
	facts, err := s.repo.LoadFacts(ctx, guestID)
	if err != nil {
		return nil, err
	}

	stats := Compute(guestID, facts)
	if err := s.repo.Upsert(ctx, &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}

func (s *service) GetByGuest(ctx context.Context, guestID string) (*Stats, error) {
	return s.repo.GetByGuest(ctx, guestID)
}
