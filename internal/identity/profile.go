package identity

import (
	"context"
	"net/http"

	"github.com/pinehollow/lodge-booking-backend/internal/pkg/apperror"
)

// ErrDirectoryUnavailable signals that the identity directory could not be
// reached. Callers degrade to a placeholder identity; a directory outage
// never fails a booking operation.
var ErrDirectoryUnavailable = apperror.NewRetryable(http.StatusBadGateway, "identity directory is unavailable")

// Profile is a guest identity as known by the external directory.
type Profile struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Nationality string `json:"nationality"`
	CountryFlag string `json:"country_flag"`
}

// Resolver looks up guest profiles. A nil profile with nil error means the
// directory has no record for the id.
type Resolver interface {
	Resolve(ctx context.Context, guestID string) (*Profile, error)
	ResolveBatch(ctx context.Context, guestIDs []string) (map[string]*Profile, error)
}

// Placeholder returns the display identity used when a profile is missing
// or the directory is down.
func Placeholder(guestID string) *Profile {
	short := guestID
	if len(short) > 8 {
		short = short[:8]
	}
	return &Profile{
		ID:       guestID,
		FullName: "Guest " + short,
	}
}

// noopResolver serves deployments without a directory configured.
type noopResolver struct{}

// NewNoopResolver returns a Resolver that knows no profiles; every lookup
// yields the placeholder path.
func NewNoopResolver() Resolver {
	return noopResolver{}
}

func (noopResolver) Resolve(ctx context.Context, guestID string) (*Profile, error) {
	return nil, nil
}

func (noopResolver) ResolveBatch(ctx context.Context, guestIDs []string) (map[string]*Profile, error) {
	out := make(map[string]*Profile, len(guestIDs))
	for _, id := range guestIDs {
		out[id] = nil
	}
	return out, nil
}
