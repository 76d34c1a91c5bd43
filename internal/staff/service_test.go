package staff

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinehollow/lodge-booking-backend/internal/auth"
)

type memRepo struct {
	byEmail map[string]*Staff
	nextID  int
}

func newMemRepo() *memRepo {
	return &memRepo{byEmail: map[string]*Staff{}}
}

func (r *memRepo) Create(ctx context.Context, s *Staff) error {
	if _, ok := r.byEmail[s.Email]; ok {
		return ErrEmailAlreadyUsed
	}
	r.nextID++
	s.ID = fmt.Sprintf("staff-%d", r.nextID)
	s.CreatedAt = time.Now().UTC()
	clone := *s
	r.byEmail[s.Email] = &clone
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, id string) (*Staff, error) {
	for _, s := range r.byEmail {
		if s.ID == id {
			clone := *s
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memRepo) GetByEmail(ctx context.Context, email string) (*Staff, error) {
	s, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *memRepo) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	for _, s := range r.byEmail {
		if s.ID == id {
			s.LastLoginAt = &t
			return nil
		}
	}
	return ErrNotFound
}

func newTestService() (Service, *memRepo) {
	repo := newMemRepo()
	// Minimum bcrypt cost keeps the test fast.
	return NewService(repo, auth.NewBcryptPasswordHasherWithCost(4)), repo
}

func TestCreateStaff(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	member, err := svc.Create(ctx, "Manager@Lodge.Example ", "supersecret", "Robin", true)
	require.NoError(t, err)

	assert.NotEmpty(t, member.ID)
	assert.Equal(t, "manager@lodge.example", member.Email)
	require.NotNil(t, member.DisplayName)
	assert.Equal(t, "Robin", *member.DisplayName)
	assert.True(t, member.IsAdmin)
	assert.True(t, member.IsActive)
	assert.NotEqual(t, "supersecret", member.PasswordHash)
}

func TestCreateStaffValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "  ", "supersecret", "", false)
	require.ErrorIs(t, err, ErrEmailRequired)

	_, err = svc.Create(ctx, "a@b.example", "short", "", false)
	require.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = svc.Create(ctx, "a@b.example", "supersecret", "", false)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "a@b.example", "supersecret", "", false)
	require.ErrorIs(t, err, ErrEmailAlreadyUsed)
}

func TestLogin(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "desk@lodge.example", "supersecret", "", false)
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		member, err := svc.Login(ctx, "desk@lodge.example", "supersecret")
		require.NoError(t, err)
		assert.Equal(t, created.ID, member.ID)
		assert.NotNil(t, member.LastLoginAt)
	})

	t.Run("email is normalized", func(t *testing.T) {
		_, err := svc.Login(ctx, " Desk@Lodge.Example ", "supersecret")
		require.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "desk@lodge.example", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@lodge.example", "supersecret")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		repo.byEmail["desk@lodge.example"].IsActive = false
		_, err := svc.Login(ctx, "desk@lodge.example", "supersecret")
		require.ErrorIs(t, err, ErrInactiveAccount)
	})
}
