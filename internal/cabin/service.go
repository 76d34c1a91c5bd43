package cabin

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"

	"github.com/google/uuid"
	"github.com/pinehollow/lodge-booking-backend/internal/pkg/storage"
)

// Photo dimensions: the dashboard shows cabins in cards, full-size is capped
// to keep uploads bounded.
const (
	photoMaxWidth  = 1600
	photoMaxHeight = 1200
)

type CreateRequest struct {
	Name        string
	Description string
	MaxCapacity int
	Price       int64
	Discount    int64
}

// UpdateRequest carries partial cabin updates. Nil fields are left unchanged.
type UpdateRequest struct {
	Name        *string
	Description *string
	MaxCapacity *int
	Price       *int64
	Discount    *int64
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Cabin, error)
	GetByID(ctx context.Context, id string) (*Cabin, error)
	List(ctx context.Context, filter Filter) ([]*Cabin, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Cabin, error)
	Delete(ctx context.Context, id string) error
	UploadPhoto(ctx context.Context, id string, header *multipart.FileHeader) (*Cabin, error)
	Photo(ctx context.Context, id string) (io.ReadCloser, error)
}

type service struct {
	repo    Repository
	storage storage.Storage
	imgProc *storage.ImageProcessor
}

func NewService(repo Repository, store storage.Storage) Service {
	return &service{
		repo:    repo,
		storage: store,
		imgProc: storage.NewImageProcessor(),
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Cabin, error) {
	c := &Cabin{
		Name:        req.Name,
		Description: req.Description,
		MaxCapacity: req.MaxCapacity,
		Price:       req.Price,
		Discount:    req.Discount,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Cabin, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Cabin, int, error) {
	return s.repo.List(ctx, filter)
}

// Update changes the cabin's catalog fields. Existing bookings keep the
// nightly rate snapshotted when they were created, so a price change here
// never touches booked amounts.
func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Cabin, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.MaxCapacity != nil {
		c.MaxCapacity = *req.MaxCapacity
	}
	if req.Price != nil {
		c.Price = *req.Price
	}
	if req.Discount != nil {
		c.Discount = *req.Discount
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if c.PhotoPath != nil {
		// Best-effort: the cabin row is already gone.
		_ = s.storage.Delete(ctx, *c.PhotoPath)
	}
	return nil
}

func (s *service) UploadPhoto(ctx context.Context, id string, header *multipart.FileHeader) (*Cabin, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	normalized, err := s.imgProc.Normalize(src, photoMaxWidth, photoMaxHeight)
	if err != nil {
		return nil, ErrInvalidPhoto
	}

	photoPath := path.Join("cabins", uuid.NewString()+".jpg")
	if err := s.storage.Save(ctx, photoPath, normalized); err != nil {
		return nil, fmt.Errorf("failed to save cabin photo: %w", err)
	}

	if err := s.repo.SetPhotoPath(ctx, id, photoPath); err != nil {
		_ = s.storage.Delete(ctx, photoPath)
		return nil, err
	}

	if c.PhotoPath != nil {
		_ = s.storage.Delete(ctx, *c.PhotoPath)
	}

	c.PhotoPath = &photoPath
	return c, nil
}

func (s *service) Photo(ctx context.Context, id string) (io.ReadCloser, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.PhotoPath == nil {
		return nil, ErrNotFound
	}
	return s.storage.Get(ctx, *c.PhotoPath)
}
