package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pinehollow/lodge-booking-backend/internal/cabin"
	"github.com/pinehollow/lodge-booking-backend/internal/pkg/request"
	"github.com/pinehollow/lodge-booking-backend/internal/pkg/response"
)

// maxPhotoSize bounds cabin photo uploads to 10 MiB.
const maxPhotoSize = 10 << 20

type Handler struct {
	service cabin.Service
}

func NewHandler(service cabin.Service) *Handler {
	return &Handler{service: service}
}

// List returns a paginated page of cabins.
func (h *Handler) List(c *gin.Context) {
	var req ListCabinsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	cabins, total, err := h.service.List(c.Request.Context(), cabin.Filter{
		Name:      req.Name,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]CabinResponse, 0, len(cabins))
	for _, item := range cabins {
		items = append(items, NewCabinResponse(item))
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = len(items)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, page, pageSize, total))
}

// GetByID returns a single cabin.
func (h *Handler) GetByID(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cabin id"})
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewCabinResponse(item))
}

// Create adds a new cabin to the catalog. Admin only.
func (h *Handler) Create(c *gin.Context) {
	var req CreateCabinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	item, err := h.service.Create(c.Request.Context(), cabin.CreateRequest{
		Name:        req.Name,
		Description: req.Description,
		MaxCapacity: req.MaxCapacity,
		Price:       req.Price,
		Discount:    req.Discount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewCabinResponse(item))
}

// Update edits a cabin's catalog fields. Admin only.
func (h *Handler) Update(c *gin.Context) {
	var uriReq request.ByIDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cabin id"})
		return
	}

	var req UpdateCabinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	item, err := h.service.Update(c.Request.Context(), uriReq.ID, cabin.UpdateRequest{
		Name:        req.Name,
		Description: req.Description,
		MaxCapacity: req.MaxCapacity,
		Price:       req.Price,
		Discount:    req.Discount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewCabinResponse(item))
}

// Delete removes a cabin. Fails if any bookings reference it. Admin only.
func (h *Handler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cabin id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadPhoto replaces the cabin's photo. Admin only.
func (h *Handler) UploadPhoto(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cabin id"})
		return
	}

	header, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	if header.Size > maxPhotoSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo exceeds the maximum allowed size"})
		return
	}

	item, err := h.service.UploadPhoto(c.Request.Context(), req.ID, header)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewCabinResponse(item))
}

// Photo streams the cabin's photo.
func (h *Handler) Photo(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cabin id"})
		return
	}

	rc, err := h.service.Photo(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", "image/jpeg")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}
