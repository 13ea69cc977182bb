package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/dto"
	"reviewhub/internal/middleware"
	"reviewhub/internal/service"
)

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// RegisterRoutes mounts the collection nested under a title. Reads are
// public; creating needs a token, modifying additionally needs the
// author/moderator/admin policy enforced by the service.
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.GET("/:review_id", h.Get)
	rg.POST("", auth, h.Create)
	rg.PATCH("/:review_id", auth, h.Update)
	rg.DELETE("/:review_id", auth, h.Delete)
}

// List handles GET /v1/titles/:title_id/reviews, ordered by pub_date.
func (h *ReviewHandler) List(c *gin.Context) {
	titleID, err := parseID(c, "title_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid title id"})
		return
	}

	page := dto.PageFromContext(c)
	reviews, total, err := h.svc.List(c.Request.Context(), titleID, page)
	if err != nil {
		h.writeError(c, err)
		return
	}

	results := make([]dto.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		results = append(results, dto.ReviewFromModel(r))
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(results, total, page))
}

// Get handles GET /v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Get(c *gin.Context) {
	titleID, reviewID, err := h.parseIDs(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.svc.Get(c.Request.Context(), titleID, reviewID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReviewFromModel(*review))
}

// Create handles POST /v1/titles/:title_id/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	titleID, err := parseID(c, "title_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid title id"})
		return
	}

	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req dto.CreateReviewDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.svc.Create(c.Request.Context(), titleID, claims, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ReviewFromModel(*review))
}

// Update handles PATCH /v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Update(c *gin.Context) {
	titleID, reviewID, err := h.parseIDs(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req dto.UpdateReviewDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.svc.Update(c.Request.Context(), titleID, reviewID, claims, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReviewFromModel(*review))
}

// Delete handles DELETE /v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Delete(c *gin.Context) {
	titleID, reviewID, err := h.parseIDs(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), titleID, reviewID, claims); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ReviewHandler) parseIDs(c *gin.Context) (titleID, reviewID int64, err error) {
	if titleID, err = parseID(c, "title_id"); err != nil {
		return 0, 0, errors.New("invalid title id")
	}
	if reviewID, err = parseID(c, "review_id"); err != nil {
		return 0, 0, errors.New("invalid review id")
	}
	return titleID, reviewID, nil
}

func (h *ReviewHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTitleNotFound), errors.Is(err, service.ErrReviewNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicateReview):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
