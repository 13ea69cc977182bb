package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/dto"
	"reviewhub/internal/middleware"
	"reviewhub/internal/service"
)

type CommentHandler struct {
	svc service.CommentService
}

func NewCommentHandler(svc service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// RegisterRoutes mounts the doubly nested collection under a review.
func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.GET("/:comment_id", h.Get)
	rg.POST("", auth, h.Create)
	rg.PATCH("/:comment_id", auth, h.Update)
	rg.DELETE("/:comment_id", auth, h.Delete)
}

// List handles GET .../reviews/:review_id/comments, ordered by pub_date.
func (h *CommentHandler) List(c *gin.Context) {
	titleID, reviewID, err := h.parseParents(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page := dto.PageFromContext(c)
	comments, total, err := h.svc.List(c.Request.Context(), titleID, reviewID, page)
	if err != nil {
		h.writeError(c, err)
		return
	}

	results := make([]dto.CommentResponse, 0, len(comments))
	for _, cm := range comments {
		results = append(results, dto.CommentFromModel(cm))
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(results, total, page))
}

// Get handles GET .../comments/:comment_id
func (h *CommentHandler) Get(c *gin.Context) {
	titleID, reviewID, err := h.parseParents(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	commentID, err := parseID(c, "comment_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	comment, err := h.svc.Get(c.Request.Context(), titleID, reviewID, commentID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CommentFromModel(*comment))
}

// Create handles POST .../reviews/:review_id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	titleID, reviewID, err := h.parseParents(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req dto.CreateCommentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.svc.Create(c.Request.Context(), titleID, reviewID, claims, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CommentFromModel(*comment))
}

// Update handles PATCH .../comments/:comment_id
func (h *CommentHandler) Update(c *gin.Context) {
	titleID, reviewID, err := h.parseParents(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	commentID, err := parseID(c, "comment_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req dto.UpdateCommentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.svc.Update(c.Request.Context(), titleID, reviewID, commentID, claims, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CommentFromModel(*comment))
}

// Delete handles DELETE .../comments/:comment_id
func (h *CommentHandler) Delete(c *gin.Context) {
	titleID, reviewID, err := h.parseParents(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	commentID, err := parseID(c, "comment_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), titleID, reviewID, commentID, claims); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CommentHandler) parseParents(c *gin.Context) (titleID, reviewID int64, err error) {
	if titleID, err = parseID(c, "title_id"); err != nil {
		return 0, 0, errors.New("invalid title id")
	}
	if reviewID, err = parseID(c, "review_id"); err != nil {
		return 0, 0, errors.New("invalid review id")
	}
	return titleID, reviewID, nil
}

func (h *CommentHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTitleNotFound), errors.Is(err, service.ErrReviewNotFound),
		errors.Is(err, service.ErrCommentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
