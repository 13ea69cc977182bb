package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/dto"
	"reviewhub/internal/middleware"
	"reviewhub/internal/service"
)

type CategoryHandler struct {
	svc service.CategoryService
}

func NewCategoryHandler(svc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// RegisterRoutes: listing is public, writes are admin-only. Categories
// have no update endpoint, only create and delete.
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.POST("", auth, middleware.RequireAdmin(), h.Create)
	rg.DELETE("/:slug", auth, middleware.RequireAdmin(), h.Delete)
}

// List handles GET /v1/categories?search=name (exact-name filter)
func (h *CategoryHandler) List(c *gin.Context) {
	page := dto.PageFromContext(c)
	list, total, err := h.svc.List(c.Request.Context(), c.Query("search"), page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	results := make([]dto.CategoryResponse, 0, len(list))
	for _, cat := range list {
		results = append(results, dto.CategoryFromModel(cat))
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(results, total, page))
}

// Create handles POST /v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cat, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrSlugTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"slug": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.CategoryFromModel(*cat))
}

// Delete handles DELETE /v1/categories/:slug with a proper empty 204.
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteBySlug(c.Request.Context(), c.Param("slug")); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
