package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/dto"
	"reviewhub/internal/middleware"
	"reviewhub/internal/service"
)

type GenreHandler struct {
	svc service.GenreService
}

func NewGenreHandler(svc service.GenreService) *GenreHandler {
	return &GenreHandler{svc: svc}
}

func (h *GenreHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.POST("", auth, middleware.RequireAdmin(), h.Create)
	rg.DELETE("/:slug", auth, middleware.RequireAdmin(), h.Delete)
}

// List handles GET /v1/genres?search=name (exact-name filter)
func (h *GenreHandler) List(c *gin.Context) {
	page := dto.PageFromContext(c)
	list, total, err := h.svc.List(c.Request.Context(), c.Query("search"), page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	results := make([]dto.GenreResponse, 0, len(list))
	for _, g := range list {
		results = append(results, dto.GenreFromModel(g))
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(results, total, page))
}

// Create handles POST /v1/genres
func (h *GenreHandler) Create(c *gin.Context) {
	var req dto.CreateGenreDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrSlugTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"slug": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.GenreFromModel(*g))
}

// Delete handles DELETE /v1/genres/:slug
func (h *GenreHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteBySlug(c.Request.Context(), c.Param("slug")); err != nil {
		if errors.Is(err, service.ErrGenreNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
