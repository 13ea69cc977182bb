package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/dto"
	"reviewhub/internal/middleware"
	"reviewhub/internal/service"
)

type TitleHandler struct {
	svc service.TitleService
}

func NewTitleHandler(svc service.TitleService) *TitleHandler {
	return &TitleHandler{svc: svc}
}

func (h *TitleHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.GET("/:title_id", h.Get)
	rg.POST("", auth, middleware.RequireAdmin(), h.Create)
	rg.PATCH("/:title_id", auth, middleware.RequireAdmin(), h.Update)
	rg.DELETE("/:title_id", auth, middleware.RequireAdmin(), h.Delete)
}

// List handles GET /v1/titles with the name/category/genre/year filters.
func (h *TitleHandler) List(c *gin.Context) {
	filters := dto.TitleFilters{
		Name:      c.Query("name"),
		Category:  c.Query("category"),
		Genre:     c.Query("genre"),
		PageQuery: dto.PageFromContext(c),
	}
	if yearStr := c.Query("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year filter"})
			return
		}
		filters.Year = &year
	}

	titles, total, err := h.svc.List(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	results := make([]dto.TitleResponse, 0, len(titles))
	for _, t := range titles {
		results = append(results, dto.TitleFromModel(t))
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(results, total, filters.PageQuery))
}

// Get handles GET /v1/titles/:title_id
func (h *TitleHandler) Get(c *gin.Context) {
	id, err := parseID(c, "title_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid title id"})
		return
	}

	title, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTitleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.TitleFromModel(*title))
}

// Create handles POST /v1/titles
func (h *TitleHandler) Create(c *gin.Context) {
	var req dto.CreateTitleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.TitleFromModel(*title))
}

// Update handles PATCH /v1/titles/:title_id
func (h *TitleHandler) Update(c *gin.Context) {
	id, err := parseID(c, "title_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid title id"})
		return
	}

	var req dto.UpdateTitleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TitleFromModel(*title))
}

// Delete handles DELETE /v1/titles/:title_id
func (h *TitleHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "title_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid title id"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrTitleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TitleHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTitleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrYearOutOfRange):
		c.JSON(http.StatusBadRequest, gin.H{"year": err.Error()})
	case errors.Is(err, service.ErrUnknownCategorySlug):
		c.JSON(http.StatusBadRequest, gin.H{"category": err.Error()})
	case errors.Is(err, service.ErrUnknownGenreSlug):
		c.JSON(http.StatusBadRequest, gin.H{"genre": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseID(c *gin.Context, param string) (int64, error) {
	return strconv.ParseInt(c.Param(param), 10, 64)
}
