package dto

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PageQuery holds the page-number pagination parameters shared by all list
// endpoints.
type PageQuery struct {
	Page     int
	PageSize int
}

// PageFromContext reads ?page and ?page_size with sane bounds.
func PageFromContext(c *gin.Context) PageQuery {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	return PageQuery{Page: page, PageSize: pageSize}
}

func (p PageQuery) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PaginatedResponse is the common envelope for list endpoints.
type PaginatedResponse struct {
	Count    int64       `json:"count"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Results  interface{} `json:"results"`
}

func NewPaginatedResponse(results interface{}, count int64, q PageQuery) PaginatedResponse {
	return PaginatedResponse{
		Count:    count,
		Page:     q.Page,
		PageSize: q.PageSize,
		Results:  results,
	}
}
