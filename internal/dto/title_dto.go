package dto

import "reviewhub/internal/models"

// TitleResponse carries the nested read representation, rating included.
// The genre key stays singular for wire compatibility with existing clients.
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Description *string           `json:"description,omitempty"`
	Category    *CategoryResponse `json:"category"`
	Genres      []GenreResponse   `json:"genre"`
	Rating      *float64          `json:"rating"`
}

func TitleFromModel(t models.Title) TitleResponse {
	resp := TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Description: t.Description,
		Genres:      make([]GenreResponse, 0, len(t.Genres)),
		Rating:      t.Rating,
	}
	if t.Category != nil {
		cat := CategoryFromModel(*t.Category)
		resp.Category = &cat
	}
	for _, g := range t.Genres {
		resp.Genres = append(resp.Genres, GenreFromModel(g))
	}
	return resp
}

// CreateTitleDTO used for POST /v1/titles; category and genres referenced by
// slug. Year is a pointer so that year 0 binds as present rather than missing.
type CreateTitleDTO struct {
	Name        string   `json:"name" binding:"required,max=200"`
	Year        *int     `json:"year" binding:"required"`
	Description *string  `json:"description,omitempty" binding:"omitempty,max=200"`
	Category    string   `json:"category" binding:"required"`
	Genres      []string `json:"genre" binding:"required"`
}

// UpdateTitleDTO used for PATCH /v1/titles/:title_id (partial updates allowed)
type UpdateTitleDTO struct {
	Name        *string   `json:"name,omitempty" binding:"omitempty,max=200"`
	Year        *int      `json:"year,omitempty"`
	Description *string   `json:"description,omitempty" binding:"omitempty,max=200"`
	Category    *string   `json:"category,omitempty"`
	Genres      *[]string `json:"genre,omitempty"`
}

// TitleFilters collects the supported list filters; all combine with AND.
type TitleFilters struct {
	Name     string
	Category string
	Genre    string
	Year     *int
	PageQuery
}
