package dto

import "reviewhub/internal/models"

type GenreResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func GenreFromModel(g models.Genre) GenreResponse {
	return GenreResponse{Name: g.Name, Slug: g.Slug}
}

// CreateGenreDTO used for POST /v1/genres
type CreateGenreDTO struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50"`
}

func (d CreateGenreDTO) ToModel() models.Genre {
	return models.Genre{NameSlug: models.NameSlug{Name: d.Name, Slug: d.Slug}}
}
