package dto

import (
	"time"

	"reviewhub/internal/models"
)

// ReviewResponse identifies the author by username, matching the public API.
type ReviewResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	Title   int64     `json:"title"`
	PubDate time.Time `json:"pub_date"`
}

func ReviewFromModel(r models.Review) ReviewResponse {
	return ReviewResponse{
		ID:      r.ID,
		Text:    r.Text,
		Author:  r.Author.Username,
		Score:   r.Score,
		Title:   r.TitleID,
		PubDate: r.PubDate,
	}
}

// CreateReviewDTO used for POST /v1/titles/:title_id/reviews
type CreateReviewDTO struct {
	Text  string `json:"text" binding:"required"`
	Score int    `json:"score" binding:"required,min=1,max=10"`
}

// UpdateReviewDTO used for PATCH on a review (partial updates allowed)
type UpdateReviewDTO struct {
	Text  *string `json:"text,omitempty"`
	Score *int    `json:"score,omitempty" binding:"omitempty,min=1,max=10"`
}
