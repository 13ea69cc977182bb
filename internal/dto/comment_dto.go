package dto

import (
	"time"

	"reviewhub/internal/models"
)

type CommentResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Review  int64     `json:"review"`
	PubDate time.Time `json:"pub_date"`
}

func CommentFromModel(cm models.Comment) CommentResponse {
	return CommentResponse{
		ID:      cm.ID,
		Text:    cm.Text,
		Author:  cm.Author.Username,
		Review:  cm.ReviewID,
		PubDate: cm.PubDate,
	}
}

// CreateCommentDTO used for POST on the nested comments collection
type CreateCommentDTO struct {
	Text string `json:"text" binding:"required"`
}

// UpdateCommentDTO used for PATCH on a comment
type UpdateCommentDTO struct {
	Text *string `json:"text,omitempty"`
}
