package dto

import (
	"time"
	"tour-guide-service/internal/domain"

	"github.com/google/uuid"
)

type AddCommentRequest struct {
	Text   string `json:"text" validate:"required,min=1,max=1000"`
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
}

type CommentResponse struct {
	CommentID uuid.UUID `json:"commentId"`
	UserID    uuid.UUID `json:"userId"`
	UserName  string    `json:"userName"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewCommentResponse(c domain.CommentView) CommentResponse {
	return CommentResponse{
		CommentID: c.CommentID,
		UserID:    c.UserID,
		UserName:  c.UserName,
		Text:      c.Text,
		Rating:    c.Rating,
		CreatedAt: c.CreatedAt,
	}
}
