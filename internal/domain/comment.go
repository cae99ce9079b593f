package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinRating         = 1
	MaxRating         = 5
	MaxCommentLength  = 1000
	UnknownAuthorName = "Unknown"
)

// Comment is a rated remark left on a tour by a user.
type Comment struct {
	CommentID uuid.UUID
	TourID    uuid.UUID
	UserID    uuid.UUID
	Text      string
	Rating    int
	CreatedAt time.Time
}

// CommentView is a comment joined with its author's username.
type CommentView struct {
	Comment
	UserName string
}
