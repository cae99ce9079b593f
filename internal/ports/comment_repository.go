package ports

import (
	"context"
	"tour-guide-service/internal/domain"

	"github.com/google/uuid"
)

// Port: persistence of tour comments.
type CommentRepository interface {
	CreateComment(ctx context.Context, c *domain.Comment) error
	// Comments of a tour with author names, newest first.
	ListByTour(ctx context.Context, tourID uuid.UUID) ([]domain.CommentView, error)
	// ErrNotFound if missing.
	GetComment(ctx context.Context, commentID uuid.UUID) (*domain.Comment, error)
	// ErrNotFound if missing.
	DeleteComment(ctx context.Context, commentID uuid.UUID) error
}
