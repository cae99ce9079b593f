package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"tour-guide-service/internal/domain"
	"tour-guide-service/internal/platform/logging"
	"tour-guide-service/internal/platform/obs"
	"tour-guide-service/internal/ports"
	"unicode/utf8"

	"github.com/google/uuid"
)

var ErrInvalidComment = errors.New("invalid comment")

type CommentService struct {
	comments ports.CommentRepository
	users    ports.UserRepository
	now      func() time.Time
}

func NewCommentService(comments ports.CommentRepository, users ports.UserRepository) *CommentService {
	return &CommentService{comments: comments, users: users, now: time.Now}
}

// AddComment stores a rated comment and returns it with the author's name.
// ports.ErrNotFound is returned when the tour does not exist.
func (s *CommentService) AddComment(ctx context.Context, tourID, userID uuid.UUID, text string, rating int) (_ *domain.CommentView, err error) {
	defer obs.Time(ctx, "comments.AddComment")(&err)

	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > domain.MaxCommentLength {
		return nil, fmt.Errorf("%w: text must be 1..%d characters", ErrInvalidComment, domain.MaxCommentLength)
	}
	if rating < domain.MinRating || rating > domain.MaxRating {
		return nil, fmt.Errorf("%w: rating must be %d..%d", ErrInvalidComment, domain.MinRating, domain.MaxRating)
	}

	c := &domain.Comment{
		CommentID: uuid.New(),
		TourID:    tourID,
		UserID:    userID,
		Text:      text,
		Rating:    rating,
		CreatedAt: s.now().UTC(),
	}
	if err := s.comments.CreateComment(ctx, c); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}

	name := domain.UnknownAuthorName
	u, err := s.users.FindByID(ctx, userID)
	switch {
	case err == nil:
		name = u.UserName
	case !errors.Is(err, ports.ErrNotFound):
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID.String()).Msg("comment author lookup failed")
	}

	return &domain.CommentView{Comment: *c, UserName: name}, nil
}

// ListComments returns a tour's comments newest first.
func (s *CommentService) ListComments(ctx context.Context, tourID uuid.UUID) ([]domain.CommentView, error) {
	comments, err := s.comments.ListByTour(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// DeleteComment removes the comment only when requesterID wrote it. A missing
// comment and someone else's comment both report false.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, requesterID uuid.UUID) (bool, error) {
	c, err := s.comments.GetComment(ctx, commentID)
	if errors.Is(err, ports.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete comment: get: %w", err)
	}
	if c.UserID != requesterID {
		return false, nil
	}

	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("delete comment: %w", err)
	}
	return true, nil
}
