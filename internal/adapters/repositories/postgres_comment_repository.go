package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"tour-guide-service/internal/domain"
	"tour-guide-service/internal/ports"

	"github.com/google/uuid"
)

type PostgresCommentRepository struct {
	db *sql.DB
}

func NewPostgresCommentRepository(db *sql.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

func (r *PostgresCommentRepository) CreateComment(ctx context.Context, c *domain.Comment) error {
	if c == nil {
		return errors.New("create comment: comment is nil")
	}

	query := `
	INSERT INTO tour_comments (comment_id, tour_id, user_id, text, rating, created_at)
	VALUES ($1, $2, $3, $4, $5, $6);
	`

	_, err := r.db.ExecContext(ctx, query, c.CommentID, c.TourID, c.UserID, c.Text, c.Rating, c.CreatedAt)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return fmt.Errorf("create comment: tour %s: %w", c.TourID, ports.ErrNotFound)
		}
		return fmt.Errorf("create comment: insert: %w", err)
	}
	return nil
}

func (r *PostgresCommentRepository) ListByTour(ctx context.Context, tourID uuid.UUID) ([]domain.CommentView, error) {
	query := `
	SELECT c.comment_id, c.tour_id, c.user_id, c.text, c.rating, c.created_at, COALESCE(u.user_name, $2)
	FROM tour_comments c
	LEFT JOIN users u ON u.user_id = c.user_id
	WHERE c.tour_id = $1
	ORDER BY c.created_at DESC;
	`

	rows, err := r.db.QueryContext(ctx, query, tourID, domain.UnknownAuthorName)
	if err != nil {
		return nil, fmt.Errorf("list comments: query: %w", err)
	}
	defer rows.Close()

	comments := make([]domain.CommentView, 0)
	for rows.Next() {
		var c domain.CommentView
		if err := rows.Scan(&c.CommentID, &c.TourID, &c.UserID, &c.Text, &c.Rating, &c.CreatedAt, &c.UserName); err != nil {
			return nil, fmt.Errorf("list comments: scan: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list comments: rows: %w", err)
	}

	return comments, nil
}

func (r *PostgresCommentRepository) GetComment(ctx context.Context, commentID uuid.UUID) (*domain.Comment, error) {
	query := `
	SELECT comment_id, tour_id, user_id, text, rating, created_at
	FROM tour_comments
	WHERE comment_id = $1;
	`

	var c domain.Comment
	err := r.db.QueryRowContext(ctx, query, commentID).Scan(&c.CommentID, &c.TourID, &c.UserID, &c.Text, &c.Rating, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: scan: %w", err)
	}
	return &c, nil
}

func (r *PostgresCommentRepository) DeleteComment(ctx context.Context, commentID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tour_comments WHERE comment_id = $1;`, commentID)
	if err != nil {
		return fmt.Errorf("delete comment: exec: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete comment: rows affected: %w", err)
	}
	if n == 0 {
		return ports.ErrNotFound
	}
	return nil
}
