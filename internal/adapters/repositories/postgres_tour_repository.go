package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"tour-guide-service/internal/domain"
	"tour-guide-service/internal/ports"

	"github.com/google/uuid"
)

// PostgresTourRepository stores tours, their stops and stop media in Postgres.
type PostgresTourRepository struct {
	db *sql.DB
}

func NewPostgresTourRepository(db *sql.DB) *PostgresTourRepository {
	return &PostgresTourRepository{db: db}
}

const tourColumns = `tour_id, creator_user_id, title, description, theme, cover_image_url, status,
	estimated_distance_meters, estimated_duration_minutes, created_at, updated_at, version`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTour(row rowScanner) (*domain.Tour, error) {
	var (
		t                              domain.Tour
		description, theme, coverImage sql.NullString
		status                         string
		distance, duration             sql.NullInt64
	)
	err := row.Scan(
		&t.TourID, &t.CreatorUserID, &t.Title, &description, &theme, &coverImage, &status,
		&distance, &duration, &t.CreatedAt, &t.UpdatedAt, &t.Version,
	)
	if err != nil {
		return nil, err
	}

	t.Description = description.String
	t.Theme = theme.String
	t.CoverImageURL = coverImage.String
	t.Status = domain.TourStatus(status)
	if distance.Valid {
		v := int(distance.Int64)
		t.EstimatedDistanceMeters = &v
	}
	if duration.Valid {
		v := int(duration.Int64)
		t.EstimatedDurationMinutes = &v
	}
	return &t, nil
}

func (r *PostgresTourRepository) ListApproved(ctx context.Context) ([]*domain.Tour, error) {
	query := `SELECT ` + tourColumns + ` FROM tours WHERE status = $1 ORDER BY title;`

	rows, err := r.db.QueryContext(ctx, query, string(domain.TourStatusApproved))
	if err != nil {
		return nil, fmt.Errorf("list approved tours: query: %w", err)
	}
	defer rows.Close()

	var tours []*domain.Tour
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, fmt.Errorf("list approved tours: scan: %w", err)
		}
		tours = append(tours, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list approved tours: rows: %w", err)
	}

	return tours, nil
}

func (r *PostgresTourRepository) GetTour(ctx context.Context, id uuid.UUID) (*domain.Tour, error) {
	query := `SELECT ` + tourColumns + ` FROM tours WHERE tour_id = $1;`

	t, err := scanTour(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tour: scan: %w", err)
	}

	stops, err := r.loadStops(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Stops = stops

	return t, nil
}

func (r *PostgresTourRepository) loadStops(ctx context.Context, tourID uuid.UUID) ([]domain.Stop, error) {
	stopsQuery := `
	SELECT tour_point_id, tour_id, name, text_description, latitude, longitude, point_order
	FROM tour_points
	WHERE tour_id = $1
	ORDER BY point_order;
	`

	rows, err := r.db.QueryContext(ctx, stopsQuery, tourID)
	if err != nil {
		return nil, fmt.Errorf("get tour: query stops: %w", err)
	}
	defer rows.Close()

	var stops []domain.Stop
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			s          domain.Stop
			name, text sql.NullString
		)
		if err := rows.Scan(&s.StopID, &s.TourID, &name, &text, &s.Latitude, &s.Longitude, &s.Order); err != nil {
			return nil, fmt.Errorf("get tour: scan stop: %w", err)
		}
		s.Name = name.String
		s.TextDescription = text.String
		index[s.StopID] = len(stops)
		stops = append(stops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get tour: stop rows: %w", err)
	}
	if len(stops) == 0 {
		return stops, nil
	}

	mediaQuery := `
	SELECT m.media_id, m.tour_point_id, m.url, m.title, m.media_order
	FROM point_media m
	JOIN tour_points p ON p.tour_point_id = m.tour_point_id
	WHERE p.tour_id = $1
	ORDER BY m.tour_point_id, m.media_order;
	`

	mediaRows, err := r.db.QueryContext(ctx, mediaQuery, tourID)
	if err != nil {
		return nil, fmt.Errorf("get tour: query media: %w", err)
	}
	defer mediaRows.Close()

	for mediaRows.Next() {
		var (
			m     domain.Media
			title sql.NullString
		)
		if err := mediaRows.Scan(&m.MediaID, &m.StopID, &m.URL, &title, &m.Order); err != nil {
			return nil, fmt.Errorf("get tour: scan media: %w", err)
		}
		m.Title = title.String
		if i, ok := index[m.StopID]; ok {
			stops[i].Media = append(stops[i].Media, m)
		}
	}
	if err := mediaRows.Err(); err != nil {
		return nil, fmt.Errorf("get tour: media rows: %w", err)
	}

	return stops, nil
}

// CreateTour writes the tour with all stops and media in a single transaction.
func (r *PostgresTourRepository) CreateTour(ctx context.Context, t *domain.Tour) error {
	if t == nil {
		return errors.New("create tour: tour is nil")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create tour: begin tx: %w", err)
	}
	defer rollback(ctx, tx, "create tour")

	insertTourQuery := `
	INSERT INTO tours (` + tourColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`

	var distance, duration sql.NullInt64
	if t.EstimatedDistanceMeters != nil {
		distance = sql.NullInt64{Int64: int64(*t.EstimatedDistanceMeters), Valid: true}
	}
	if t.EstimatedDurationMinutes != nil {
		duration = sql.NullInt64{Int64: int64(*t.EstimatedDurationMinutes), Valid: true}
	}

	_, err = tx.ExecContext(ctx, insertTourQuery,
		t.TourID, t.CreatorUserID, t.Title, nullString(t.Description), nullString(t.Theme),
		nullString(t.CoverImageURL), string(t.Status), distance, duration,
		t.CreatedAt, t.UpdatedAt, t.Version,
	)
	if err != nil {
		switch pgCode(err) {
		case pgUniqueViolation:
			return fmt.Errorf("create tour: %w", ports.ErrConflict)
		case pgForeignKeyViolation:
			return fmt.Errorf("create tour: creator %s: %w", t.CreatorUserID, ports.ErrNotFound)
		}
		return fmt.Errorf("create tour: insert tour: %w", err)
	}

	insertStopQuery := `
	INSERT INTO tour_points (tour_point_id, tour_id, name, text_description, point_order, latitude, longitude)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	insertMediaQuery := `
	INSERT INTO point_media (media_id, tour_point_id, url, title, media_order)
	VALUES ($1, $2, $3, $4, $5);
	`

	for _, s := range t.Stops {
		_, err := tx.ExecContext(ctx, insertStopQuery,
			s.StopID, t.TourID, nullString(s.Name), nullString(s.TextDescription), s.Order, s.Latitude, s.Longitude,
		)
		if err != nil {
			return fmt.Errorf("create tour: insert stop %d: %w", s.Order, err)
		}

		for _, m := range s.Media {
			if _, err := tx.ExecContext(ctx, insertMediaQuery, m.MediaID, s.StopID, m.URL, nullString(m.Title), m.Order); err != nil {
				return fmt.Errorf("create tour: insert media for stop %d: %w", s.Order, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create tour: commit tx: %w", err)
	}

	return nil
}

func (r *PostgresTourRepository) ListSummaries(ctx context.Context, creatorID *uuid.UUID) ([]domain.TourSummary, error) {
	query := `
	SELECT t.tour_id, t.title, t.creator_user_id, COALESCE(u.full_name, ''), t.status, t.created_at
	FROM tours t
	LEFT JOIN users u ON u.user_id = t.creator_user_id
	`
	var args []any
	if creatorID != nil {
		query += ` WHERE t.creator_user_id = $1`
		args = append(args, *creatorID)
	}
	query += ` ORDER BY t.created_at DESC;`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tour summaries: query: %w", err)
	}
	defer rows.Close()

	summaries := make([]domain.TourSummary, 0)
	for rows.Next() {
		var (
			s      domain.TourSummary
			status string
		)
		if err := rows.Scan(&s.TourID, &s.Title, &s.CreatorUserID, &s.CreatorFullName, &status, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("list tour summaries: scan: %w", err)
		}
		s.Status = domain.TourStatus(status)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tour summaries: rows: %w", err)
	}

	return summaries, nil
}

// UpdateStatus applies the change only when the stored version still matches.
func (r *PostgresTourRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TourStatus, expectedVersion int, at time.Time) error {
	query := `
	UPDATE tours
	SET status = $1, updated_at = $2, version = version + 1
	WHERE tour_id = $3 AND version = $4;
	`

	res, err := r.db.ExecContext(ctx, query, string(status), at, id, expectedVersion)
	if err != nil {
		return fmt.Errorf("update tour status: exec: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update tour status: rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	exists, err := r.exists(ctx, id)
	if err != nil {
		return fmt.Errorf("update tour status: %w", err)
	}
	if !exists {
		return ports.ErrNotFound
	}
	return ports.ErrConcurrentUpdate
}

func (r *PostgresTourRepository) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM tours WHERE tour_id = $1);`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check tour exists: %w", err)
	}
	return exists, nil
}

// DeleteTour removes the tour; stops, media and comments go with it.
func (r *PostgresTourRepository) DeleteTour(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tours WHERE tour_id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete tour: exec: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete tour: rows affected: %w", err)
	}
	if n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *PostgresTourRepository) UpdateRouteEstimates(ctx context.Context, id uuid.UUID, distanceMeters, durationMinutes int) error {
	query := `
	UPDATE tours
	SET estimated_distance_meters = $1, estimated_duration_minutes = $2
	WHERE tour_id = $3;
	`

	res, err := r.db.ExecContext(ctx, query, distanceMeters, durationMinutes, id)
	if err != nil {
		return fmt.Errorf("update route estimates: exec: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update route estimates: rows affected: %w", err)
	}
	if n == 0 {
		return ports.ErrNotFound
	}
	return nil
}
