package ports

import (
	"context"
	"time"
	"tour-guide-service/internal/domain"

	"github.com/google/uuid"
)

// Port: a boundary for reading and writing tours with their stops and media.
type TourRepository interface {
	// Approved tours ordered by title, without stops.
	ListApproved(ctx context.Context) ([]*domain.Tour, error)
	// A tour with stops and media loaded, whatever its status. ErrNotFound if missing.
	GetTour(ctx context.Context, tourID uuid.UUID) (*domain.Tour, error)
	// Persist a tour, its stops and media atomically.
	CreateTour(ctx context.Context, tour *domain.Tour) error
	// Summaries newest first; creatorID narrows to one author when non-nil.
	ListSummaries(ctx context.Context, creatorID *uuid.UUID) ([]domain.TourSummary, error)
	// Write a new status if the stored version still equals expectedVersion.
	// ErrNotFound if missing, ErrConcurrentUpdate on version mismatch.
	UpdateStatus(ctx context.Context, tourID uuid.UUID, status domain.TourStatus, expectedVersion int, at time.Time) error
	// Delete a tour; stops, media and comments cascade. ErrNotFound if missing.
	DeleteTour(ctx context.Context, tourID uuid.UUID) error
	// Store cached route estimates for a tour.
	UpdateRouteEstimates(ctx context.Context, tourID uuid.UUID, distanceMeters, durationMinutes int) error
}
