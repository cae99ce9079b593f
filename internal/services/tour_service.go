package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
	"tour-guide-service/internal/domain"
	"tour-guide-service/internal/platform/logging"
	"tour-guide-service/internal/platform/obs"
	"tour-guide-service/internal/ports"

	"github.com/google/uuid"
)

// TourService serves the public catalogue and tour authoring.
type TourService struct {
	tours      ports.TourRepository
	directions ports.DirectionsProvider
	now        func() time.Time
}

func NewTourService(tours ports.TourRepository, directions ports.DirectionsProvider) *TourService {
	return &TourService{tours: tours, directions: directions, now: time.Now}
}

// ListApproved returns approved tours ordered by title.
func (s *TourService) ListApproved(ctx context.Context) (_ []*domain.Tour, err error) {
	defer obs.Time(ctx, "tours.ListApproved")(&err)

	tours, err := s.tours.ListApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("list approved tours: %w", err)
	}
	return tours, nil
}

// Details returns the routed aggregate of an approved tour. Missing and
// unapproved tours both yield ports.ErrNotFound.
func (s *TourService) Details(ctx context.Context, tourID uuid.UUID) (_ *domain.TourAggregate, err error) {
	defer obs.Time(ctx, "tours.Details")(&err)

	t, err := s.tours.GetTour(ctx, tourID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("tour details: %w", err)
	}
	if t.Status != domain.TourStatusApproved {
		return nil, ports.ErrNotFound
	}

	agg := EnrichRoute(ctx, BuildTourAggregate(t), s.directions)
	s.storeEstimates(ctx, t, agg)

	return &agg, nil
}

// storeEstimates caches route totals on the tour row. Failures only log.
func (s *TourService) storeEstimates(ctx context.Context, t *domain.Tour, agg domain.TourAggregate) {
	if agg.TotalDistanceMeters == nil || agg.TotalDurationSeconds == nil {
		return
	}

	distance := int(math.Round(*agg.TotalDistanceMeters))
	minutes := int(math.Round(*agg.TotalDurationSeconds / 60))
	if t.EstimatedDistanceMeters != nil && *t.EstimatedDistanceMeters == distance &&
		t.EstimatedDurationMinutes != nil && *t.EstimatedDurationMinutes == minutes {
		return
	}

	if err := s.tours.UpdateRouteEstimates(ctx, t.TourID, distance, minutes); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("tour_id", t.TourID.String()).Msg("could not store route estimates")
	}
}

type CreateTourInput struct {
	Title       string
	Description string
	Theme       string
	Stops       []domain.NewStopInput
}

// Create stores a new Draft tour and returns its aggregate without routing.
func (s *TourService) Create(ctx context.Context, creatorID uuid.UUID, in CreateTourInput) (_ *domain.TourAggregate, err error) {
	defer obs.Time(ctx, "tours.Create")(&err)

	t := domain.NewTour(creatorID, in.Title, in.Description, in.Theme, in.Stops, s.now().UTC())
	if err := s.tours.CreateTour(ctx, t); err != nil {
		return nil, fmt.Errorf("create tour: %w", err)
	}

	logging.Ctx(ctx).Info().
		Str("tour_id", t.TourID.String()).
		Str("creator_id", creatorID.String()).
		Int("stops", len(t.Stops)).
		Msg("tour created")

	agg := BuildTourAggregate(t)
	return &agg, nil
}
