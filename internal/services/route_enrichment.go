package services

import (
	"context"
	"tour-guide-service/internal/domain"
	"tour-guide-service/internal/platform/logging"
	"tour-guide-service/internal/ports"
)

// Attach a walking route to an assembled tour.
//
// Fewer than two stops need no route and the provider is not called.
// Otherwise the first returned feature becomes the single route segment and
// its summary, when present, fills the totals. Provider failures and empty
// results are logged and the aggregate is returned without route data.
func EnrichRoute(ctx context.Context, agg domain.TourAggregate, provider ports.DirectionsProvider) domain.TourAggregate {
	if len(agg.Stops) < 2 || provider == nil {
		return agg
	}

	log := logging.Ctx(ctx)

	res, err := provider.GetRoute(ctx, agg.Waypoints(), ports.ProfileFoot)
	if err != nil {
		log.Warn().Err(err).Str("tour_id", agg.TourID.String()).Int("stops", len(agg.Stops)).
			Msg("route unavailable, returning tour without route")
		return agg
	}
	if res == nil || len(res.Features) == 0 {
		log.Warn().Str("tour_id", agg.TourID.String()).Msg("directions returned no features")
		return agg
	}

	first := res.Features[0]
	if len(first.Geometry) > 0 {
		geometry := make([]domain.Coordinates, len(first.Geometry))
		copy(geometry, first.Geometry)
		agg.RouteSegmentsGeometry = [][]domain.Coordinates{geometry}
	}

	if first.Summary != nil {
		distance := first.Summary.DistanceMeters
		duration := first.Summary.DurationSeconds
		agg.TotalDistanceMeters = &distance
		agg.TotalDurationSeconds = &duration
	}

	return agg
}
