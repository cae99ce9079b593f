package ports

import (
	"context"
	"errors"
	"tour-guide-service/internal/domain"
)

// Travel profile understood by the directions provider.
type Profile string

const (
	ProfileFoot    Profile = "foot-walking"
	ProfileDriving Profile = "driving-car"
	ProfileCycling Profile = "cycling-regular"
)

var (
	ErrTooFewCoordinates = errors.New("directions: at least 2 coordinates are required")
	ErrNoAPIKey          = errors.New("directions: api key is not configured")
)

// Aggregate metrics of a routed feature.
type RouteSummary struct {
	DistanceMeters  float64
	DurationSeconds float64
}

// A single routed feature: its polyline and, when the provider reports it, a summary.
type RouteFeature struct {
	Geometry []domain.Coordinates
	Summary  *RouteSummary
}

// Result of a directions lookup. Features may be empty.
type DirectionsResult struct {
	Features []RouteFeature
}

// Contract for computing a route through ordered waypoints.
type DirectionsProvider interface {
	// Return the route through coordinates (lon/lat, in order) for the given profile.
	// Any failure is reported through the error; implementations never panic.
	GetRoute(ctx context.Context, coordinates []domain.Coordinates, profile Profile) (*DirectionsResult, error)
}
