package services

import (
	"context"
	"errors"
	"testing"
	"tour-guide-service/internal/adapters/directions"
	"tour-guide-service/internal/domain"
	"tour-guide-service/internal/ports"

	"github.com/google/uuid"
)

func stop(name string, order int, lat, lon float64, urls ...string) domain.Stop {
	s := domain.Stop{StopID: uuid.New(), Name: name, Order: order, Latitude: lat, Longitude: lon}
	for i, u := range urls {
		s.Media = append(s.Media, domain.Media{MediaID: uuid.New(), URL: u, Order: i + 1})
	}
	return s
}

func TestBuildTourAggregateSortsStops(t *testing.T) {
	c := stop("C", 3, 3, 30)
	a := stop("A", 1, 1, 10)
	b1 := stop("B1", 2, 2, 20)
	b2 := stop("B2", 2, 2.5, 25)
	a.Media = []domain.Media{
		{MediaID: uuid.New(), URL: "second", Order: 2},
		{MediaID: uuid.New(), URL: "first", Order: 1},
	}

	tour := &domain.Tour{TourID: uuid.New(), Title: "T", Description: "D", Stops: []domain.Stop{c, b1, a, b2}}

	agg := BuildTourAggregate(tour)

	want := []string{"A", "B1", "B2", "C"}
	if len(agg.Stops) != len(want) {
		t.Fatalf("expected %d stops, got %d", len(want), len(agg.Stops))
	}
	for i, name := range want {
		if agg.Stops[i].Name != name {
			t.Fatalf("stop %d = %q, want %q", i, agg.Stops[i].Name, name)
		}
	}
	if got := agg.Stops[0].ImageURLs; len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Fatalf("image urls = %v, want [first second]", got)
	}
	if agg.Title != "T" || agg.Description != "D" || agg.TourID != tour.TourID {
		t.Fatalf("header fields not copied: %+v", agg)
	}
	if agg.RouteSegmentsGeometry != nil || agg.TotalDistanceMeters != nil {
		t.Fatalf("builder must not attach route data")
	}
	if tour.Stops[0].Name != "C" {
		t.Fatalf("input stops were reordered")
	}
}

func routeResult(summary *ports.RouteSummary) *ports.DirectionsResult {
	return &ports.DirectionsResult{Features: []ports.RouteFeature{
		{
			Geometry: []domain.Coordinates{{Lon: 10, Lat: 1}, {Lon: 15, Lat: 1.5}, {Lon: 20, Lat: 2}},
			Summary:  summary,
		},
		{Geometry: []domain.Coordinates{{Lon: 0, Lat: 0}}},
	}}
}

func twoStopAggregate() domain.TourAggregate {
	return BuildTourAggregate(&domain.Tour{
		TourID: uuid.New(),
		Stops:  []domain.Stop{stop("B", 2, 2, 20), stop("A", 1, 1, 10)},
	})
}

func TestEnrichRouteSkipsShortTours(t *testing.T) {
	provider := directions.NewMockDirectionsProvider(routeResult(nil), nil)

	for _, stops := range [][]domain.Stop{nil, {stop("A", 1, 1, 10)}} {
		agg := BuildTourAggregate(&domain.Tour{TourID: uuid.New(), Stops: stops})
		out := EnrichRoute(context.Background(), agg, provider)
		if out.RouteSegmentsGeometry != nil || out.TotalDistanceMeters != nil {
			t.Fatalf("short tour must not get a route")
		}
	}

	if n := len(provider.Calls()); n != 0 {
		t.Fatalf("provider called %d times, want 0", n)
	}
}

func TestEnrichRouteUsesFirstFeature(t *testing.T) {
	provider := directions.NewMockDirectionsProvider(routeResult(&ports.RouteSummary{DistanceMeters: 1234.5, DurationSeconds: 900}), nil)

	out := EnrichRoute(context.Background(), twoStopAggregate(), provider)

	calls := provider.Calls()
	if len(calls) != 1 {
		t.Fatalf("provider called %d times, want 1", len(calls))
	}
	if calls[0][0] != (domain.Coordinates{Lon: 10, Lat: 1}) || calls[0][1] != (domain.Coordinates{Lon: 20, Lat: 2}) {
		t.Fatalf("waypoints = %v, want stop order as lon/lat", calls[0])
	}
	if provider.Profiles()[0] != ports.ProfileFoot {
		t.Fatalf("profile = %q, want %q", provider.Profiles()[0], ports.ProfileFoot)
	}

	if len(out.RouteSegmentsGeometry) != 1 || len(out.RouteSegmentsGeometry[0]) != 3 {
		t.Fatalf("expected one segment of 3 points, got %v", out.RouteSegmentsGeometry)
	}
	if out.TotalDistanceMeters == nil || *out.TotalDistanceMeters != 1234.5 {
		t.Fatalf("distance = %v, want 1234.5", out.TotalDistanceMeters)
	}
	if out.TotalDurationSeconds == nil || *out.TotalDurationSeconds != 900 {
		t.Fatalf("duration = %v, want 900", out.TotalDurationSeconds)
	}
}

func TestEnrichRouteWithoutSummary(t *testing.T) {
	provider := directions.NewMockDirectionsProvider(routeResult(nil), nil)

	out := EnrichRoute(context.Background(), twoStopAggregate(), provider)

	if len(out.RouteSegmentsGeometry) != 1 {
		t.Fatalf("expected geometry without summary")
	}
	if out.TotalDistanceMeters != nil || out.TotalDurationSeconds != nil {
		t.Fatalf("totals must stay unset without a summary")
	}
}

func TestEnrichRouteSkipsEmptyGeometry(t *testing.T) {
	provider := directions.NewMockDirectionsProvider(&ports.DirectionsResult{Features: []ports.RouteFeature{{
		Summary: &ports.RouteSummary{DistanceMeters: 10, DurationSeconds: 8},
	}}}, nil)

	out := EnrichRoute(context.Background(), twoStopAggregate(), provider)

	if out.RouteSegmentsGeometry != nil {
		t.Fatalf("segments = %v, want none for a feature without coordinates", out.RouteSegmentsGeometry)
	}
	if out.TotalDistanceMeters == nil || *out.TotalDistanceMeters != 10 {
		t.Fatalf("distance = %v, want 10", out.TotalDistanceMeters)
	}
}

func TestEnrichRouteDegradesOnFailure(t *testing.T) {
	cases := map[string]*directions.MockDirectionsProvider{
		"error":       directions.NewMockDirectionsProvider(nil, errors.New("upstream 500")),
		"no features": directions.NewMockDirectionsProvider(&ports.DirectionsResult{}, nil),
		"nil result":  directions.NewMockDirectionsProvider(nil, nil),
	}

	for name, provider := range cases {
		t.Run(name, func(t *testing.T) {
			in := twoStopAggregate()
			out := EnrichRoute(context.Background(), in, provider)

			if out.RouteSegmentsGeometry != nil || out.TotalDistanceMeters != nil || out.TotalDurationSeconds != nil {
				t.Fatalf("route data must stay unset")
			}
			if len(out.Stops) != 2 || out.TourID != in.TourID {
				t.Fatalf("aggregate must otherwise be complete: %+v", out)
			}
		})
	}
}
