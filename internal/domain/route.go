package domain

import "github.com/google/uuid"

// Represents a single stop of an assembled tour as exposed to clients.
// ImageURLs follow the media items' own order.
type StopView struct {
	StopID          uuid.UUID
	Name            string
	TextDescription string
	Latitude        float64
	Longitude       float64
	Order           int
	ImageURLs       []string
}

// Represents a tour assembled for transport: its stops in traversal order plus
// optional route enrichment.
// RouteSegmentsGeometry holds one polyline per routed segment; it stays empty
// when no route could be computed. Distance and duration are nil in that case.
type TourAggregate struct {
	TourID                uuid.UUID
	Title                 string
	Description           string
	Stops                 []StopView
	RouteSegmentsGeometry [][]Coordinates
	TotalDistanceMeters   *float64
	TotalDurationSeconds  *float64
}

// Waypoints returns the stop positions in stop order.
func (a TourAggregate) Waypoints() []Coordinates {
	out := make([]Coordinates, 0, len(a.Stops))
	for _, s := range a.Stops {
		out = append(out, Coordinates{Lon: s.Longitude, Lat: s.Latitude})
	}
	return out
}
