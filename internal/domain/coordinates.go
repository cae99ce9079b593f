package domain

import "math"

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// CoordsFromList builds Coordinates from a [lon, lat] pair.
// The second return is false when the pair is malformed.
func CoordsFromList(pair []float64) (Coordinates, bool) {
	if len(pair) < 2 {
		return Coordinates{}, false
	}
	return Coordinates{Lon: pair[0], Lat: pair[1]}, true
}

// RoundCoordinate truncates a degree value to the NUMERIC(9,6) precision used in storage.
func RoundCoordinate(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
