package services

import (
	"sort"
	"tour-guide-service/internal/domain"
)

// Project a stored tour into its transport shape.
//
// Stops are sorted by Order with a stable sort so equal orders keep storage
// order; each stop's image URLs follow its media order. The input is not
// modified and no route data is attached.
func BuildTourAggregate(t *domain.Tour) domain.TourAggregate {
	agg := domain.TourAggregate{
		TourID:      t.TourID,
		Title:       t.Title,
		Description: t.Description,
		Stops:       make([]domain.StopView, 0, len(t.Stops)),
	}

	stops := make([]domain.Stop, len(t.Stops))
	copy(stops, t.Stops)
	sort.SliceStable(stops, func(i, j int) bool { return stops[i].Order < stops[j].Order })

	for _, s := range stops {
		media := make([]domain.Media, len(s.Media))
		copy(media, s.Media)
		sort.SliceStable(media, func(i, j int) bool { return media[i].Order < media[j].Order })

		urls := make([]string, 0, len(media))
		for _, m := range media {
			urls = append(urls, m.URL)
		}

		agg.Stops = append(agg.Stops, domain.StopView{
			StopID:          s.StopID,
			Name:            s.Name,
			TextDescription: s.TextDescription,
			Latitude:        s.Latitude,
			Longitude:       s.Longitude,
			Order:           s.Order,
			ImageURLs:       urls,
		})
	}

	return agg
}
