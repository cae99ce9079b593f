package dto

import (
	"time"
	"tour-guide-service/internal/domain"

	"github.com/google/uuid"
)

type CreateTourRequest struct {
	Title       string             `json:"title" validate:"required,max=255"`
	Description string             `json:"description" validate:"max=4000"`
	Theme       string             `json:"theme" validate:"max=100"`
	Points      []TourPointRequest `json:"points" validate:"required,dive"`
}

type TourPointRequest struct {
	Name                string   `json:"name" validate:"max=255"`
	TextDescription     string   `json:"textDescription" validate:"max=2000"`
	Latitude            *float64 `json:"latitude" validate:"required,latitude"`
	Longitude           *float64 `json:"longitude" validate:"required,longitude"`
	TempImageReferences []string `json:"tempImageReferences" validate:"dive,required,max=2048"`
}

// ToStopInputs converts validated points into domain inputs.
func (r CreateTourRequest) ToStopInputs() []domain.NewStopInput {
	out := make([]domain.NewStopInput, 0, len(r.Points))
	for _, p := range r.Points {
		in := domain.NewStopInput{
			Name:            p.Name,
			TextDescription: p.TextDescription,
			ImageURLs:       p.TempImageReferences,
		}
		if p.Latitude != nil {
			in.Latitude = *p.Latitude
		}
		if p.Longitude != nil {
			in.Longitude = *p.Longitude
		}
		out = append(out, in)
	}
	return out
}

type TourListItem struct {
	TourID                   uuid.UUID `json:"tourId"`
	CreatorUserID            uuid.UUID `json:"creatorUserId"`
	Title                    string    `json:"title"`
	Description              string    `json:"description"`
	Theme                    string    `json:"theme"`
	CoverImageURL            string    `json:"coverImageUrl,omitempty"`
	Status                   string    `json:"status"`
	EstimatedDistanceMeters  *int      `json:"estimatedDistanceMeters"`
	EstimatedDurationMinutes *int      `json:"estimatedDurationMinutes"`
	CreatedAt                time.Time `json:"createdAt"`
	UpdatedAt                time.Time `json:"updatedAt"`
}

func NewTourListItem(t *domain.Tour) TourListItem {
	return TourListItem{
		TourID:                   t.TourID,
		CreatorUserID:            t.CreatorUserID,
		Title:                    t.Title,
		Description:              t.Description,
		Theme:                    t.Theme,
		CoverImageURL:            t.CoverImageURL,
		Status:                   string(t.Status),
		EstimatedDistanceMeters:  t.EstimatedDistanceMeters,
		EstimatedDurationMinutes: t.EstimatedDurationMinutes,
		CreatedAt:                t.CreatedAt,
		UpdatedAt:                t.UpdatedAt,
	}
}

type TourStopResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	TextDescription string    `json:"textDescription"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	Order           int       `json:"order"`
	ImageURLs       []string  `json:"imageUrls"`
}

// TourDetailsResponse is the routed tour. Geometry is a list of segments,
// each a list of [lon, lat] pairs.
type TourDetailsResponse struct {
	TourID                uuid.UUID          `json:"tourId"`
	Title                 string             `json:"title"`
	Description           string             `json:"description"`
	Stops                 []TourStopResponse `json:"stops"`
	RouteSegmentsGeometry [][][]float64      `json:"routeSegmentsGeometry"`
	TotalDistanceMeters   *float64           `json:"totalDistanceMeters"`
	TotalDurationSeconds  *float64           `json:"totalDurationSeconds"`
}

func NewTourDetailsResponse(a *domain.TourAggregate) TourDetailsResponse {
	res := TourDetailsResponse{
		TourID:                a.TourID,
		Title:                 a.Title,
		Description:           a.Description,
		Stops:                 make([]TourStopResponse, 0, len(a.Stops)),
		RouteSegmentsGeometry: make([][][]float64, 0, len(a.RouteSegmentsGeometry)),
		TotalDistanceMeters:   a.TotalDistanceMeters,
		TotalDurationSeconds:  a.TotalDurationSeconds,
	}

	for _, s := range a.Stops {
		urls := s.ImageURLs
		if urls == nil {
			urls = []string{}
		}
		res.Stops = append(res.Stops, TourStopResponse{
			ID:              s.StopID,
			Name:            s.Name,
			TextDescription: s.TextDescription,
			Latitude:        s.Latitude,
			Longitude:       s.Longitude,
			Order:           s.Order,
			ImageURLs:       urls,
		})
	}

	for _, seg := range a.RouteSegmentsGeometry {
		line := make([][]float64, 0, len(seg))
		for _, c := range seg {
			line = append(line, c.CoordsToList())
		}
		res.RouteSegmentsGeometry = append(res.RouteSegmentsGeometry, line)
	}

	return res
}
