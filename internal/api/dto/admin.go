package dto

import (
	"time"
	"tour-guide-service/internal/domain"
	"tour-guide-service/internal/services"

	"github.com/google/uuid"
)

type TourStatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

type AdminTourResponse struct {
	TourID          uuid.UUID `json:"tourId"`
	Title           string    `json:"title"`
	CreatorFullName string    `json:"creatorFullName"`
	CreatorUserID   uuid.UUID `json:"creatorUserId"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

func NewAdminTourResponses(in []domain.TourSummary) []AdminTourResponse {
	out := make([]AdminTourResponse, 0, len(in))
	for _, s := range in {
		out = append(out, AdminTourResponse{
			TourID:          s.TourID,
			Title:           s.Title,
			CreatorFullName: s.CreatorFullName,
			CreatorUserID:   s.CreatorUserID,
			Status:          string(s.Status),
			CreatedAt:       s.CreatedAt,
		})
	}
	return out
}

type AdminUserResponse struct {
	UserID   uuid.UUID `json:"userId"`
	UserName string    `json:"userName"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

func NewAdminUserResponses(in []*domain.User) []AdminUserResponse {
	out := make([]AdminUserResponse, 0, len(in))
	for _, u := range in {
		out = append(out, AdminUserResponse{
			UserID:   u.UserID,
			UserName: u.UserName,
			FullName: u.FullName,
			Email:    u.Email,
			Role:     string(u.Role),
		})
	}
	return out
}

type ShortTourResponse struct {
	TourID    uuid.UUID `json:"tourId"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserDetailsResponse struct {
	ID           uuid.UUID           `json:"id"`
	UserName     string              `json:"userName"`
	FullName     string              `json:"fullName"`
	Email        string              `json:"email"`
	Role         string              `json:"role"`
	CreatedAt    time.Time           `json:"createdAt"`
	CreatedTours []ShortTourResponse `json:"createdTours"`
}

func NewUserDetailsResponse(d *services.UserDetails) UserDetailsResponse {
	res := UserDetailsResponse{
		ID:           d.User.UserID,
		UserName:     d.User.UserName,
		FullName:     d.User.FullName,
		Email:        d.User.Email,
		Role:         string(d.User.Role),
		CreatedAt:    d.User.CreatedAt,
		CreatedTours: make([]ShortTourResponse, 0, len(d.CreatedTours)),
	}
	for _, t := range d.CreatedTours {
		res.CreatedTours = append(res.CreatedTours, ShortTourResponse{
			TourID:    t.TourID,
			Title:     t.Title,
			Status:    string(t.Status),
			CreatedAt: t.CreatedAt,
		})
	}
	return res
}

type TourCreatorResponse struct {
	ID       uuid.UUID `json:"id"`
	UserName string    `json:"userName"`
	FullName string    `json:"fullName"`
}

type MediaContentResponse struct {
	Order int    `json:"order"`
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

type TourPointDetailsResponse struct {
	Order           int                    `json:"order"`
	Name            string                 `json:"name"`
	TextDescription string                 `json:"textDescription"`
	Latitude        float64                `json:"latitude"`
	Longitude       float64                `json:"longitude"`
	MediaContents   []MediaContentResponse `json:"mediaContents"`
}

type TourDetailsAdminResponse struct {
	TourID                   uuid.UUID                  `json:"tourId"`
	Title                    string                     `json:"title"`
	Description              string                     `json:"description"`
	Theme                    string                     `json:"theme"`
	Status                   string                     `json:"status"`
	CreatedAt                time.Time                  `json:"createdAt"`
	UpdatedAt                time.Time                  `json:"updatedAt"`
	EstimatedDistanceMeters  *int                       `json:"estimatedDistanceMeters"`
	EstimatedDurationMinutes *int                       `json:"estimatedDurationMinutes"`
	CoverImageURL            string                     `json:"coverImageUrl,omitempty"`
	Version                  int                        `json:"version"`
	CreatorUser              *TourCreatorResponse       `json:"creatorUser"`
	TourPoints               []TourPointDetailsResponse `json:"tourPoints"`
}

func NewTourDetailsAdminResponse(d *services.TourDetails) TourDetailsAdminResponse {
	t := d.Tour
	res := TourDetailsAdminResponse{
		TourID:                   t.TourID,
		Title:                    t.Title,
		Description:              t.Description,
		Theme:                    t.Theme,
		Status:                   string(t.Status),
		CreatedAt:                t.CreatedAt,
		UpdatedAt:                t.UpdatedAt,
		EstimatedDistanceMeters:  t.EstimatedDistanceMeters,
		EstimatedDurationMinutes: t.EstimatedDurationMinutes,
		CoverImageURL:            t.CoverImageURL,
		Version:                  t.Version,
		TourPoints:               make([]TourPointDetailsResponse, 0, len(t.Stops)),
	}
	if d.Creator != nil {
		res.CreatorUser = &TourCreatorResponse{ID: d.Creator.UserID, UserName: d.Creator.UserName, FullName: d.Creator.FullName}
	}

	for _, s := range t.Stops {
		p := TourPointDetailsResponse{
			Order:           s.Order,
			Name:            s.Name,
			TextDescription: s.TextDescription,
			Latitude:        s.Latitude,
			Longitude:       s.Longitude,
			MediaContents:   make([]MediaContentResponse, 0, len(s.Media)),
		}
		for _, m := range s.Media {
			p.MediaContents = append(p.MediaContents, MediaContentResponse{Order: m.Order, URL: m.URL, Title: m.Title})
		}
		res.TourPoints = append(res.TourPoints, p)
	}
	return res
}
