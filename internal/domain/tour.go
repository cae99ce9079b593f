package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TourStatus is the moderation lifecycle state of a tour.
type TourStatus string

const (
	TourStatusDraft             TourStatus = "Draft"
	TourStatusPendingModeration TourStatus = "PendingModeration"
	TourStatusApproved          TourStatus = "Approved"
	TourStatusRejected          TourStatus = "Rejected"
	TourStatusArchived          TourStatus = "Archived"
)

var tourStatuses = []TourStatus{
	TourStatusDraft,
	TourStatusPendingModeration,
	TourStatusApproved,
	TourStatusRejected,
	TourStatusArchived,
}

// ParseTourStatus accepts a status name case-insensitively.
func ParseTourStatus(s string) (TourStatus, error) {
	for _, st := range tourStatuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown tour status %q", s)
}

func (s TourStatus) Valid() bool {
	_, err := ParseTourStatus(string(s))
	return err == nil
}

// Tour is a themed route made of ordered stops.
// It owns its stops; stops refer back only through TourID.
type Tour struct {
	TourID                   uuid.UUID
	CreatorUserID            uuid.UUID
	Title                    string
	Description              string
	Theme                    string
	CoverImageURL            string
	Status                   TourStatus
	EstimatedDistanceMeters  *int
	EstimatedDurationMinutes *int
	CreatedAt                time.Time
	UpdatedAt                time.Time
	// Version is bumped on every status write and guards concurrent moderation.
	Version int
	Stops   []Stop
}

// Stop is a single geo-located point of a tour.
type Stop struct {
	StopID          uuid.UUID
	TourID          uuid.UUID
	Name            string
	TextDescription string
	Latitude        float64
	Longitude       float64
	Order           int
	Media           []Media
}

// Media is an image attached to a stop.
type Media struct {
	MediaID uuid.UUID
	StopID  uuid.UUID
	URL     string
	Title   string
	Order   int
}

// NewStopInput is the caller-supplied shape of a stop at creation time.
type NewStopInput struct {
	Name            string
	TextDescription string
	Latitude        float64
	Longitude       float64
	ImageURLs       []string
}

// NewTour builds a Draft tour owned by creator. Stops are numbered 1..n in
// input order and each stop's media 1..m, so order values are dense.
func NewTour(creator uuid.UUID, title, description, theme string, stops []NewStopInput, now time.Time) *Tour {
	t := &Tour{
		TourID:        uuid.New(),
		CreatorUserID: creator,
		Title:         title,
		Description:   description,
		Theme:         theme,
		Status:        TourStatusDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
		Version:       1,
		Stops:         make([]Stop, 0, len(stops)),
	}

	for i, in := range stops {
		stop := Stop{
			StopID:          uuid.New(),
			TourID:          t.TourID,
			Name:            in.Name,
			TextDescription: in.TextDescription,
			Latitude:        RoundCoordinate(in.Latitude),
			Longitude:       RoundCoordinate(in.Longitude),
			Order:           i + 1,
			Media:           make([]Media, 0, len(in.ImageURLs)),
		}
		for j, url := range in.ImageURLs {
			stop.Media = append(stop.Media, Media{
				MediaID: uuid.New(),
				StopID:  stop.StopID,
				URL:     url,
				Order:   j + 1,
			})
		}
		t.Stops = append(t.Stops, stop)
	}

	return t
}

// TourSummary is a tour row joined with its creator's display name.
type TourSummary struct {
	TourID          uuid.UUID
	Title           string
	CreatorUserID   uuid.UUID
	CreatorFullName string
	Status          TourStatus
	CreatedAt       time.Time
}
