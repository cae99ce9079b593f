package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewTourAssignsDenseOrders(t *testing.T) {
	// build test data
	creator := uuid.New()
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	inputs := []NewStopInput{
		{Name: "A", Latitude: 55.7558261, Longitude: 37.6172999, ImageURLs: []string{"/Uploads/a1.jpg", "/Uploads/a2.jpg"}},
		{Name: "B", Latitude: 55.751244, Longitude: 37.618423},
		{Name: "C", Latitude: 55.7601, Longitude: 37.6186, ImageURLs: []string{"/Uploads/c1.png"}},
	}

	// call the function under test
	tour := NewTour(creator, "Old town", "walk", "history", inputs, now)

	// verify behavior
	if tour.Status != TourStatusDraft {
		t.Fatalf("status = %q, want Draft", tour.Status)
	}
	if tour.CreatorUserID != creator {
		t.Fatalf("creator = %v, want %v", tour.CreatorUserID, creator)
	}
	if !tour.CreatedAt.Equal(now) || !tour.UpdatedAt.Equal(now) {
		t.Fatalf("timestamps not set from now: %v %v", tour.CreatedAt, tour.UpdatedAt)
	}
	if len(tour.Stops) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(tour.Stops))
	}

	for i, s := range tour.Stops {
		if s.Order != i+1 {
			t.Errorf("stop %d order = %d, want %d", i, s.Order, i+1)
		}
		if s.TourID != tour.TourID {
			t.Errorf("stop %d tour id = %v, want %v", i, s.TourID, tour.TourID)
		}
		for j, m := range s.Media {
			if m.Order != j+1 {
				t.Errorf("stop %d media %d order = %d, want %d", i, j, m.Order, j+1)
			}
			if m.StopID != s.StopID {
				t.Errorf("stop %d media %d stop id mismatch", i, j)
			}
		}
	}

	if got := tour.Stops[0].Latitude; got != 55.755826 {
		t.Errorf("latitude = %v, want 55.755826", got)
	}
	if len(tour.Stops[1].Media) != 0 {
		t.Errorf("stop B should have no media, got %d", len(tour.Stops[1].Media))
	}
}

func TestParseTourStatus(t *testing.T) {
	st, err := ParseTourStatus("approved")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st != TourStatusApproved {
		t.Fatalf("status = %q, want Approved", st)
	}

	if _, err := ParseTourStatus("Published"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestRoleCanAuthorTours(t *testing.T) {
	if RoleTourist.CanAuthorTours() {
		t.Error("tourist must not author tours")
	}
	if !RoleExcursionist.CanAuthorTours() || !RoleAdministrator.CanAuthorTours() {
		t.Error("excursionist and administrator must author tours")
	}

	authors := AuthorRoles()
	if len(authors) != 2 || authors[0] != RoleExcursionist || authors[1] != RoleAdministrator {
		t.Errorf("AuthorRoles() = %v, want [Excursionist Administrator]", authors)
	}
}
