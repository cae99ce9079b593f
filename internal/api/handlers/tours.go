package handlers

import (
	"errors"
	"net/http"
	"tour-guide-service/internal/api/dto"
	"tour-guide-service/internal/auth"
	"tour-guide-service/internal/ports"
	"tour-guide-service/internal/services"
)

type TourHandler struct {
	Tours *services.TourService
}

// List returns approved tours ordered by title.
func (h *TourHandler) List(w http.ResponseWriter, r *http.Request) {
	tours, err := h.Tours.ListApproved(r.Context())
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	res := make([]dto.TourListItem, 0, len(tours))
	for _, t := range tours {
		res = append(res, dto.NewTourListItem(t))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Details returns an approved tour with its walking route when one is available.
func (h *TourHandler) Details(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	agg, err := h.Tours.Details(r.Context(), id)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "tour not found")
		return
	}
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewTourDetailsResponse(agg))
}

// Create stores a Draft tour owned by the caller.
func (h *TourHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req dto.CreateTourRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	agg, err := h.Tours.Create(r.Context(), p.UserID, services.CreateTourInput{
		Title:       req.Title,
		Description: req.Description,
		Theme:       req.Theme,
		Stops:       req.ToStopInputs(),
	})
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusUnauthorized, "unknown user")
		return
	}
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/tours/"+agg.TourID.String()+"/details")
	writeJSON(w, r, http.StatusCreated, dto.NewTourDetailsResponse(agg))
}
