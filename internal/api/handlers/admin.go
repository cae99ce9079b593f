package handlers

import (
	"errors"
	"net/http"
	"strings"
	"tour-guide-service/internal/api/dto"
	"tour-guide-service/internal/domain"
	"tour-guide-service/internal/ports"
	"tour-guide-service/internal/services"

	"github.com/google/uuid"
)

type AdminHandler struct {
	Admin *services.AdminService
}

func (h *AdminHandler) ListTours(w http.ResponseWriter, r *http.Request) {
	tours, err := h.Admin.ListTours(r.Context(), nil)
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewAdminTourResponses(tours))
}

// ToursByCreator filters by the creatorId query parameter; without it all tours are listed.
func (h *AdminHandler) ToursByCreator(w http.ResponseWriter, r *http.Request) {
	var creatorID *uuid.UUID
	if raw := strings.TrimSpace(r.URL.Query().Get("creatorId")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "creatorId must be a valid UUID")
			return
		}
		creatorID = &id
	}

	tours, err := h.Admin.ListTours(r.Context(), creatorID)
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewAdminTourResponses(tours))
}

func (h *AdminHandler) UpdateTourStatus(w http.ResponseWriter, r *http.Request) {
	tourID, ok := uuidParam(w, r, "tourId")
	if !ok {
		return
	}

	var req dto.TourStatusUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	status, err := domain.ParseTourStatus(req.Status)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if !h.Admin.UpdateStatus(r.Context(), tourID, status) {
		writeError(w, r, http.StatusNotFound, "tour not found or could not be updated")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) DeleteTour(w http.ResponseWriter, r *http.Request) {
	tourID, ok := uuidParam(w, r, "tourId")
	if !ok {
		return
	}

	if !h.Admin.DeleteTour(r.Context(), tourID) {
		writeError(w, r, http.StatusNotFound, "tour not found or could not be deleted")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) TourDetails(w http.ResponseWriter, r *http.Request) {
	tourID, ok := uuidParam(w, r, "tourId")
	if !ok {
		return
	}

	d, err := h.Admin.TourDetails(r.Context(), tourID)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "tour not found")
		return
	}
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewTourDetailsAdminResponse(d))
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Admin.ListUsers(r.Context())
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewAdminUserResponses(users))
}

func (h *AdminHandler) UserDetails(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidParam(w, r, "userId")
	if !ok {
		return
	}

	d, err := h.Admin.UserDetails(r.Context(), userID)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewUserDetailsResponse(d))
}

// DeleteUser answers 404 for unknown users and 400 with reasons for refusals.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidParam(w, r, "userId")
	if !ok {
		return
	}

	deleted, reasons := h.Admin.DeleteUser(r.Context(), userID)
	if deleted {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	msg := strings.Join(reasons, ", ")
	for _, reason := range reasons {
		if reason == services.ReasonUserNotFound {
			writeError(w, r, http.StatusNotFound, msg)
			return
		}
	}
	writeJSON(w, r, http.StatusBadRequest, map[string]any{"error": msg, "errors": reasons})
}
