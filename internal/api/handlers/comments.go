package handlers

import (
	"errors"
	"net/http"
	"tour-guide-service/internal/api/dto"
	"tour-guide-service/internal/auth"
	"tour-guide-service/internal/ports"
	"tour-guide-service/internal/services"
)

type CommentHandler struct {
	Comments *services.CommentService
}

func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	tourID, ok := uuidParam(w, r, "tourId")
	if !ok {
		return
	}

	var req dto.AddCommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	c, err := h.Comments.AddComment(r.Context(), tourID, p.UserID, req.Text, req.Rating)
	switch {
	case errors.Is(err, services.ErrInvalidComment):
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, ports.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "tour not found")
		return
	case err != nil:
		writeInternal(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/comments/tours/"+tourID.String())
	writeJSON(w, r, http.StatusCreated, dto.NewCommentResponse(*c))
}

func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	tourID, ok := uuidParam(w, r, "tourId")
	if !ok {
		return
	}

	comments, err := h.Comments.ListComments(r.Context(), tourID)
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	res := make([]dto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		res = append(res, dto.NewCommentResponse(c))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Delete removes the caller's own comment. Someone else's comment answers 404.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	commentID, ok := uuidParam(w, r, "commentId")
	if !ok {
		return
	}

	deleted, err := h.Comments.DeleteComment(r.Context(), commentID, p.UserID)
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	if !deleted {
		writeError(w, r, http.StatusNotFound, "comment not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
