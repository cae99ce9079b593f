package handlers

import (
	"errors"
	"net/http"
	"tour-guide-service/internal/api/dto"
	"tour-guide-service/internal/auth"
	"tour-guide-service/internal/platform/logging"
	"tour-guide-service/internal/ports"
	"tour-guide-service/internal/services"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	_, err := h.Auth.Register(r.Context(), services.RegisterInput{
		UserName:       req.UserName,
		Email:          req.Email,
		Password:       req.Password,
		FullName:       req.FullName,
		IsExcursionist: req.IsExcursionist,
	})
	switch {
	case errors.Is(err, services.ErrUserNameTaken), errors.Is(err, services.ErrEmailTaken):
		writeError(w, r, http.StatusConflict, err.Error())
		return
	case errors.Is(err, ports.ErrRoleMissing):
		logging.Ctx(r.Context()).Error().Err(err).Msg("registration role is not configured")
		writeError(w, r, http.StatusInternalServerError, "role configuration error")
		return
	case err != nil:
		writeInternal(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.StatusResponse{Status: "Success", Message: "User created successfully"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.Auth.Login(r.Context(), req.UserName, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		writeError(w, r, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.LoginResponse{
		Token:      res.Token,
		Expiration: res.ExpiresAt.UTC(),
		UserID:     res.User.UserID,
		UserName:   res.User.UserName,
		Roles:      []string{string(res.User.Role)},
	})
}

// Logout revokes the presented token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.Auth.Logout(r.Context(), p); err != nil {
		writeInternal(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
