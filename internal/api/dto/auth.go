package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	UserName        string `json:"userName" validate:"required,min=3,max=50"`
	Email           string `json:"email" validate:"required,email,max=256"`
	Password        string `json:"password" validate:"required,min=6,max=100"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	FullName        string `json:"fullName" validate:"required,max=150"`
	IsExcursionist  bool   `json:"isExcursionist"`
}

type LoginRequest struct {
	UserName string `json:"userName" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token      string    `json:"token"`
	Expiration time.Time `json:"expiration"`
	UserID     uuid.UUID `json:"userId"`
	UserName   string    `json:"userName"`
	Roles      []string  `json:"roles"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type UploadResponse struct {
	FileName string `json:"fileName"`
	URL      string `json:"url"`
}
