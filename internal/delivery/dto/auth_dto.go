package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// CreateUserRequest provisions a principal from the operator CLI.
type CreateUserRequest struct {
	Email    string     `json:"email" validate:"required,email"`
	FullName string     `json:"fullName" validate:"required,min=2"`
	Role     string     `json:"role" validate:"required,oneof=SUPER_ADMIN ADMIN STAFF DOCTOR"`
	ClinicID *uuid.UUID `json:"clinicId"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenID     string `json:"tokenId"`
	ExpiresIn   int64  `json:"expiresIn"`
}

type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"fullName"`
	Role      string     `json:"role"`
	ClinicID  *uuid.UUID `json:"clinicId,omitempty"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
}

// PrincipalResponse describes the caller and its visible clinics.
type PrincipalResponse struct {
	UserID    uuid.UUID   `json:"userId"`
	Email     string      `json:"email"`
	Role      string      `json:"role"`
	ClinicIDs []uuid.UUID `json:"clinicIds"`
}
