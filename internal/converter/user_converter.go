package converter

import (
	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/entity"

	"github.com/google/uuid"
)

// UserToResponse converts a User entity to UserResponse DTO
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(user.Role),
		ClinicID:  user.ClinicID,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

// PrincipalToResponse describes the resolved caller with its visible clinics.
func PrincipalToResponse(p *entity.Principal, visible []uuid.UUID) *dto.PrincipalResponse {
	if p == nil {
		return nil
	}
	if visible == nil {
		visible = []uuid.UUID{}
	}
	return &dto.PrincipalResponse{
		UserID:    p.UserID,
		Email:     p.Email,
		Role:      string(p.Role),
		ClinicIDs: visible,
	}
}
