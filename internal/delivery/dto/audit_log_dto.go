package dto

import (
	"time"

	"github.com/google/uuid"
)

type AuditLogListQuery struct {
	ListQuery
	Entity   string
	EntityID string
}

// Response DTOs

type AuditLogResponse struct {
	ID        int64                  `json:"id"`
	ClinicID  *uuid.UUID             `json:"clinicId,omitempty"`
	UserID    *uuid.UUID             `json:"userId,omitempty"`
	Action    string                 `json:"action"`
	Entity    string                 `json:"entity"`
	EntityID  string                 `json:"entityId"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

type AuditLogListResponse struct {
	Logs       []AuditLogResponse `json:"logs"`
	Pagination Pagination         `json:"pagination"`
}
