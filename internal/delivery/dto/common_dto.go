package dto

import "github.com/google/uuid"

// ListQuery carries the pagination and clinic narrowing shared by list endpoints.
type ListQuery struct {
	ClinicID *uuid.UUID
	Limit    int
	Offset   int
}

type Pagination struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}
