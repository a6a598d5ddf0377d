package repository

import (
	"clinic-operations/internal/domain/entity"

	"gorm.io/gorm"
)

// AuditLogRepository is append-only: entries are written inside the
// transaction of the change they describe and never updated.
type AuditLogRepository interface {
	Create(db *gorm.DB, entry *entity.AuditLog) error
	// List returns a page of entries for the filter's clinics, newest first.
	List(db *gorm.DB, filter entity.AuditLogFilter) ([]entity.AuditLog, int64, error)
}
