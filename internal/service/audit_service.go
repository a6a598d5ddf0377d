package service

import (
	"context"

	"clinic-operations/internal/domain/entity"
	"clinic-operations/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditService writes audit rows on the caller's transaction so the entry
// commits or rolls back with the change it describes.
type AuditService interface {
	LogCreate(ctx context.Context, tx *gorm.DB, actor *entity.Principal, clinicID uuid.UUID, action, entityName, entityID string, newValue interface{}) error
	LogTransition(ctx context.Context, tx *gorm.DB, actor *entity.Principal, clinicID uuid.UUID, action, entityName, entityID, from, to string) error
	LogDelete(ctx context.Context, tx *gorm.DB, actor *entity.Principal, clinicID uuid.UUID, action, entityName, entityID string, oldValue interface{}) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) LogCreate(ctx context.Context, tx *gorm.DB, actor *entity.Principal, clinicID uuid.UUID, action, entityName, entityID string, newValue interface{}) error {
	return s.write(tx, actor, clinicID, action, entityName, entityID, datatypes.JSONMap{
		"new_value": newValue,
	})
}

func (s *auditService) LogTransition(ctx context.Context, tx *gorm.DB, actor *entity.Principal, clinicID uuid.UUID, action, entityName, entityID, from, to string) error {
	return s.write(tx, actor, clinicID, action, entityName, entityID, datatypes.JSONMap{
		"from": from,
		"to":   to,
	})
}

func (s *auditService) LogDelete(ctx context.Context, tx *gorm.DB, actor *entity.Principal, clinicID uuid.UUID, action, entityName, entityID string, oldValue interface{}) error {
	return s.write(tx, actor, clinicID, action, entityName, entityID, datatypes.JSONMap{
		"old_value": oldValue,
	})
}

func (s *auditService) write(tx *gorm.DB, actor *entity.Principal, clinicID uuid.UUID, action, entityName, entityID string, metadata datatypes.JSONMap) error {
	auditLog := &entity.AuditLog{
		Action:   action,
		Entity:   entityName,
		EntityID: entityID,
		Metadata: metadata,
	}
	if actor != nil {
		userID := actor.UserID
		auditLog.UserID = &userID
	}
	if clinicID != uuid.Nil {
		auditLog.ClinicID = &clinicID
	}

	if err := s.auditRepo.Create(tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}
	return nil
}
