package usecase

import (
	"context"

	"clinic-operations/internal/converter"
	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/entity"
	"clinic-operations/internal/domain/repository"
	"clinic-operations/internal/infrastructure/database"
	"clinic-operations/internal/service"

	"github.com/sirupsen/logrus"
)

type AuditLogUsecase interface {
	ListAuditLogs(ctx context.Context, q dto.AuditLogListQuery) (*dto.AuditLogListResponse, error)
}

type auditLogUsecase struct {
	tx           database.Transactor
	log          *logrus.Logger
	guard        *service.TenantGuard
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	tx database.Transactor,
	log *logrus.Logger,
	guard *service.TenantGuard,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		tx:           tx,
		log:          log,
		guard:        guard,
		auditLogRepo: auditLogRepo,
	}
}

// ListAuditLogs returns entries of the caller's visible clinics, newest first.
func (u *auditLogUsecase) ListAuditLogs(ctx context.Context, q dto.AuditLogListQuery) (*dto.AuditLogListResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.guard.RequireRole(p, entity.RolesClinicManager...); err != nil {
		return nil, err
	}

	clinics := u.guard.Narrow(p, q.ClinicID)
	if len(clinics) == 0 {
		return &dto.AuditLogListResponse{Logs: []dto.AuditLogResponse{}, Pagination: paginationOf(0, q.ListQuery)}, nil
	}

	logs, total, err := u.auditLogRepo.List(u.tx.DB(ctx), entity.AuditLogFilter{
		ClinicIDs: clinics,
		Entity:    q.Entity,
		EntityID:  q.EntityID,
		Page:      pageOf(q.ListQuery),
	})
	if err != nil {
		u.log.Warnf("Failed to list audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:       converter.AuditLogsToResponses(logs),
		Pagination: paginationOf(total, q.ListQuery),
	}, nil
}
