package usecase

import (
	"context"

	"clinic-operations/internal/converter"
	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/entity"
	"clinic-operations/internal/domain/repository"
	"clinic-operations/internal/infrastructure/database"
	"clinic-operations/internal/service"
	"clinic-operations/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrClinicNotFound      = apperror.NotFound("clinic not found")
	ErrClinicHasDependents = apperror.Conflict("clinic still has doctors, patients, rooms, staff or transactions")
)

type ClinicUsecase interface {
	CreateClinic(ctx context.Context, req *dto.CreateClinicRequest) (*dto.ClinicResponse, error)
	GetClinic(ctx context.Context, id uuid.UUID) (*dto.ClinicResponse, error)
	ListClinics(ctx context.Context) (*dto.ClinicListResponse, error)
	UpdateClinic(ctx context.Context, id uuid.UUID, req *dto.UpdateClinicRequest) (*dto.ClinicResponse, error)
	DeleteClinic(ctx context.Context, id uuid.UUID) error
}

type clinicUsecase struct {
	tx           database.Transactor
	log          *logrus.Logger
	guard        *service.TenantGuard
	clinicRepo   repository.ClinicRepository
	userRepo     repository.UserRepository
	auditService service.AuditService
}

func NewClinicUsecase(
	tx database.Transactor,
	log *logrus.Logger,
	guard *service.TenantGuard,
	clinicRepo repository.ClinicRepository,
	userRepo repository.UserRepository,
	auditService service.AuditService,
) ClinicUsecase {
	return &clinicUsecase{
		tx:           tx,
		log:          log,
		guard:        guard,
		clinicRepo:   clinicRepo,
		userRepo:     userRepo,
		auditService: auditService,
	}
}

// CreateClinic inserts the clinic and adds it to the creating super admin's
// scope in the same transaction.
func (u *clinicUsecase) CreateClinic(ctx context.Context, req *dto.CreateClinicRequest) (*dto.ClinicResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.guard.RequireRole(p, entity.RoleSuperAdmin); err != nil {
		return nil, err
	}

	clinic := &entity.Clinic{
		Name:        req.Name,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		Description: req.Description,
		CreatedByID: &p.UserID,
	}

	err = u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		if err := u.clinicRepo.Create(tx, clinic); err != nil {
			u.log.Warnf("Failed to create clinic: %+v", err)
			return err
		}
		if err := u.userRepo.AddSuperAdminClinic(tx, p.UserID, clinic.ID); err != nil {
			u.log.Warnf("Failed to add clinic %s to scope of %s: %+v", clinic.ID, p.UserID, err)
			return err
		}
		return u.auditService.LogCreate(ctx, tx, p, clinic.ID, entity.AuditActionClinicCreate, "clinic", clinic.ID.String(), converter.ClinicToResponse(clinic))
	})
	if err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{"clinic": clinic.ID, "user": p.UserID}).Info("Clinic created")
	return converter.ClinicToResponse(clinic), nil
}

func (u *clinicUsecase) GetClinic(ctx context.Context, id uuid.UUID) (*dto.ClinicResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !u.guard.CanAccess(p, id) {
		return nil, ErrClinicNotFound
	}

	clinic, err := u.clinicRepo.FindByID(u.tx.DB(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find clinic %s: %+v", id, err)
		return nil, err
	}
	if clinic == nil {
		return nil, ErrClinicNotFound
	}
	return converter.ClinicToResponse(clinic), nil
}

func (u *clinicUsecase) ListClinics(ctx context.Context) (*dto.ClinicListResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}

	clinics, err := u.clinicRepo.FindByIDs(u.tx.DB(ctx), u.guard.VisibleClinics(p))
	if err != nil {
		u.log.Warnf("Failed to list clinics: %+v", err)
		return nil, err
	}
	return &dto.ClinicListResponse{
		Clinics: converter.ClinicsToResponses(clinics),
		Total:   len(clinics),
	}, nil
}

func (u *clinicUsecase) UpdateClinic(ctx context.Context, id uuid.UUID, req *dto.UpdateClinicRequest) (*dto.ClinicResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.guard.RequireRole(p, entity.RolesClinicManager...); err != nil {
		return nil, err
	}
	if !u.guard.CanAccess(p, id) {
		return nil, ErrClinicNotFound
	}

	var clinic *entity.Clinic
	err = u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		clinic, err = u.clinicRepo.FindByID(tx, id)
		if err != nil {
			return err
		}
		if clinic == nil {
			return ErrClinicNotFound
		}

		if req.Name != nil {
			clinic.Name = *req.Name
		}
		if req.Address != nil {
			clinic.Address = *req.Address
		}
		if req.Phone != nil {
			clinic.Phone = *req.Phone
		}
		if req.Email != nil {
			clinic.Email = req.Email
		}
		if req.Description != nil {
			clinic.Description = req.Description
		}
		return u.clinicRepo.Update(tx, clinic)
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindUnknown {
			u.log.Warnf("Failed to update clinic %s: %+v", id, err)
		}
		return nil, err
	}
	return converter.ClinicToResponse(clinic), nil
}

// DeleteClinic refuses while anything still references the clinic, and
// removes it from every super admin scope in the same transaction.
func (u *clinicUsecase) DeleteClinic(ctx context.Context, id uuid.UUID) error {
	p, err := principalFrom(ctx)
	if err != nil {
		return err
	}
	if err := u.guard.RequireRole(p, entity.RoleSuperAdmin); err != nil {
		return err
	}
	if !u.guard.CanAccess(p, id) {
		return ErrClinicNotFound
	}

	err = u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		clinic, err := u.clinicRepo.FindByID(tx, id)
		if err != nil {
			return err
		}
		if clinic == nil {
			return ErrClinicNotFound
		}

		deps, err := u.clinicRepo.CountDependents(tx, id)
		if err != nil {
			return err
		}
		if deps.Any() {
			return ErrClinicHasDependents
		}

		if err := u.userRepo.RemoveClinicFromSuperAdmins(tx, id); err != nil {
			return err
		}
		if err := u.clinicRepo.Delete(tx, id); err != nil {
			if isForeignKeyError(err, "clinic") {
				return ErrClinicHasDependents
			}
			return err
		}
		return u.auditService.LogDelete(ctx, tx, p, id, entity.AuditActionClinicDelete, "clinic", id.String(), converter.ClinicToResponse(clinic))
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindUnknown {
			u.log.Warnf("Failed to delete clinic %s: %+v", id, err)
		}
		return err
	}

	u.log.WithFields(logrus.Fields{"clinic": id, "user": p.UserID}).Info("Clinic deleted")
	return nil
}
