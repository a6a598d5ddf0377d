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
	ErrDoctorNotFound        = apperror.NotFound("doctor not found")
	ErrDoctorHasAppointments = apperror.Conflict("doctor still has appointments")
	ErrDoctorUserInvalid     = apperror.Validation("userId must reference a DOCTOR account of the same clinic")
	ErrDoctorUserLinked      = apperror.Conflict("user is already linked to a doctor")
)

type DoctorUsecase interface {
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error)
	ListDoctors(ctx context.Context, q dto.DoctorListQuery) (*dto.DoctorListResponse, error)
	DeleteDoctor(ctx context.Context, id uuid.UUID) error
}

type doctorUsecase struct {
	tx              database.Transactor
	log             *logrus.Logger
	guard           *service.TenantGuard
	doctorRepo      repository.DoctorRepository
	userRepo        repository.UserRepository
	appointmentRepo repository.AppointmentRepository
}

func NewDoctorUsecase(
	tx database.Transactor,
	log *logrus.Logger,
	guard *service.TenantGuard,
	doctorRepo repository.DoctorRepository,
	userRepo repository.UserRepository,
	appointmentRepo repository.AppointmentRepository,
) DoctorUsecase {
	return &doctorUsecase{
		tx:              tx,
		log:             log,
		guard:           guard,
		doctorRepo:      doctorRepo,
		userRepo:        userRepo,
		appointmentRepo: appointmentRepo,
	}
}

func (u *doctorUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.guard.RequireRole(p, entity.RolesClinicManager...); err != nil {
		return nil, err
	}
	clinicID, err := u.guard.TargetClinic(p, req.ClinicID)
	if err != nil {
		return nil, err
	}

	doctor := &entity.Doctor{
		ClinicID:       clinicID,
		UserID:         req.UserID,
		FullName:       req.FullName,
		Specialization: req.Specialization,
		Phone:          req.Phone,
		Email:          req.Email,
	}

	err = u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		if req.UserID != nil {
			user, err := u.userRepo.FindByID(tx, *req.UserID)
			if err != nil {
				return err
			}
			if user == nil || user.Role != entity.RoleDoctor || user.ClinicID == nil || *user.ClinicID != clinicID {
				return ErrDoctorUserInvalid
			}
			linked, err := u.doctorRepo.FindByUserID(tx, *req.UserID)
			if err != nil {
				return err
			}
			if linked != nil {
				return ErrDoctorUserLinked
			}
		}

		if err := u.doctorRepo.Create(tx, doctor); err != nil {
			if isDuplicateKeyError(err, "user_id") {
				return ErrDoctorUserLinked
			}
			return err
		}
		return nil
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindUnknown {
			u.log.Warnf("Failed to create doctor: %+v", err)
		}
		return nil, err
	}
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}

	doctor, err := u.doctorRepo.FindByID(u.tx.DB(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", id, err)
		return nil, err
	}
	if doctor == nil || !u.guard.CanAccess(p, doctor.ClinicID) {
		return nil, ErrDoctorNotFound
	}
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) ListDoctors(ctx context.Context, q dto.DoctorListQuery) (*dto.DoctorListResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}

	clinics := u.guard.Narrow(p, q.ClinicID)
	if len(clinics) == 0 {
		return &dto.DoctorListResponse{Doctors: []dto.DoctorResponse{}, Pagination: paginationOf(0, q.ListQuery)}, nil
	}

	doctors, total, err := u.doctorRepo.List(u.tx.DB(ctx), entity.DoctorFilter{
		ClinicIDs:      clinics,
		Specialization: q.Specialization,
		Page:           pageOf(q.ListQuery),
	})
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}
	return &dto.DoctorListResponse{
		Doctors:    converter.DoctorsToResponses(doctors),
		Pagination: paginationOf(total, q.ListQuery),
	}, nil
}

func (u *doctorUsecase) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	p, err := principalFrom(ctx)
	if err != nil {
		return err
	}
	if err := u.guard.RequireRole(p, entity.RolesClinicManager...); err != nil {
		return err
	}

	return u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		doctor, err := u.doctorRepo.FindByID(tx, id)
		if err != nil {
			return err
		}
		if doctor == nil || !u.guard.CanAccess(p, doctor.ClinicID) {
			return ErrDoctorNotFound
		}

		count, err := u.appointmentRepo.CountByDoctor(tx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrDoctorHasAppointments
		}

		if err := u.doctorRepo.Delete(tx, id); err != nil {
			if isForeignKeyError(err, "doctor") {
				return ErrDoctorHasAppointments
			}
			u.log.Warnf("Failed to delete doctor %s: %+v", id, err)
			return err
		}
		return nil
	})
}
