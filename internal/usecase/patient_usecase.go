package usecase

import (
	"context"
	"time"

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
	ErrPatientNotFound      = apperror.NotFound("patient not found")
	ErrPatientHasDependents = apperror.Conflict("patient still occupies a bed or has appointments or invoices")
	ErrPatientCodeTaken     = apperror.Conflict("patient code collision, please retry")
)

type PatientUsecase interface {
	CreatePatient(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	GetPatient(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error)
	ListPatients(ctx context.Context, q dto.PatientListQuery) (*dto.PatientListResponse, error)
	DeletePatient(ctx context.Context, id uuid.UUID) error
}

type patientUsecase struct {
	tx          database.Transactor
	log         *logrus.Logger
	guard       *service.TenantGuard
	codes       service.CodeGenerator
	patientRepo repository.PatientRepository
}

func NewPatientUsecase(
	tx database.Transactor,
	log *logrus.Logger,
	guard *service.TenantGuard,
	codes service.CodeGenerator,
	patientRepo repository.PatientRepository,
) PatientUsecase {
	return &patientUsecase{
		tx:          tx,
		log:         log,
		guard:       guard,
		codes:       codes,
		patientRepo: patientRepo,
	}
}

func (u *patientUsecase) CreatePatient(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.guard.RequireRole(p, entity.RolesFrontDesk...); err != nil {
		return nil, err
	}
	clinicID, err := u.guard.TargetClinic(p, req.ClinicID)
	if err != nil {
		return nil, err
	}

	var dob *time.Time
	if req.DateOfBirth != "" {
		d, err := parseDate(req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		dob = &d
	}

	db := u.tx.DB(ctx)
	code, err := u.codes.Generate(ctx, service.CodePrefixPatient, func(c string) (bool, error) {
		return u.patientRepo.CodeExists(db, c)
	})
	if err != nil {
		u.log.Warnf("Failed to generate patient code: %+v", err)
		return nil, err
	}

	patient := &entity.Patient{
		ClinicID:    clinicID,
		PatientCode: code,
		FullName:    req.FullName,
		DateOfBirth: dob,
		Gender:      req.Gender,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		CreatedByID: &p.UserID,
	}
	if err := u.patientRepo.Create(db, patient); err != nil {
		if isDuplicateKeyError(err, "patient_code") {
			return nil, ErrPatientCodeTaken
		}
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) GetPatient(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}

	patient, err := u.patientRepo.FindByID(u.tx.DB(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", id, err)
		return nil, err
	}
	if patient == nil || !u.guard.CanAccess(p, patient.ClinicID) {
		return nil, ErrPatientNotFound
	}
	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) ListPatients(ctx context.Context, q dto.PatientListQuery) (*dto.PatientListResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}

	clinics := u.guard.Narrow(p, q.ClinicID)
	if len(clinics) == 0 {
		return &dto.PatientListResponse{Patients: []dto.PatientResponse{}, Pagination: paginationOf(0, q.ListQuery)}, nil
	}

	patients, total, err := u.patientRepo.List(u.tx.DB(ctx), entity.PatientFilter{
		ClinicIDs: clinics,
		Search:    q.Search,
		Page:      pageOf(q.ListQuery),
	})
	if err != nil {
		u.log.Warnf("Failed to list patients: %+v", err)
		return nil, err
	}
	return &dto.PatientListResponse{
		Patients:   converter.PatientsToResponses(patients),
		Pagination: paginationOf(total, q.ListQuery),
	}, nil
}

// DeletePatient is an explicit guard, never a cascade.
func (u *patientUsecase) DeletePatient(ctx context.Context, id uuid.UUID) error {
	p, err := principalFrom(ctx)
	if err != nil {
		return err
	}
	if err := u.guard.RequireRole(p, entity.RolesFrontDesk...); err != nil {
		return err
	}

	return u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		patient, err := u.patientRepo.FindByID(tx, id)
		if err != nil {
			return err
		}
		if patient == nil || !u.guard.CanAccess(p, patient.ClinicID) {
			return ErrPatientNotFound
		}

		deps, err := u.patientRepo.CountDependents(tx, id)
		if err != nil {
			return err
		}
		if deps.Any() {
			return ErrPatientHasDependents
		}

		if err := u.patientRepo.Delete(tx, id); err != nil {
			if isForeignKeyError(err, "patient") {
				return ErrPatientHasDependents
			}
			u.log.Warnf("Failed to delete patient %s: %+v", id, err)
			return err
		}
		return nil
	})
}
