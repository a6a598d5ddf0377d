package usecase

import (
	"context"
	"time"

	"clinic-operations/internal/converter"
	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/entity"
	"clinic-operations/internal/domain/repository"
	"clinic-operations/internal/infrastructure/database"
	"clinic-operations/internal/infrastructure/metrics"
	"clinic-operations/internal/service"
	"clinic-operations/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrBedNotFound            = apperror.NotFound("bed not found")
	ErrBedNumberTaken         = apperror.Conflict("bed number already exists in this room")
	ErrRoomAtCapacity         = apperror.Conflict("room has reached its total bed capacity")
	ErrRoomInactive           = apperror.Conflict("room is not active")
	ErrPatientAlreadyAdmitted = apperror.Conflict("patient already occupies a bed")
	ErrBedChanged             = apperror.Conflict("bed status changed concurrently, re-fetch and retry")
)

// Transition names used for audit actions and metric labels.
const (
	bedTransitionAssign      = "assign"
	bedTransitionDischarge   = "discharge"
	bedTransitionReserve     = "reserve"
	bedTransitionRelease     = "release"
	bedTransitionMaintenance = "maintenance"
	bedTransitionRestore     = "restore"
)

type BedUsecase interface {
	CreateBed(ctx context.Context, req *dto.CreateBedRequest) (*dto.BedResponse, error)
	GetBed(ctx context.Context, id uuid.UUID) (*dto.BedResponse, error)
	ListBeds(ctx context.Context, q dto.BedListQuery) (*dto.BedListResponse, error)
	UpdateBed(ctx context.Context, id uuid.UUID, req *dto.UpdateBedRequest) (*dto.BedResponse, error)
	DeleteBed(ctx context.Context, id uuid.UUID) error

	AssignBed(ctx context.Context, id uuid.UUID, req *dto.AssignBedRequest) (*dto.BedResponse, error)
	DischargeBed(ctx context.Context, id uuid.UUID) (*dto.BedResponse, error)
	ReserveBed(ctx context.Context, id uuid.UUID) (*dto.BedResponse, error)
	ReleaseBed(ctx context.Context, id uuid.UUID) (*dto.BedResponse, error)
	StartMaintenance(ctx context.Context, id uuid.UUID) (*dto.BedResponse, error)
	RestoreBed(ctx context.Context, id uuid.UUID) (*dto.BedResponse, error)
}

type bedUsecase struct {
	tx           database.Transactor
	log          *logrus.Logger
	guard        *service.TenantGuard
	codes        service.CodeGenerator
	bedRepo      repository.BedRepository
	roomRepo     repository.RoomRepository
	patientRepo  repository.PatientRepository
	auditService service.AuditService
	metrics      *metrics.Metrics
}

func NewBedUsecase(
	tx database.Transactor,
	log *logrus.Logger,
	guard *service.TenantGuard,
	codes service.CodeGenerator,
	bedRepo repository.BedRepository,
	roomRepo repository.RoomRepository,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
	m *metrics.Metrics,
) BedUsecase {
	return &bedUsecase{
		tx:           tx,
		log:          log,
		guard:        guard,
		codes:        codes,
		bedRepo:      bedRepo,
		roomRepo:     roomRepo,
		patientRepo:  patientRepo,
		auditService: auditService,
		metrics:      m,
	}
}

// CreateBed locks the room so the provisioned count cannot pass total_beds.
func (u *bedUsecase) CreateBed(ctx context.Context, req *dto.CreateBedRequest) (*dto.BedResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.guard.RequireRole(p, entity.RolesFrontDesk...); err != nil {
		return nil, err
	}

	var bed *entity.Bed
	err = u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		room, err := u.roomRepo.FindByIDForUpdate(tx, req.RoomID)
		if err != nil {
			return err
		}
		if room == nil || !u.guard.CanAccess(p, room.ClinicID) {
			return ErrRoomNotFound
		}
		if !room.IsActive {
			return ErrRoomInactive
		}

		provisioned, err := u.bedRepo.CountByRoom(tx, room.ID)
		if err != nil {
			return err
		}
		if provisioned >= int64(room.TotalBeds) {
			return ErrRoomAtCapacity
		}

		existing, err := u.bedRepo.FindByNumber(tx, room.ID, req.BedNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrBedNumberTaken
		}

		code, err := u.codes.Generate(ctx, service.CodePrefixBed, func(c string) (bool, error) {
			return u.bedRepo.CodeExists(tx, c)
		})
		if err != nil {
			return err
		}

		bed = &entity.Bed{
			ClinicID:    room.ClinicID,
			RoomID:      room.ID,
			BedCode:     code,
			BedNumber:   req.BedNumber,
			Status:      entity.BedStatusAvailable,
			Notes:       req.Notes,
			CreatedByID: &p.UserID,
		}
		if err := u.bedRepo.Create(tx, bed); err != nil {
			if isDuplicateKeyError(err, "bed_number") {
				return ErrBedNumberTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		logUnexpected(u.log, err, "Failed to create bed in room %s", req.RoomID)
		return nil, err
	}
	return converter.BedToResponse(bed), nil
}

func (u *bedUsecase) GetBed(ctx context.Context, id uuid.UUID) (*dto.BedResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}

	bed, err := u.bedRepo.FindByID(u.tx.DB(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find bed %s: %+v", id, err)
		return nil, err
	}
	if bed == nil || !u.guard.CanAccess(p, bed.ClinicID) {
		return nil, ErrBedNotFound
	}
	return converter.BedToResponse(bed), nil
}

func (u *bedUsecase) ListBeds(ctx context.Context, q dto.BedListQuery) (*dto.BedListResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}

	clinics := u.guard.Narrow(p, q.ClinicID)
	if len(clinics) == 0 {
		return &dto.BedListResponse{Beds: []dto.BedResponse{}, Pagination: paginationOf(0, q.ListQuery)}, nil
	}

	beds, total, err := u.bedRepo.List(u.tx.DB(ctx), entity.BedFilter{
		ClinicIDs: clinics,
		RoomID:    q.RoomID,
		Status:    entity.BedStatus(q.Status),
		Page:      pageOf(q.ListQuery),
	})
	if err != nil {
		u.log.Warnf("Failed to list beds: %+v", err)
		return nil, err
	}

	return &dto.BedListResponse{
		Beds:       converter.BedsToResponses(beds),
		Pagination: paginationOf(total, q.ListQuery),
	}, nil
}

// UpdateBed changes descriptive fields only; status has its own endpoints.
func (u *bedUsecase) UpdateBed(ctx context.Context, id uuid.UUID, req *dto.UpdateBedRequest) (*dto.BedResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.guard.RequireRole(p, entity.RolesFrontDesk...); err != nil {
		return nil, err
	}

	var bed *entity.Bed
	err = u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		bed, err = u.bedRepo.FindByID(tx, id)
		if err != nil {
			return err
		}
		if bed == nil || !u.guard.CanAccess(p, bed.ClinicID) {
			return ErrBedNotFound
		}

		if req.BedNumber != nil && *req.BedNumber != bed.BedNumber {
			existing, err := u.bedRepo.FindByNumber(tx, bed.RoomID, *req.BedNumber)
			if err != nil {
				return err
			}
			if existing != nil {
				return ErrBedNumberTaken
			}
			bed.BedNumber = *req.BedNumber
		}
		if req.Notes != nil {
			bed.Notes = req.Notes
		}

		if err := u.bedRepo.UpdateDetails(tx, bed); err != nil {
			if isDuplicateKeyError(err, "bed_number") {
				return ErrBedNumberTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		logUnexpected(u.log, err, "Failed to update bed %s", id)
		return nil, err
	}
	return converter.BedToResponse(bed), nil
}

func (u *bedUsecase) DeleteBed(ctx context.Context, id uuid.UUID) error {
	p, err := principalFrom(ctx)
	if err != nil {
		return err
	}
	if err := u.guard.RequireRole(p, entity.RolesFrontDesk...); err != nil {
		return err
	}

	err = u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		bed, err := u.bedRepo.FindByID(tx, id)
		if err != nil {
			return err
		}
		if bed == nil || !u.guard.CanAccess(p, bed.ClinicID) {
			return ErrBedNotFound
		}
		if err := bed.CanDelete(); err != nil {
			return err
		}
		rows, err := u.bedRepo.Delete(tx, id, bed.Status)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrBedChanged
		}
		return nil
	})
	logUnexpected(u.log, err, "Failed to delete bed %s", id)
	return err
}

// AssignBed admits a patient of the bed's clinic. The patient may hold only
// one bed at a time.
func (u *bedUsecase) AssignBed(ctx context.Context, id uuid.UUID, req *dto.AssignBedRequest) (*dto.BedResponse, error) {
	admission, err := parseDateTime(req.AdmissionDate)
	if err != nil {
		return nil, err
	}
	var discharge *time.Time
	if req.DischargeDate != nil && *req.DischargeDate != "" {
		d, err := parseDateTime(*req.DischargeDate)
		if err != nil {
			return nil, err
		}
		discharge = &d
	}

	return u.transition(ctx, id, bedTransitionAssign, entity.AuditActionBedAssign, func(tx *gorm.DB, bed *entity.Bed) error {
		patient, err := u.patientRepo.FindByID(tx, req.PatientID)
		if err != nil {
			return err
		}
		if patient == nil || patient.ClinicID != bed.ClinicID {
			return ErrPatientNotFound
		}

		current, err := u.bedRepo.FindOccupiedByPatient(tx, patient.ID)
		if err != nil {
			return err
		}
		if current != nil {
			return ErrPatientAlreadyAdmitted
		}

		if err := bed.Assign(patient.ID, admission, discharge, req.Notes); err != nil {
			return err
		}
		bed.Patient = patient
		return nil
	})
}

func (u *bedUsecase) DischargeBed(ctx context.Context, id uuid.UUID) (*dto.BedResponse, error) {
	return u.transition(ctx, id, bedTransitionDischarge, entity.AuditActionBedDischarge, func(_ *gorm.DB, bed *entity.Bed) error {
		if err := bed.Discharge(); err != nil {
			return err
		}
		bed.Patient = nil
		return nil
	})
}

func (u *bedUsecase) ReserveBed(ctx context.Context, id uuid.UUID) (*dto.BedResponse, error) {
	return u.transition(ctx, id, bedTransitionReserve, entity.AuditActionBedReserve, func(_ *gorm.DB, bed *entity.Bed) error {
		return bed.Reserve()
	})
}

func (u *bedUsecase) ReleaseBed(ctx context.Context, id uuid.UUID) (*dto.BedResponse, error) {
	return u.transition(ctx, id, bedTransitionRelease, entity.AuditActionBedRelease, func(_ *gorm.DB, bed *entity.Bed) error {
		return bed.Release()
	})
}

func (u *bedUsecase) StartMaintenance(ctx context.Context, id uuid.UUID) (*dto.BedResponse, error) {
	return u.transition(ctx, id, bedTransitionMaintenance, entity.AuditActionBedMaintenance, func(_ *gorm.DB, bed *entity.Bed) error {
		return bed.StartMaintenance()
	})
}

func (u *bedUsecase) RestoreBed(ctx context.Context, id uuid.UUID) (*dto.BedResponse, error) {
	return u.transition(ctx, id, bedTransitionRestore, entity.AuditActionBedRestore, func(_ *gorm.DB, bed *entity.Bed) error {
		return bed.Restore()
	})
}

// transition loads the bed, applies change and persists it with a
// compare-and-set on the status that was read. Losing the race is a Conflict.
func (u *bedUsecase) transition(
	ctx context.Context,
	id uuid.UUID,
	name, action string,
	change func(tx *gorm.DB, bed *entity.Bed) error,
) (*dto.BedResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.guard.RequireRole(p, entity.RolesFrontDesk...); err != nil {
		return nil, err
	}

	var bed *entity.Bed
	err = u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		bed, err = u.bedRepo.FindByID(tx, id)
		if err != nil {
			return err
		}
		if bed == nil || !u.guard.CanAccess(p, bed.ClinicID) {
			return ErrBedNotFound
		}

		from := bed.Status
		if err := change(tx, bed); err != nil {
			return err
		}

		rows, err := u.bedRepo.ApplyTransition(tx, bed, from)
		if err != nil {
			if isDuplicateKeyError(err, "occupied_patient") {
				return ErrPatientAlreadyAdmitted
			}
			return err
		}
		if rows == 0 {
			return ErrBedChanged
		}

		return u.auditService.LogTransition(ctx, tx, p, bed.ClinicID, action, "bed", bed.ID.String(), string(from), string(bed.Status))
	})
	u.metrics.BedTransitions.WithLabelValues(name, metricResult(err)).Inc()
	if err != nil {
		logUnexpected(u.log, err, "Failed to %s bed %s", name, id)
		return nil, err
	}

	u.log.Infof("Bed %s %s by user %s", bed.BedCode, name, p.UserID)
	return converter.BedToResponse(bed), nil
}
