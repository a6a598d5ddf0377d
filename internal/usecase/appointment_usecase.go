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
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound       = apperror.NotFound("appointment not found")
	ErrAppointmentOverlap        = apperror.Conflict("doctor already has an appointment in this time window")
	ErrAppointmentChanged        = apperror.Conflict("appointment status changed concurrently, re-fetch and retry")
	ErrAppointmentTerminal       = apperror.Conflict("appointment is closed and can no longer be edited")
	ErrPreviousAppointmentNeeded = apperror.Validation("previousAppointmentId is required for a follow-up appointment")
	ErrPreviousAppointmentWrong  = apperror.Validation("previous appointment must belong to the same patient and clinic")
)

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	ListAppointments(ctx context.Context, q dto.AppointmentListQuery) (*dto.AppointmentListResponse, error)
	UpdateAppointment(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)

	Confirm(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	CheckIn(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	Start(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	Complete(ctx context.Context, id uuid.UUID, req *dto.CompleteAppointmentRequest) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, id uuid.UUID, req *dto.CancelAppointmentRequest) (*dto.AppointmentResponse, error)
	MarkNoShow(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	Reschedule(ctx context.Context, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error)
	ConfirmReschedule(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	tx              database.Transactor
	log             *logrus.Logger
	guard           *service.TenantGuard
	codes           service.CodeGenerator
	appointmentRepo repository.AppointmentRepository
	patientRepo     repository.PatientRepository
	doctorRepo      repository.DoctorRepository
	auditService    service.AuditService
	metrics         *metrics.Metrics
	now             func() time.Time
}

func NewAppointmentUsecase(
	tx database.Transactor,
	log *logrus.Logger,
	guard *service.TenantGuard,
	codes service.CodeGenerator,
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
	m *metrics.Metrics,
) AppointmentUsecase {
	return &appointmentUsecase{
		tx:              tx,
		log:             log,
		guard:           guard,
		codes:           codes,
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		doctorRepo:      doctorRepo,
		auditService:    auditService,
		metrics:         m,
		now:             time.Now,
	}
}

// CreateAppointment books a SCHEDULED appointment. The doctor row is locked
// while the overlap check runs so two bookings cannot claim the same window.
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
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

	window, err := entity.NewTimeWindow(req.AppointmentDate, req.StartTime, req.EndTime, req.Duration)
	if err != nil {
		return nil, err
	}

	apptType := entity.AppointmentType(req.Type)
	if apptType == "" {
		apptType = entity.AppointmentTypeRegular
	}
	isFollowUp := req.IsFollowUp || apptType == entity.AppointmentTypeFollowUp || req.PreviousAppointmentID != nil
	if isFollowUp && req.PreviousAppointmentID == nil {
		return nil, ErrPreviousAppointmentNeeded
	}

	appointment := &entity.Appointment{
		ClinicID:              clinicID,
		PatientID:             req.PatientID,
		DoctorID:              req.DoctorID,
		Type:                  apptType,
		Status:                entity.AppointmentStatusScheduled,
		ChiefConcern:          req.ChiefConcern,
		Notes:                 req.Notes,
		IsFollowUp:            isFollowUp,
		PreviousAppointmentID: req.PreviousAppointmentID,
		CreatedByID:           &p.UserID,
	}
	appointment.SetWindow(window)

	err = u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		patient, err := u.patientRepo.FindByID(tx, req.PatientID)
		if err != nil {
			return err
		}
		if patient == nil || patient.ClinicID != clinicID {
			return ErrPatientNotFound
		}

		doctor, err := u.doctorRepo.FindByIDForUpdate(tx, req.DoctorID)
		if err != nil {
			return err
		}
		if doctor == nil || doctor.ClinicID != clinicID {
			return ErrDoctorNotFound
		}

		if req.PreviousAppointmentID != nil {
			prev, err := u.appointmentRepo.FindByID(tx, *req.PreviousAppointmentID)
			if err != nil {
				return err
			}
			if prev == nil || prev.ClinicID != clinicID || prev.PatientID != patient.ID {
				return ErrPreviousAppointmentWrong
			}
		}

		if err := u.checkOverlap(tx, doctor.ID, window, nil); err != nil {
			return err
		}

		appointment.AppointmentCode, err = u.codes.Generate(ctx, service.CodePrefixAppointment, func(c string) (bool, error) {
			return u.appointmentRepo.CodeExists(tx, c)
		})
		if err != nil {
			return err
		}

		if err := u.appointmentRepo.Create(tx, appointment); err != nil {
			return err
		}
		appointment.Patient = patient
		appointment.Doctor = doctor

		return u.auditService.LogCreate(ctx, tx, p, clinicID, entity.AuditActionAppointmentCreate, "appointment", appointment.ID.String(), map[string]interface{}{
			"appointment_code": appointment.AppointmentCode,
			"doctor_id":        doctor.ID.String(),
			"patient_id":       patient.ID.String(),
			"date":             req.AppointmentDate,
			"start_time":       window.Start,
			"end_time":         window.End,
		})
	})
	if err != nil {
		logUnexpected(u.log, err, "Failed to create appointment")
		return nil, err
	}

	u.log.Infof("Appointment %s booked for doctor %s on %s %s-%s", appointment.AppointmentCode, appointment.DoctorID, req.AppointmentDate, window.Start, window.End)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}

	appointment, err := u.appointmentRepo.FindByID(u.tx.DB(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil || !u.guard.CanAccess(p, appointment.ClinicID) {
		return nil, ErrAppointmentNotFound
	}
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) ListAppointments(ctx context.Context, q dto.AppointmentListQuery) (*dto.AppointmentListResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}

	filter := entity.AppointmentFilter{
		DoctorID:  q.DoctorID,
		PatientID: q.PatientID,
		Status:    entity.AppointmentStatus(q.Status),
		Page:      pageOf(q.ListQuery),
	}
	if q.Date != "" {
		d, err := parseDate(q.Date)
		if err != nil {
			return nil, err
		}
		filter.Date = &d
	}

	filter.ClinicIDs = u.guard.Narrow(p, q.ClinicID)
	if len(filter.ClinicIDs) == 0 {
		return &dto.AppointmentListResponse{Appointments: []dto.AppointmentResponse{}, Pagination: paginationOf(0, q.ListQuery)}, nil
	}

	appointments, total, err := u.appointmentRepo.List(u.tx.DB(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Pagination:   paginationOf(total, q.ListQuery),
	}, nil
}

// UpdateAppointment edits descriptive fields of an open appointment.
func (u *appointmentUsecase) UpdateAppointment(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.guard.RequireRole(p, entity.RolesFrontDesk...); err != nil {
		return nil, err
	}

	var appointment *entity.Appointment
	err = u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		appointment, err = u.appointmentRepo.FindByID(tx, id)
		if err != nil {
			return err
		}
		if appointment == nil || !u.guard.CanAccess(p, appointment.ClinicID) {
			return ErrAppointmentNotFound
		}
		if appointment.Status.IsTerminal() {
			return ErrAppointmentTerminal
		}

		if req.Type != nil {
			appointment.Type = entity.AppointmentType(*req.Type)
		}
		if req.ChiefConcern != nil {
			appointment.ChiefConcern = req.ChiefConcern
		}
		if req.Notes != nil {
			appointment.Notes = req.Notes
		}
		return u.appointmentRepo.UpdateDetails(tx, appointment)
	})
	if err != nil {
		logUnexpected(u.log, err, "Failed to update appointment %s", id)
		return nil, err
	}
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) Confirm(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, id, entity.AppointmentStatusConfirmed, entity.RolesFrontDesk, func(_ *gorm.DB, _ *entity.Principal, a *entity.Appointment) error {
		return a.Confirm()
	})
}

func (u *appointmentUsecase) CheckIn(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, id, entity.AppointmentStatusCheckedIn, entity.RolesFrontDesk, func(_ *gorm.DB, _ *entity.Principal, a *entity.Appointment) error {
		return a.CheckIn(u.now())
	})
}

func (u *appointmentUsecase) Start(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, id, entity.AppointmentStatusInProgress, entity.RolesClinician, func(_ *gorm.DB, _ *entity.Principal, a *entity.Appointment) error {
		return a.Start(u.now())
	})
}

func (u *appointmentUsecase) Complete(ctx context.Context, id uuid.UUID, req *dto.CompleteAppointmentRequest) (*dto.AppointmentResponse, error) {
	followUp, err := parseOptionalDate(req.FollowUpDate)
	if err != nil {
		return nil, err
	}
	var vitals datatypes.JSONMap
	if req.Vitals != nil {
		vitals = datatypes.JSONMap(req.Vitals)
	}

	return u.transition(ctx, id, entity.AppointmentStatusCompleted, entity.RolesClinician, func(_ *gorm.DB, _ *entity.Principal, a *entity.Appointment) error {
		return a.Complete(u.now(), vitals, req.Notes, followUp)
	})
}

// Cancel stamps cancelled_at from the server clock and the caller as actor.
func (u *appointmentUsecase) Cancel(ctx context.Context, id uuid.UUID, req *dto.CancelAppointmentRequest) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, id, entity.AppointmentStatusCancelled, entity.RolesFrontDesk, func(_ *gorm.DB, p *entity.Principal, a *entity.Appointment) error {
		return a.Cancel(req.CancelReason, p.UserID, u.now())
	})
}

func (u *appointmentUsecase) MarkNoShow(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, id, entity.AppointmentStatusNoShow, entity.RolesFrontDesk, func(_ *gorm.DB, _ *entity.Principal, a *entity.Appointment) error {
		return a.MarkNoShow()
	})
}

// Reschedule moves the appointment to a new window, which must be free for
// the doctor, and parks it in RESCHEDULED.
func (u *appointmentUsecase) Reschedule(ctx context.Context, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	window, err := entity.NewTimeWindow(req.AppointmentDate, req.StartTime, req.EndTime, req.Duration)
	if err != nil {
		return nil, err
	}

	return u.transition(ctx, id, entity.AppointmentStatusRescheduled, entity.RolesFrontDesk, func(tx *gorm.DB, _ *entity.Principal, a *entity.Appointment) error {
		if err := a.Reschedule(window); err != nil {
			return err
		}
		doctor, err := u.doctorRepo.FindByIDForUpdate(tx, a.DoctorID)
		if err != nil {
			return err
		}
		if doctor == nil {
			return ErrDoctorNotFound
		}
		return u.checkOverlap(tx, doctor.ID, window, &a.ID)
	})
}

func (u *appointmentUsecase) ConfirmReschedule(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, id, entity.AppointmentStatusScheduled, entity.RolesFrontDesk, func(_ *gorm.DB, _ *entity.Principal, a *entity.Appointment) error {
		return a.ConfirmReschedule()
	})
}

func (u *appointmentUsecase) checkOverlap(tx *gorm.DB, doctorID uuid.UUID, w entity.TimeWindow, excludeID *uuid.UUID) error {
	clashes, err := u.appointmentRepo.FindOverlapping(tx, doctorID, w, excludeID)
	if err != nil {
		return err
	}
	for i := range clashes {
		if clashes[i].Status.HoldsSlot() && clashes[i].Window().Overlaps(w) {
			u.log.Infof("Window %s-%s clashes with appointment %s", w.Start, w.End, clashes[i].AppointmentCode)
			return ErrAppointmentOverlap
		}
	}
	return nil
}

// transition runs change on a freshly loaded appointment and persists it only
// if the stored status is still the one that was read.
func (u *appointmentUsecase) transition(
	ctx context.Context,
	id uuid.UUID,
	target entity.AppointmentStatus,
	roles []entity.Role,
	change func(tx *gorm.DB, p *entity.Principal, a *entity.Appointment) error,
) (*dto.AppointmentResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.guard.RequireRole(p, roles...); err != nil {
		return nil, err
	}

	var (
		appointment *entity.Appointment
		from        entity.AppointmentStatus
	)
	err = u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		appointment, err = u.appointmentRepo.FindByID(tx, id)
		if err != nil {
			return err
		}
		if appointment == nil || !u.guard.CanAccess(p, appointment.ClinicID) {
			return ErrAppointmentNotFound
		}

		from = appointment.Status
		if err := change(tx, p, appointment); err != nil {
			return err
		}

		rows, err := u.appointmentRepo.ApplyTransition(tx, appointment, from)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrAppointmentChanged
		}

		return u.auditService.LogTransition(ctx, tx, p, appointment.ClinicID, entity.AuditActionAppointmentStatus, "appointment", appointment.ID.String(), string(from), string(target))
	})
	u.metrics.AppointmentTransitions.WithLabelValues(string(target), metricResult(err)).Inc()
	if err != nil {
		logUnexpected(u.log, err, "Failed to transition appointment %s", id)
		return nil, err
	}

	u.log.Infof("Appointment %s moved from %s to %s by user %s", appointment.AppointmentCode, from, target, p.UserID)
	return converter.AppointmentToResponse(appointment), nil
}
