package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"clinic-operations/pkg/apperror"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled   AppointmentStatus = "SCHEDULED"
	AppointmentStatusConfirmed   AppointmentStatus = "CONFIRMED"
	AppointmentStatusCheckedIn   AppointmentStatus = "CHECKED_IN"
	AppointmentStatusInProgress  AppointmentStatus = "IN_PROGRESS"
	AppointmentStatusCompleted   AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled   AppointmentStatus = "CANCELLED"
	AppointmentStatusNoShow      AppointmentStatus = "NO_SHOW"
	AppointmentStatusRescheduled AppointmentStatus = "RESCHEDULED"
)

type AppointmentType string

const (
	AppointmentTypeRegular      AppointmentType = "REGULAR"
	AppointmentTypeEmergency    AppointmentType = "EMERGENCY"
	AppointmentTypeFollowUp     AppointmentType = "FOLLOW_UP"
	AppointmentTypeConsultation AppointmentType = "CONSULTATION"
	AppointmentTypeProcedure    AppointmentType = "PROCEDURE"
	AppointmentTypeCheckup      AppointmentType = "CHECKUP"
	AppointmentTypeVaccination  AppointmentType = "VACCINATION"
	AppointmentTypeLaboratory   AppointmentType = "LABORATORY"
)

// appointmentTransitions is the directed graph of legal status moves.
// Terminal states have no entry.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusScheduled: {
		AppointmentStatusConfirmed,
		AppointmentStatusCheckedIn,
		AppointmentStatusCancelled,
		AppointmentStatusRescheduled,
		AppointmentStatusNoShow,
	},
	AppointmentStatusConfirmed: {
		AppointmentStatusCheckedIn,
		AppointmentStatusCancelled,
		AppointmentStatusRescheduled,
		AppointmentStatusNoShow,
	},
	AppointmentStatusCheckedIn:   {AppointmentStatusInProgress, AppointmentStatusCancelled},
	AppointmentStatusInProgress:  {AppointmentStatusCompleted, AppointmentStatusCancelled},
	AppointmentStatusRescheduled: {AppointmentStatusScheduled, AppointmentStatusCancelled},
}

// CanTransition reports whether an appointment may move from one status to another.
func CanTransition(from, to AppointmentStatus) bool {
	for _, s := range appointmentTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s has no outgoing transitions.
func (s AppointmentStatus) IsTerminal() bool {
	_, ok := appointmentTransitions[s]
	return !ok
}

// HoldsSlot reports whether an appointment in status s reserves its doctor's time.
func (s AppointmentStatus) HoldsSlot() bool {
	return s != AppointmentStatusCancelled && s != AppointmentStatusNoShow
}

var (
	ErrCancelReasonRequired = apperror.Validation("cancel reason is required")
	ErrCancelActorRequired  = apperror.Validation("cancelling principal is required")
	ErrInvalidDate          = apperror.Validation("appointment date must be YYYY-MM-DD")
	ErrInvalidTime          = apperror.Validation("start and end time must be HH:MM")
	ErrEndBeforeStart       = apperror.Validation("end time must be after start time")
	ErrInvalidDuration      = apperror.Validation("duration must be greater than zero")
)

// TimeWindow is the date and clock interval of an appointment. Start and End
// are normalised to zero-padded HH:MM so they order lexically.
type TimeWindow struct {
	Date     time.Time
	Start    string
	End      string
	Duration int
}

// NewTimeWindow parses and validates a window. All four fields are required.
func NewTimeWindow(date, start, end string, duration int) (TimeWindow, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return TimeWindow{}, ErrInvalidDate
	}
	st, err := time.Parse("15:04", start)
	if err != nil {
		return TimeWindow{}, ErrInvalidTime
	}
	et, err := time.Parse("15:04", end)
	if err != nil {
		return TimeWindow{}, ErrInvalidTime
	}
	if !et.After(st) {
		return TimeWindow{}, ErrEndBeforeStart
	}
	if duration <= 0 {
		return TimeWindow{}, ErrInvalidDuration
	}
	return TimeWindow{
		Date:     d,
		Start:    st.Format("15:04"),
		End:      et.Format("15:04"),
		Duration: duration,
	}, nil
}

// Overlaps reports whether two windows intersect on the same date.
// Windows are half-open, so back-to-back slots do not collide.
func (w TimeWindow) Overlaps(o TimeWindow) bool {
	if !sameDay(w.Date, o.Date) {
		return false
	}
	return w.Start < o.End && o.Start < w.End
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

type Appointment struct {
	ID                    uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID              uuid.UUID         `gorm:"type:uuid;not null;index" json:"clinic_id"`
	AppointmentCode       string            `gorm:"type:varchar(32);uniqueIndex;not null" json:"appointment_code"`
	PatientID             uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID              uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	AppointmentDate       time.Time         `gorm:"type:date;not null" json:"appointment_date"`
	StartTime             string            `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime               string            `gorm:"type:varchar(5);not null" json:"end_time"`
	Duration              int               `gorm:"not null" json:"duration"`
	Type                  AppointmentType   `gorm:"type:varchar(20);not null" json:"type"`
	Status                AppointmentStatus `gorm:"type:varchar(20);not null;default:SCHEDULED" json:"status"`
	ChiefConcern          *string           `gorm:"type:text" json:"chief_concern,omitempty"`
	Notes                 *string           `gorm:"type:text" json:"notes,omitempty"`
	Vitals                datatypes.JSONMap `gorm:"type:jsonb" json:"vitals,omitempty"`
	FollowUpDate          *time.Time        `gorm:"type:date" json:"follow_up_date,omitempty"`
	IsFollowUp            bool              `gorm:"not null;default:false" json:"is_follow_up"`
	PreviousAppointmentID *uuid.UUID        `gorm:"type:uuid" json:"previous_appointment_id,omitempty"`
	CheckedInAt           *time.Time        `json:"checked_in_at,omitempty"`
	StartedAt             *time.Time        `json:"started_at,omitempty"`
	CompletedAt           *time.Time        `json:"completed_at,omitempty"`
	CancelledAt           *time.Time        `json:"cancelled_at,omitempty"`
	CancelledByID         *uuid.UUID        `gorm:"type:uuid" json:"cancelled_by_id,omitempty"`
	CancelReason          *string           `gorm:"type:text" json:"cancel_reason,omitempty"`
	CreatedByID           *uuid.UUID        `gorm:"type:uuid" json:"created_by_id,omitempty"`
	CreatedAt             time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	Patient *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  *Doctor  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// Window returns the appointment's scheduled time window.
func (a *Appointment) Window() TimeWindow {
	return TimeWindow{Date: a.AppointmentDate, Start: a.StartTime, End: a.EndTime, Duration: a.Duration}
}

// SetWindow overwrites the scheduling fields from w.
func (a *Appointment) SetWindow(w TimeWindow) {
	a.AppointmentDate = w.Date
	a.StartTime = w.Start
	a.EndTime = w.End
	a.Duration = w.Duration
}

func (a *Appointment) moveTo(to AppointmentStatus) error {
	if !CanTransition(a.Status, to) {
		return apperror.Conflictf("cannot move appointment from %s to %s", a.Status, to)
	}
	a.Status = to
	return nil
}

func (a *Appointment) Confirm() error {
	return a.moveTo(AppointmentStatusConfirmed)
}

func (a *Appointment) CheckIn(now time.Time) error {
	if err := a.moveTo(AppointmentStatusCheckedIn); err != nil {
		return err
	}
	a.CheckedInAt = &now
	return nil
}

func (a *Appointment) Start(now time.Time) error {
	if err := a.moveTo(AppointmentStatusInProgress); err != nil {
		return err
	}
	a.StartedAt = &now
	return nil
}

// Complete records the clinical outcome. It never creates the follow-up
// appointment itself.
func (a *Appointment) Complete(now time.Time, vitals datatypes.JSONMap, notes *string, followUp *time.Time) error {
	if err := a.moveTo(AppointmentStatusCompleted); err != nil {
		return err
	}
	a.CompletedAt = &now
	if vitals != nil {
		a.Vitals = vitals
	}
	if notes != nil {
		a.Notes = notes
	}
	a.FollowUpDate = followUp
	return nil
}

// Cancel stamps the cancellation audit fields. They are written once.
func (a *Appointment) Cancel(reason string, by uuid.UUID, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrCancelReasonRequired
	}
	if by == uuid.Nil {
		return ErrCancelActorRequired
	}
	if err := a.moveTo(AppointmentStatusCancelled); err != nil {
		return err
	}
	a.CancelReason = &reason
	a.CancelledByID = &by
	a.CancelledAt = &now
	return nil
}

func (a *Appointment) MarkNoShow() error {
	return a.moveTo(AppointmentStatusNoShow)
}

// Reschedule moves the appointment to w and parks it in RESCHEDULED until
// ConfirmReschedule puts it back in the flow.
func (a *Appointment) Reschedule(w TimeWindow) error {
	if err := a.moveTo(AppointmentStatusRescheduled); err != nil {
		return err
	}
	a.SetWindow(w)
	return nil
}

func (a *Appointment) ConfirmReschedule() error {
	return a.moveTo(AppointmentStatusScheduled)
}
