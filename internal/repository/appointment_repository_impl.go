package repository

import (
	"clinic-operations/internal/domain/entity"
	domainRepo "clinic-operations/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit("Patient", "Doctor").Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	found, err := first(db.Preload("Patient").Preload("Doctor").Where("id = ?", id), &appointment)
	if err != nil || !found {
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) CodeExists(db *gorm.DB, code string) (bool, error) {
	return exists(db, &entity.Appointment{}, "appointment_code", code)
}

func (r *appointmentRepository) List(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, int64, error) {
	query := db.Model(&entity.Appointment{}).Where("clinic_id IN ?", filter.ClinicIDs)
	if filter.DoctorID != nil {
		query = query.Where("doctor_id = ?", *filter.DoctorID)
	}
	if filter.PatientID != nil {
		query = query.Where("patient_id = ?", *filter.PatientID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Date != nil {
		query = query.Where("appointment_date = ?", filter.Date.Format("2006-01-02"))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var appointments []entity.Appointment
	err := paginate(query, filter.Page).
		Preload("Patient").Preload("Doctor").
		Order("appointment_date DESC, start_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, 0, err
	}
	return appointments, total, nil
}

// FindOverlapping uses half-open intervals; HH:MM strings compare in order.
func (r *appointmentRepository) FindOverlapping(db *gorm.DB, doctorID uuid.UUID, w entity.TimeWindow, excludeID *uuid.UUID) ([]entity.Appointment, error) {
	query := db.Where("doctor_id = ? AND appointment_date = ?", doctorID, w.Date.Format("2006-01-02")).
		Where("status NOT IN ?", []entity.AppointmentStatus{entity.AppointmentStatusCancelled, entity.AppointmentStatusNoShow}).
		Where("start_time < ? AND end_time > ?", w.End, w.Start)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var appointments []entity.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

// ApplyTransition writes status plus the fields the transitions stamp, only
// while the stored status is still from.
func (r *appointmentRepository) ApplyTransition(db *gorm.DB, a *entity.Appointment, from entity.AppointmentStatus) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", a.ID, from).
		Updates(map[string]interface{}{
			"status":           a.Status,
			"appointment_date": a.AppointmentDate,
			"start_time":       a.StartTime,
			"end_time":         a.EndTime,
			"duration":         a.Duration,
			"vitals":           a.Vitals,
			"notes":            a.Notes,
			"follow_up_date":   a.FollowUpDate,
			"checked_in_at":    a.CheckedInAt,
			"started_at":       a.StartedAt,
			"completed_at":     a.CompletedAt,
			"cancelled_at":     a.CancelledAt,
			"cancelled_by_id":  a.CancelledByID,
			"cancel_reason":    a.CancelReason,
		})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) UpdateDetails(db *gorm.DB, a *entity.Appointment) error {
	return db.Model(&entity.Appointment{}).
		Where("id = ?", a.ID).
		Updates(map[string]interface{}{
			"type":          a.Type,
			"chief_concern": a.ChiefConcern,
			"notes":         a.Notes,
		}).Error
}

func (r *appointmentRepository) CountByDoctor(db *gorm.DB, doctorID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&entity.Appointment{}).Where("doctor_id = ?", doctorID).Count(&count).Error
	return count, err
}
