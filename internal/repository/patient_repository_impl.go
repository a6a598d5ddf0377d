package repository

import (
	"clinic-operations/internal/domain/entity"
	domainRepo "clinic-operations/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) Create(db *gorm.DB, patient *entity.Patient) error {
	return db.Create(patient).Error
}

func (r *patientRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	found, err := first(db.Where("id = ?", id), &patient)
	if err != nil || !found {
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) CodeExists(db *gorm.DB, code string) (bool, error) {
	return exists(db, &entity.Patient{}, "patient_code", code)
}

func (r *patientRepository) List(db *gorm.DB, filter entity.PatientFilter) ([]entity.Patient, int64, error) {
	query := db.Model(&entity.Patient{}).Where("clinic_id IN ?", filter.ClinicIDs)
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("full_name ILIKE ? OR patient_code ILIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var patients []entity.Patient
	if err := paginate(query, filter.Page).Order("created_at DESC").Find(&patients).Error; err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}

func (r *patientRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Where("id = ?", id).Delete(&entity.Patient{}).Error
}

func (r *patientRepository) CountDependents(db *gorm.DB, id uuid.UUID) (entity.PatientDependents, error) {
	var d entity.PatientDependents
	if err := db.Model(&entity.Bed{}).
		Where("patient_id = ? AND status = ?", id, entity.BedStatusOccupied).
		Count(&d.OccupiedBeds).Error; err != nil {
		return d, err
	}
	if err := db.Model(&entity.Appointment{}).Where("patient_id = ?", id).Count(&d.Appointments).Error; err != nil {
		return d, err
	}
	if err := db.Model(&entity.Invoice{}).Where("patient_id = ?", id).Count(&d.Invoices).Error; err != nil {
		return d, err
	}
	return d, nil
}
