package repository

import (
	"clinic-operations/internal/domain/entity"
	domainRepo "clinic-operations/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) Create(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Create(doctor).Error
}

func (r *doctorRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	found, err := first(db.Where("id = ?", id), &doctor)
	if err != nil || !found {
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	found, err := first(forUpdate(db).Where("id = ?", id), &doctor)
	if err != nil || !found {
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	found, err := first(db.Where("user_id = ?", userID), &doctor)
	if err != nil || !found {
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) List(db *gorm.DB, filter entity.DoctorFilter) ([]entity.Doctor, int64, error) {
	query := db.Model(&entity.Doctor{}).Where("clinic_id IN ?", filter.ClinicIDs)
	if filter.Specialization != "" {
		query = query.Where("specialization ILIKE ?", "%"+filter.Specialization+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var doctors []entity.Doctor
	if err := paginate(query, filter.Page).Order("full_name ASC").Find(&doctors).Error; err != nil {
		return nil, 0, err
	}
	return doctors, total, nil
}

func (r *doctorRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Where("id = ?", id).Delete(&entity.Doctor{}).Error
}
