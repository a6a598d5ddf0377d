package repository

import (
	"clinic-operations/internal/domain/entity"
	domainRepo "clinic-operations/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type clinicRepository struct{}

func NewClinicRepository() domainRepo.ClinicRepository {
	return &clinicRepository{}
}

func (r *clinicRepository) Create(db *gorm.DB, clinic *entity.Clinic) error {
	return db.Create(clinic).Error
}

func (r *clinicRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Clinic, error) {
	var clinic entity.Clinic
	found, err := first(db.Where("id = ?", id), &clinic)
	if err != nil || !found {
		return nil, err
	}
	return &clinic, nil
}

func (r *clinicRepository) FindByIDs(db *gorm.DB, ids []uuid.UUID) ([]entity.Clinic, error) {
	var clinics []entity.Clinic
	if len(ids) == 0 {
		return clinics, nil
	}
	err := db.Where("id IN ?", ids).Order("name ASC").Find(&clinics).Error
	if err != nil {
		return nil, err
	}
	return clinics, nil
}

func (r *clinicRepository) Update(db *gorm.DB, clinic *entity.Clinic) error {
	return db.Model(clinic).Select("name", "address", "phone", "email", "description").Updates(clinic).Error
}

func (r *clinicRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Where("id = ?", id).Delete(&entity.Clinic{}).Error
}

// CountDependents counts every row kind that blocks deleting the clinic.
func (r *clinicRepository) CountDependents(db *gorm.DB, id uuid.UUID) (entity.ClinicDependents, error) {
	var d entity.ClinicDependents
	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&entity.Doctor{}, &d.Doctors},
		{&entity.Patient{}, &d.Patients},
		{&entity.Room{}, &d.Rooms},
		{&entity.User{}, &d.Staff},
		{&entity.Transaction{}, &d.Transactions},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Where("clinic_id = ?", id).Count(c.dest).Error; err != nil {
			return d, err
		}
	}
	return d, nil
}
