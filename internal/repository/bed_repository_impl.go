package repository

import (
	"clinic-operations/internal/domain/entity"
	domainRepo "clinic-operations/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bedRepository struct{}

func NewBedRepository() domainRepo.BedRepository {
	return &bedRepository{}
}

func (r *bedRepository) Create(db *gorm.DB, bed *entity.Bed) error {
	return db.Omit("Room", "Patient").Create(bed).Error
}

func (r *bedRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Bed, error) {
	var bed entity.Bed
	found, err := first(db.Preload("Room").Preload("Patient").Where("id = ?", id), &bed)
	if err != nil || !found {
		return nil, err
	}
	return &bed, nil
}

func (r *bedRepository) FindByNumber(db *gorm.DB, roomID uuid.UUID, bedNumber string) (*entity.Bed, error) {
	var bed entity.Bed
	found, err := first(db.Where("room_id = ? AND bed_number = ?", roomID, bedNumber), &bed)
	if err != nil || !found {
		return nil, err
	}
	return &bed, nil
}

func (r *bedRepository) FindOccupiedByPatient(db *gorm.DB, patientID uuid.UUID) (*entity.Bed, error) {
	var bed entity.Bed
	found, err := first(db.Where("patient_id = ? AND status = ?", patientID, entity.BedStatusOccupied), &bed)
	if err != nil || !found {
		return nil, err
	}
	return &bed, nil
}

func (r *bedRepository) CodeExists(db *gorm.DB, code string) (bool, error) {
	return exists(db, &entity.Bed{}, "bed_code", code)
}

func (r *bedRepository) CountByRoom(db *gorm.DB, roomID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&entity.Bed{}).Where("room_id = ?", roomID).Count(&count).Error
	return count, err
}

func (r *bedRepository) List(db *gorm.DB, filter entity.BedFilter) ([]entity.Bed, int64, error) {
	query := db.Model(&entity.Bed{}).Where("clinic_id IN ?", filter.ClinicIDs)
	if filter.RoomID != nil {
		query = query.Where("room_id = ?", *filter.RoomID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var beds []entity.Bed
	if err := paginate(query, filter.Page).Preload("Patient").Order("bed_number ASC").Find(&beds).Error; err != nil {
		return nil, 0, err
	}
	return beds, total, nil
}

// ApplyTransition is a compare-and-set on status: zero rows means another
// request moved the bed first.
func (r *bedRepository) ApplyTransition(db *gorm.DB, bed *entity.Bed, from entity.BedStatus) (int64, error) {
	result := db.Model(&entity.Bed{}).
		Where("id = ? AND status = ?", bed.ID, from).
		Updates(map[string]interface{}{
			"status":         bed.Status,
			"patient_id":     bed.PatientID,
			"admission_date": bed.AdmissionDate,
			"discharge_date": bed.DischargeDate,
			"notes":          bed.Notes,
		})
	return result.RowsAffected, result.Error
}

func (r *bedRepository) UpdateDetails(db *gorm.DB, bed *entity.Bed) error {
	return db.Model(&entity.Bed{}).
		Where("id = ?", bed.ID).
		Updates(map[string]interface{}{
			"bed_number": bed.BedNumber,
			"notes":      bed.Notes,
		}).Error
}

func (r *bedRepository) Delete(db *gorm.DB, id uuid.UUID, status entity.BedStatus) (int64, error) {
	result := db.Where("id = ? AND status = ?", id, status).Delete(&entity.Bed{})
	return result.RowsAffected, result.Error
}
