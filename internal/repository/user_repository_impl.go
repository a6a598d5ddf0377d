package repository

import (
	"clinic-operations/internal/domain/entity"
	domainRepo "clinic-operations/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct{}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *entity.User) error {
	return db.Create(user).Error
}

func (r *userRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	found, err := first(db.Where("id = ?", id), &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	var user entity.User
	found, err := first(db.Where("email = ?", email), &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindSuperAdminClinicIDs(db *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := db.Model(&entity.SuperAdminClinic{}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Pluck("clinic_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *userRepository) AddSuperAdminClinic(db *gorm.DB, userID, clinicID uuid.UUID) error {
	row := &entity.SuperAdminClinic{UserID: userID, ClinicID: clinicID}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error
}

func (r *userRepository) RemoveClinicFromSuperAdmins(db *gorm.DB, clinicID uuid.UUID) error {
	return db.Where("clinic_id = ?", clinicID).Delete(&entity.SuperAdminClinic{}).Error
}
