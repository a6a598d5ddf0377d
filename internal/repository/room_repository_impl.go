package repository

import (
	"clinic-operations/internal/domain/entity"
	domainRepo "clinic-operations/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type roomRepository struct{}

func NewRoomRepository() domainRepo.RoomRepository {
	return &roomRepository{}
}

func (r *roomRepository) Create(db *gorm.DB, room *entity.Room) error {
	return db.Create(room).Error
}

func (r *roomRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Room, error) {
	var room entity.Room
	found, err := first(db.Where("id = ?", id), &room)
	if err != nil || !found {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Room, error) {
	var room entity.Room
	found, err := first(forUpdate(db).Where("id = ?", id), &room)
	if err != nil || !found {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) FindByNumber(db *gorm.DB, clinicID uuid.UUID, roomNumber string) (*entity.Room, error) {
	var room entity.Room
	found, err := first(db.Where("clinic_id = ? AND room_number = ?", clinicID, roomNumber), &room)
	if err != nil || !found {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) CodeExists(db *gorm.DB, code string) (bool, error) {
	return exists(db, &entity.Room{}, "room_code", code)
}

func (r *roomRepository) List(db *gorm.DB, filter entity.RoomFilter) ([]entity.Room, int64, error) {
	query := db.Model(&entity.Room{}).Where("clinic_id IN ?", filter.ClinicIDs)
	if filter.RoomType != "" {
		query = query.Where("room_type = ?", filter.RoomType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rooms []entity.Room
	if err := paginate(query, filter.Page).Order("floor ASC, room_number ASC").Find(&rooms).Error; err != nil {
		return nil, 0, err
	}
	return rooms, total, nil
}

func (r *roomRepository) Update(db *gorm.DB, room *entity.Room) error {
	return db.Model(room).
		Select("room_number", "room_type", "floor", "total_beds", "is_active").
		Updates(room).Error
}

func (r *roomRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Where("id = ?", id).Delete(&entity.Room{}).Error
}

// Occupancy groups bed counts by room and status.
func (r *roomRepository) Occupancy(db *gorm.DB, roomIDs []uuid.UUID) (map[uuid.UUID]entity.Occupancy, error) {
	out := make(map[uuid.UUID]entity.Occupancy, len(roomIDs))
	if len(roomIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		RoomID uuid.UUID
		Status entity.BedStatus
		Count  int64
	}
	err := db.Model(&entity.Bed{}).
		Select("room_id, status, COUNT(*) AS count").
		Where("room_id IN ?", roomIDs).
		Group("room_id, status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, id := range roomIDs {
		out[id] = entity.Occupancy{}
	}
	for _, row := range rows {
		o := out[row.RoomID]
		o.Add(row.Status, row.Count)
		out[row.RoomID] = o
	}
	return out, nil
}
