package repository

import (
	"errors"

	"clinic-operations/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// paginate applies limit/offset with a bounded page size.
func paginate(q *gorm.DB, p entity.Page) *gorm.DB {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}
	return q.Limit(limit).Offset(offset)
}

// first loads one row into dest, returning found=false on gorm.ErrRecordNotFound.
func first(q *gorm.DB, dest interface{}) (bool, error) {
	err := q.First(dest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func exists(db *gorm.DB, model interface{}, column, value string) (bool, error) {
	var count int64
	err := db.Model(model).Where(column+" = ?", value).Count(&count).Error
	return count > 0, err
}
