package repository

import (
	"clinic-operations/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceRepository interface {
	// Create inserts the invoice together with its items.
	Create(db *gorm.DB, invoice *entity.Invoice) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Invoice, error)
	// FindByIDForUpdate locks the invoice row for the rest of the transaction.
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Invoice, error)
	CodeExists(db *gorm.DB, code string) (bool, error)
	List(db *gorm.DB, filter entity.InvoiceFilter) ([]entity.Invoice, int64, error)
	SetStatus(db *gorm.DB, id uuid.UUID, status entity.InvoiceStatus) error
	UpdateDetails(db *gorm.DB, invoice *entity.Invoice) error
	Delete(db *gorm.DB, id uuid.UUID) error
}
