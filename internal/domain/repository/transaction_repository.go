package repository

import (
	"clinic-operations/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionRepository has no update of financial fields and no delete.
type TransactionRepository interface {
	Create(db *gorm.DB, txn *entity.Transaction) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Transaction, error)
	CodeExists(db *gorm.DB, code string) (bool, error)
	List(db *gorm.DB, filter entity.TransactionFilter) ([]entity.Transaction, int64, error)
	// SumPaidIncome sums PAID INCOME entries linked to the invoice.
	SumPaidIncome(db *gorm.DB, invoiceID uuid.UUID) (decimal.Decimal, error)
	SumPaidIncomeByInvoices(db *gorm.DB, invoiceIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
	CountByInvoice(db *gorm.DB, invoiceID uuid.UUID) (int64, error)
	UpdateDescriptive(db *gorm.DB, id uuid.UUID, description *string, receiptURL *string) error
}
