package repository

import (
	"clinic-operations/internal/domain/entity"
	domainRepo "clinic-operations/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type transactionRepository struct{}

func NewTransactionRepository() domainRepo.TransactionRepository {
	return &transactionRepository{}
}

func (r *transactionRepository) Create(db *gorm.DB, txn *entity.Transaction) error {
	return db.Create(txn).Error
}

func (r *transactionRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Transaction, error) {
	var txn entity.Transaction
	found, err := first(db.Where("id = ?", id), &txn)
	if err != nil || !found {
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) CodeExists(db *gorm.DB, code string) (bool, error) {
	return exists(db, &entity.Transaction{}, "transaction_code", code)
}

func (r *transactionRepository) List(db *gorm.DB, filter entity.TransactionFilter) ([]entity.Transaction, int64, error) {
	query := db.Model(&entity.Transaction{}).Where("clinic_id IN ?", filter.ClinicIDs)
	if filter.InvoiceID != nil {
		query = query.Where("invoice_id = ?", *filter.InvoiceID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var txns []entity.Transaction
	if err := paginate(query, filter.Page).Order("created_at DESC").Find(&txns).Error; err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

func (r *transactionRepository) SumPaidIncome(db *gorm.DB, invoiceID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	row := db.Model(&entity.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("invoice_id = ? AND type = ? AND payment_status = ?",
			invoiceID, entity.TransactionTypeIncome, entity.PaymentStatusPaid).
		Row()
	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

func (r *transactionRepository) SumPaidIncomeByInvoices(db *gorm.DB, invoiceIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	out := make(map[uuid.UUID]decimal.Decimal, len(invoiceIDs))
	if len(invoiceIDs) == 0 {
		return out, nil
	}

	rows, err := db.Model(&entity.Transaction{}).
		Select("invoice_id, COALESCE(SUM(amount), 0)").
		Where("invoice_id IN ? AND type = ? AND payment_status = ?",
			invoiceIDs, entity.TransactionTypeIncome, entity.PaymentStatusPaid).
		Group("invoice_id").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var sum decimal.Decimal
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, err
		}
		out[id] = sum
	}
	return out, rows.Err()
}

func (r *transactionRepository) CountByInvoice(db *gorm.DB, invoiceID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&entity.Transaction{}).Where("invoice_id = ?", invoiceID).Count(&count).Error
	return count, err
}

// UpdateDescriptive only ever touches description and receipt_url.
func (r *transactionRepository) UpdateDescriptive(db *gorm.DB, id uuid.UUID, description *string, receiptURL *string) error {
	updates := map[string]interface{}{}
	if description != nil {
		updates["description"] = *description
	}
	if receiptURL != nil {
		updates["receipt_url"] = *receiptURL
	}
	if len(updates) == 0 {
		return nil
	}
	return db.Model(&entity.Transaction{}).Where("id = ?", id).Updates(updates).Error
}
