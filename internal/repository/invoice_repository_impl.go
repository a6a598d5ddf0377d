package repository

import (
	"clinic-operations/internal/domain/entity"
	domainRepo "clinic-operations/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type invoiceRepository struct{}

func NewInvoiceRepository() domainRepo.InvoiceRepository {
	return &invoiceRepository{}
}

// Create inserts the invoice and, through the association, its items.
func (r *invoiceRepository) Create(db *gorm.DB, invoice *entity.Invoice) error {
	return db.Omit("Patient").Create(invoice).Error
}

func (r *invoiceRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	found, err := first(db.Preload("Items").Preload("Patient").Where("id = ?", id), &invoice)
	if err != nil || !found {
		return nil, err
	}
	return &invoice, nil
}

// FindByIDForUpdate locks only the invoice row; items are loaded separately
// because FOR UPDATE cannot apply to the preload query's outer join.
func (r *invoiceRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	found, err := first(forUpdate(db).Where("id = ?", id), &invoice)
	if err != nil || !found {
		return nil, err
	}
	if err := db.Where("invoice_id = ?", id).Find(&invoice.Items).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) CodeExists(db *gorm.DB, code string) (bool, error) {
	return exists(db, &entity.Invoice{}, "invoice_number", code)
}

func (r *invoiceRepository) List(db *gorm.DB, filter entity.InvoiceFilter) ([]entity.Invoice, int64, error) {
	query := db.Model(&entity.Invoice{}).Where("clinic_id IN ?", filter.ClinicIDs)
	if filter.PatientID != nil {
		query = query.Where("patient_id = ?", *filter.PatientID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var invoices []entity.Invoice
	err := paginate(query, filter.Page).
		Preload("Items").Preload("Patient").
		Order("created_at DESC").
		Find(&invoices).Error
	if err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

func (r *invoiceRepository) SetStatus(db *gorm.DB, id uuid.UUID, status entity.InvoiceStatus) error {
	return db.Model(&entity.Invoice{}).Where("id = ?", id).Update("status", status).Error
}

func (r *invoiceRepository) UpdateDetails(db *gorm.DB, invoice *entity.Invoice) error {
	return db.Model(&entity.Invoice{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]interface{}{
			"notes":    invoice.Notes,
			"due_date": invoice.DueDate,
		}).Error
}

// Delete removes the items explicitly before the invoice.
func (r *invoiceRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	if err := db.Where("invoice_id = ?", id).Delete(&entity.InvoiceItem{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&entity.Invoice{}).Error
}
