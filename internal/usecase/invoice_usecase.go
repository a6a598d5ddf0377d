package usecase

import (
	"context"
	"time"

	"clinic-operations/internal/converter"
	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/entity"
	"clinic-operations/internal/domain/repository"
	"clinic-operations/internal/infrastructure/database"
	"clinic-operations/internal/service"
	"clinic-operations/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvoiceNotFound         = apperror.NotFound("invoice not found")
	ErrInvoiceHasTransactions  = apperror.Conflict("invoice has transactions and cannot be deleted")
	ErrInvoiceNotDraft         = apperror.Conflict("only DRAFT invoices can be sent")
	ErrInvoiceAlreadyCancelled = apperror.Conflict("invoice is already cancelled")
	ErrInvoiceHasPayments      = apperror.Conflict("invoice has recorded payments and cannot be cancelled")
	ErrAppointmentMismatch     = apperror.Validation("appointment must belong to the same patient and clinic")
)

type InvoiceUsecase interface {
	CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, q dto.InvoiceListQuery) (*dto.InvoiceListResponse, error)
	UpdateInvoice(ctx context.Context, id uuid.UUID, req *dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error)
	SendInvoice(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error)
	CancelInvoice(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error)
	ReconcileInvoice(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error)
	DeleteInvoice(ctx context.Context, id uuid.UUID) error
}

type invoiceUsecase struct {
	tx              database.Transactor
	log             *logrus.Logger
	guard           *service.TenantGuard
	codes           service.CodeGenerator
	invoiceRepo     repository.InvoiceRepository
	transactionRepo repository.TransactionRepository
	patientRepo     repository.PatientRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
	status          *invoiceStatusWriter
}

func NewInvoiceUsecase(
	tx database.Transactor,
	log *logrus.Logger,
	guard *service.TenantGuard,
	codes service.CodeGenerator,
	invoiceRepo repository.InvoiceRepository,
	transactionRepo repository.TransactionRepository,
	patientRepo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
) InvoiceUsecase {
	return &invoiceUsecase{
		tx:              tx,
		log:             log,
		guard:           guard,
		codes:           codes,
		invoiceRepo:     invoiceRepo,
		transactionRepo: transactionRepo,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
		status:          newInvoiceStatusWriter(log, invoiceRepo, auditService),
	}
}

// CreateInvoice computes subtotal and total from the items. Client supplied
// subtotal and total never reach storage.
func (u *invoiceUsecase) CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.guard.RequireRole(p, entity.RolesFrontDesk...); err != nil {
		return nil, err
	}
	clinicID, err := u.guard.TargetClinic(p, req.ClinicID)
	if err != nil {
		return nil, err
	}

	dueDate, err := parseOptionalDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	invoice := &entity.Invoice{
		ClinicID:      clinicID,
		PatientID:     req.PatientID,
		AppointmentID: req.AppointmentID,
		Discount:      req.Discount,
		Tax:           req.Tax,
		Status:        entity.InvoiceStatusDraft,
		DueDate:       dueDate,
		Notes:         req.Notes,
		CreatedByID:   &p.UserID,
	}
	for _, item := range req.Items {
		invoice.Items = append(invoice.Items, entity.InvoiceItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	if err := invoice.ApplyTotals(); err != nil {
		return nil, err
	}
	if req.Subtotal != nil && !req.Subtotal.Equal(invoice.Subtotal) {
		u.log.Warnf("Client subtotal %s differs from computed %s, using computed value", req.Subtotal.StringFixed(2), invoice.Subtotal.StringFixed(2))
	}
	if req.Total != nil && !req.Total.Equal(invoice.Total) {
		u.log.Warnf("Client total %s differs from computed %s, using computed value", req.Total.StringFixed(2), invoice.Total.StringFixed(2))
	}

	err = u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		patient, err := u.patientRepo.FindByID(tx, req.PatientID)
		if err != nil {
			return err
		}
		if patient == nil || patient.ClinicID != clinicID {
			return ErrPatientNotFound
		}

		if req.AppointmentID != nil {
			appointment, err := u.appointmentRepo.FindByID(tx, *req.AppointmentID)
			if err != nil {
				return err
			}
			if appointment == nil || appointment.ClinicID != clinicID || appointment.PatientID != patient.ID {
				return ErrAppointmentMismatch
			}
		}

		invoice.InvoiceNumber, err = u.codes.Generate(ctx, service.CodePrefixInvoice, func(c string) (bool, error) {
			return u.invoiceRepo.CodeExists(tx, c)
		})
		if err != nil {
			return err
		}

		if err := u.invoiceRepo.Create(tx, invoice); err != nil {
			return err
		}
		invoice.Patient = patient

		return u.auditService.LogCreate(ctx, tx, p, clinicID, entity.AuditActionInvoiceCreate, "invoice", invoice.ID.String(), map[string]interface{}{
			"invoice_number": invoice.InvoiceNumber,
			"patient_id":     patient.ID.String(),
			"total":          invoice.Total.StringFixed(2),
		})
	})
	if err != nil {
		logUnexpected(u.log, err, "Failed to create invoice")
		return nil, err
	}

	u.log.Infof("Invoice %s created with total %s", invoice.InvoiceNumber, invoice.Total.StringFixed(2))
	return converter.InvoiceToResponse(invoice, decimal.Zero), nil
}

func (u *invoiceUsecase) GetInvoice(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}

	db := u.tx.DB(ctx)
	invoice, err := u.invoiceRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find invoice %s: %+v", id, err)
		return nil, err
	}
	if invoice == nil || !u.guard.CanAccess(p, invoice.ClinicID) {
		return nil, ErrInvoiceNotFound
	}

	paid, err := u.transactionRepo.SumPaidIncome(db, invoice.ID)
	if err != nil {
		u.log.Warnf("Failed to sum payments for invoice %s: %+v", id, err)
		return nil, err
	}
	return converter.InvoiceToResponse(invoice, paid), nil
}

func (u *invoiceUsecase) ListInvoices(ctx context.Context, q dto.InvoiceListQuery) (*dto.InvoiceListResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}

	clinics := u.guard.Narrow(p, q.ClinicID)
	if len(clinics) == 0 {
		return &dto.InvoiceListResponse{Invoices: []dto.InvoiceResponse{}, Pagination: paginationOf(0, q.ListQuery)}, nil
	}

	db := u.tx.DB(ctx)
	invoices, total, err := u.invoiceRepo.List(db, entity.InvoiceFilter{
		ClinicIDs: clinics,
		PatientID: q.PatientID,
		Status:    entity.InvoiceStatus(q.Status),
		Page:      pageOf(q.ListQuery),
	})
	if err != nil {
		u.log.Warnf("Failed to list invoices: %+v", err)
		return nil, err
	}

	ids := make([]uuid.UUID, len(invoices))
	for i := range invoices {
		ids[i] = invoices[i].ID
	}
	paid, err := u.transactionRepo.SumPaidIncomeByInvoices(db, ids)
	if err != nil {
		u.log.Warnf("Failed to sum invoice payments: %+v", err)
		return nil, err
	}

	responses := make([]dto.InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = *converter.InvoiceToResponse(&invoices[i], paid[invoices[i].ID])
	}
	return &dto.InvoiceListResponse{
		Invoices:   responses,
		Pagination: paginationOf(total, q.ListQuery),
	}, nil
}

// UpdateInvoice changes notes and due date. A new due date may flip the
// derived status between SENT and OVERDUE, so the status is re-derived.
func (u *invoiceUsecase) UpdateInvoice(ctx context.Context, id uuid.UUID, req *dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	dueDate, err := parseOptionalDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	return u.mutate(ctx, id, func(tx *gorm.DB, invoice *entity.Invoice, paid decimal.Decimal) error {
		if req.Notes != nil {
			invoice.Notes = req.Notes
		}
		if dueDate != nil {
			invoice.DueDate = dueDate
		}
		return u.invoiceRepo.UpdateDetails(tx, invoice)
	})
}

// SendInvoice issues a DRAFT invoice.
func (u *invoiceUsecase) SendInvoice(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error) {
	return u.mutate(ctx, id, func(_ *gorm.DB, invoice *entity.Invoice, _ decimal.Decimal) error {
		if invoice.Status != entity.InvoiceStatusDraft {
			return ErrInvoiceNotDraft
		}
		invoice.Status = entity.InvoiceStatusSent
		return nil
	})
}

// CancelInvoice is only allowed before any payment has been recorded.
func (u *invoiceUsecase) CancelInvoice(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error) {
	return u.mutate(ctx, id, func(_ *gorm.DB, invoice *entity.Invoice, paid decimal.Decimal) error {
		if invoice.Status == entity.InvoiceStatusCancelled {
			return ErrInvoiceAlreadyCancelled
		}
		if paid.IsPositive() {
			return ErrInvoiceHasPayments
		}
		invoice.Status = entity.InvoiceStatusCancelled
		return nil
	})
}

// ReconcileInvoice re-derives the status from the ledger.
func (u *invoiceUsecase) ReconcileInvoice(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error) {
	return u.mutate(ctx, id, func(*gorm.DB, *entity.Invoice, decimal.Decimal) error {
		return nil
	})
}

func (u *invoiceUsecase) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	p, err := principalFrom(ctx)
	if err != nil {
		return err
	}
	if err := u.guard.RequireRole(p, entity.RolesFrontDesk...); err != nil {
		return err
	}

	err = u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		invoice, err := u.invoiceRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			return err
		}
		if invoice == nil || !u.guard.CanAccess(p, invoice.ClinicID) {
			return ErrInvoiceNotFound
		}

		count, err := u.transactionRepo.CountByInvoice(tx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrInvoiceHasTransactions
		}
		if err := u.invoiceRepo.Delete(tx, id); err != nil {
			if isForeignKeyError(err, "invoice") {
				return ErrInvoiceHasTransactions
			}
			return err
		}
		return nil
	})
	logUnexpected(u.log, err, "Failed to delete invoice %s", id)
	return err
}

// mutate locks the invoice, applies change, then stores whatever status the
// ledger derives. Status changes are audited.
func (u *invoiceUsecase) mutate(
	ctx context.Context,
	id uuid.UUID,
	change func(tx *gorm.DB, invoice *entity.Invoice, paid decimal.Decimal) error,
) (*dto.InvoiceResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.guard.RequireRole(p, entity.RolesFrontDesk...); err != nil {
		return nil, err
	}

	var (
		invoice *entity.Invoice
		paid    decimal.Decimal
	)
	err = u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		invoice, err = u.invoiceRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			return err
		}
		if invoice == nil || !u.guard.CanAccess(p, invoice.ClinicID) {
			return ErrInvoiceNotFound
		}

		paid, err = u.transactionRepo.SumPaidIncome(tx, invoice.ID)
		if err != nil {
			return err
		}

		stored := invoice.Status
		if err := change(tx, invoice, paid); err != nil {
			return err
		}
		return u.status.settle(ctx, tx, p, invoice, stored, paid)
	})
	if err != nil {
		logUnexpected(u.log, err, "Failed to update invoice %s", id)
		return nil, err
	}
	return converter.InvoiceToResponse(invoice, paid), nil
}

// invoiceStatusWriter is the only path that writes an invoice status.
type invoiceStatusWriter struct {
	log          *logrus.Logger
	invoiceRepo  repository.InvoiceRepository
	auditService service.AuditService
	now          func() time.Time
}

func newInvoiceStatusWriter(log *logrus.Logger, invoiceRepo repository.InvoiceRepository, auditService service.AuditService) *invoiceStatusWriter {
	return &invoiceStatusWriter{
		log:          log,
		invoiceRepo:  invoiceRepo,
		auditService: auditService,
		now:          time.Now,
	}
}

// settle derives the status from paid and persists it when it differs from
// stored.
func (w *invoiceStatusWriter) settle(ctx context.Context, tx *gorm.DB, p *entity.Principal, invoice *entity.Invoice, stored entity.InvoiceStatus, paid decimal.Decimal) error {
	invoice.Status = entity.DeriveInvoiceStatus(invoice.Status, invoice.Total, paid, invoice.DueDate, w.now())
	if invoice.Status == stored {
		return nil
	}
	if err := w.invoiceRepo.SetStatus(tx, invoice.ID, invoice.Status); err != nil {
		return err
	}
	w.log.Infof("Invoice %s status %s -> %s", invoice.InvoiceNumber, stored, invoice.Status)
	return w.auditService.LogTransition(ctx, tx, p, invoice.ClinicID, entity.AuditActionInvoiceStatus, "invoice", invoice.ID.String(), string(stored), string(invoice.Status))
}
