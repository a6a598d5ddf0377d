package usecase

import (
	"context"

	"clinic-operations/internal/converter"
	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/entity"
	"clinic-operations/internal/domain/repository"
	"clinic-operations/internal/infrastructure/database"
	"clinic-operations/internal/infrastructure/metrics"
	"clinic-operations/internal/service"
	"clinic-operations/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound     = apperror.NotFound("transaction not found")
	ErrPaymentAmountInvalid    = apperror.Validation("amount must be greater than zero")
	ErrPaymentExceedsRemaining = apperror.Conflict("payment exceeds the remaining invoice balance")
	ErrInvoiceClosed           = apperror.Conflict("invoice does not accept payments in its current status")
	ErrLedgerInvoiceLink       = apperror.Validation("invoice payments must be recorded through POST /payment")
)

// LedgerUsecase appends to the transaction ledger. Entries are never
// deleted and only their descriptive fields may change.
type LedgerUsecase interface {
	RecordPayment(ctx context.Context, req *dto.RecordPaymentRequest) (*dto.PaymentResponse, error)
	CreateTransaction(ctx context.Context, req *dto.CreateTransactionRequest) (*dto.TransactionResponse, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*dto.TransactionResponse, error)
	ListTransactions(ctx context.Context, q dto.TransactionListQuery) (*dto.TransactionListResponse, error)
	UpdateTransaction(ctx context.Context, id uuid.UUID, req *dto.UpdateTransactionRequest) (*dto.TransactionResponse, error)
}

type ledgerUsecase struct {
	tx              database.Transactor
	log             *logrus.Logger
	guard           *service.TenantGuard
	codes           service.CodeGenerator
	transactionRepo repository.TransactionRepository
	invoiceRepo     repository.InvoiceRepository
	auditService    service.AuditService
	metrics         *metrics.Metrics
	status          *invoiceStatusWriter
}

func NewLedgerUsecase(
	tx database.Transactor,
	log *logrus.Logger,
	guard *service.TenantGuard,
	codes service.CodeGenerator,
	transactionRepo repository.TransactionRepository,
	invoiceRepo repository.InvoiceRepository,
	auditService service.AuditService,
	m *metrics.Metrics,
) LedgerUsecase {
	return &ledgerUsecase{
		tx:              tx,
		log:             log,
		guard:           guard,
		codes:           codes,
		transactionRepo: transactionRepo,
		invoiceRepo:     invoiceRepo,
		auditService:    auditService,
		metrics:         m,
		status:          newInvoiceStatusWriter(log, invoiceRepo, auditService),
	}
}

// RecordPayment holds the invoice row lock while it reads the paid sum,
// checks the remaining balance and appends the PAID income entry, so two
// concurrent payments cannot both pass the balance check.
func (u *ledgerUsecase) RecordPayment(ctx context.Context, req *dto.RecordPaymentRequest) (*dto.PaymentResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.guard.RequireRole(p, entity.RolesFrontDesk...); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, ErrPaymentAmountInvalid
	}
	if !entity.HasCentPrecision(req.Amount) {
		return nil, entity.ErrInvoicePrecision
	}

	var (
		invoice *entity.Invoice
		txn     *entity.Transaction
		paid    = req.Amount
	)
	err = u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		invoice, err = u.invoiceRepo.FindByIDForUpdate(tx, req.InvoiceID)
		if err != nil {
			return err
		}
		if invoice == nil || !u.guard.CanAccess(p, invoice.ClinicID) {
			return ErrInvoiceNotFound
		}
		if !invoice.AcceptsPayments() {
			return ErrInvoiceClosed
		}

		paidSoFar, err := u.transactionRepo.SumPaidIncome(tx, invoice.ID)
		if err != nil {
			return err
		}
		remaining := invoice.Remaining(paidSoFar)
		if req.Amount.GreaterThan(remaining) {
			u.log.Infof("Rejected payment of %s on invoice %s with %s remaining", req.Amount.StringFixed(2), invoice.InvoiceNumber, remaining.StringFixed(2))
			return ErrPaymentExceedsRemaining
		}

		code, err := u.codes.Generate(ctx, service.CodePrefixTransaction, func(c string) (bool, error) {
			return u.transactionRepo.CodeExists(tx, c)
		})
		if err != nil {
			return err
		}

		patientID := invoice.PatientID
		txn = &entity.Transaction{
			ClinicID:        invoice.ClinicID,
			TransactionCode: code,
			Amount:          req.Amount,
			Type:            entity.TransactionTypeIncome,
			PaymentMethod:   entity.PaymentMethod(req.PaymentMethod),
			PaymentStatus:   entity.PaymentStatusPaid,
			Description:     req.Description,
			ReceiptURL:      req.ReceiptURL,
			InvoiceID:       &invoice.ID,
			AppointmentID:   invoice.AppointmentID,
			PatientID:       &patientID,
			CreatedByID:     &p.UserID,
		}
		if err := u.transactionRepo.Create(tx, txn); err != nil {
			return err
		}

		paid = paidSoFar.Add(req.Amount)
		if err := u.status.settle(ctx, tx, p, invoice, invoice.Status, paid); err != nil {
			return err
		}

		return u.auditService.LogCreate(ctx, tx, p, invoice.ClinicID, entity.AuditActionPaymentRecord, "transaction", txn.ID.String(), map[string]interface{}{
			"invoice_id":     invoice.ID.String(),
			"amount":         req.Amount.StringFixed(2),
			"payment_method": req.PaymentMethod,
		})
	})
	u.metrics.Payments.WithLabelValues(metricResult(err)).Inc()
	if err != nil {
		logUnexpected(u.log, err, "Failed to record payment on invoice %s", req.InvoiceID)
		return nil, err
	}

	u.log.Infof("Payment %s of %s recorded on invoice %s, status=%s", txn.TransactionCode, txn.Amount.StringFixed(2), invoice.InvoiceNumber, invoice.Status)
	return &dto.PaymentResponse{
		Transaction: *converter.TransactionToResponse(txn),
		Invoice:     *converter.InvoiceToResponse(invoice, paid),
	}, nil
}

// CreateTransaction records a general ledger entry. Invoice payments go
// through RecordPayment so the balance check cannot be bypassed.
func (u *ledgerUsecase) CreateTransaction(ctx context.Context, req *dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.guard.RequireRole(p, entity.RolesFrontDesk...); err != nil {
		return nil, err
	}
	if req.InvoiceID != nil {
		return nil, ErrLedgerInvoiceLink
	}
	if !req.Amount.IsPositive() {
		return nil, ErrPaymentAmountInvalid
	}
	if !entity.HasCentPrecision(req.Amount) {
		return nil, entity.ErrInvoicePrecision
	}
	clinicID, err := u.guard.TargetClinic(p, req.ClinicID)
	if err != nil {
		return nil, err
	}

	status := entity.PaymentStatus(req.PaymentStatus)
	if status == "" {
		status = entity.PaymentStatusPaid
	}

	txn := &entity.Transaction{
		ClinicID:      clinicID,
		Amount:        req.Amount,
		Type:          entity.TransactionType(req.Type),
		PaymentMethod: entity.PaymentMethod(req.PaymentMethod),
		PaymentStatus: status,
		Description:   req.Description,
		ReceiptURL:    req.ReceiptURL,
		AppointmentID: req.AppointmentID,
		PatientID:     req.PatientID,
		DoctorID:      req.DoctorID,
		CreatedByID:   &p.UserID,
	}

	err = u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		txn.TransactionCode, err = u.codes.Generate(ctx, service.CodePrefixTransaction, func(c string) (bool, error) {
			return u.transactionRepo.CodeExists(tx, c)
		})
		if err != nil {
			return err
		}
		if err := u.transactionRepo.Create(tx, txn); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, tx, p, clinicID, entity.AuditActionLedgerEntry, "transaction", txn.ID.String(), map[string]interface{}{
			"type":   string(txn.Type),
			"amount": txn.Amount.StringFixed(2),
		})
	})
	if err != nil {
		logUnexpected(u.log, err, "Failed to create transaction")
		return nil, err
	}
	return converter.TransactionToResponse(txn), nil
}

func (u *ledgerUsecase) GetTransaction(ctx context.Context, id uuid.UUID) (*dto.TransactionResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}

	txn, err := u.transactionRepo.FindByID(u.tx.DB(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find transaction %s: %+v", id, err)
		return nil, err
	}
	if txn == nil || !u.guard.CanAccess(p, txn.ClinicID) {
		return nil, ErrTransactionNotFound
	}
	return converter.TransactionToResponse(txn), nil
}

func (u *ledgerUsecase) ListTransactions(ctx context.Context, q dto.TransactionListQuery) (*dto.TransactionListResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}

	clinics := u.guard.Narrow(p, q.ClinicID)
	if len(clinics) == 0 {
		return &dto.TransactionListResponse{Transactions: []dto.TransactionResponse{}, Pagination: paginationOf(0, q.ListQuery)}, nil
	}

	txns, total, err := u.transactionRepo.List(u.tx.DB(ctx), entity.TransactionFilter{
		ClinicIDs: clinics,
		InvoiceID: q.InvoiceID,
		Type:      entity.TransactionType(q.Type),
		Page:      pageOf(q.ListQuery),
	})
	if err != nil {
		u.log.Warnf("Failed to list transactions: %+v", err)
		return nil, err
	}
	return &dto.TransactionListResponse{
		Transactions: converter.TransactionsToResponses(txns),
		Pagination:   paginationOf(total, q.ListQuery),
	}, nil
}

// UpdateTransaction only changes description and receipt URL.
func (u *ledgerUsecase) UpdateTransaction(ctx context.Context, id uuid.UUID, req *dto.UpdateTransactionRequest) (*dto.TransactionResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.guard.RequireRole(p, entity.RolesFrontDesk...); err != nil {
		return nil, err
	}

	var txn *entity.Transaction
	err = u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		txn, err = u.transactionRepo.FindByID(tx, id)
		if err != nil {
			return err
		}
		if txn == nil || !u.guard.CanAccess(p, txn.ClinicID) {
			return ErrTransactionNotFound
		}
		if err := u.transactionRepo.UpdateDescriptive(tx, id, req.Description, req.ReceiptURL); err != nil {
			return err
		}
		if req.Description != nil {
			txn.Description = *req.Description
		}
		if req.ReceiptURL != nil {
			txn.ReceiptURL = req.ReceiptURL
		}
		return nil
	})
	if err != nil {
		logUnexpected(u.log, err, "Failed to update transaction %s", id)
		return nil, err
	}
	return converter.TransactionToResponse(txn), nil
}
