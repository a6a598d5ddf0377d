package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs. Monetary fields accept JSON numbers or numeric strings.

type InvoiceItemRequest struct {
	Description string          `json:"description" validate:"required,max=500"`
	Quantity    int             `json:"quantity" validate:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// CreateInvoiceRequest may carry client-computed subtotal/total; they are
// ignored in favour of server-computed values.
type CreateInvoiceRequest struct {
	ClinicID      *uuid.UUID           `json:"clinicId"`
	PatientID     uuid.UUID            `json:"patientId" validate:"required"`
	AppointmentID *uuid.UUID           `json:"appointmentId"`
	Items         []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
	Discount      decimal.Decimal      `json:"discount"`
	Tax           decimal.Decimal      `json:"tax"`
	Subtotal      *decimal.Decimal     `json:"subtotal"`
	Total         *decimal.Decimal     `json:"total"`
	DueDate       *string              `json:"dueDate" validate:"omitempty,date"`
	Notes         *string              `json:"notes"`
}

type UpdateInvoiceRequest struct {
	DueDate *string `json:"dueDate" validate:"omitempty,date"`
	Notes   *string `json:"notes"`
}

type RecordPaymentRequest struct {
	InvoiceID     uuid.UUID       `json:"invoiceId" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod" validate:"required,oneof=CASH CREDIT_CARD DEBIT_CARD UPI BANK_TRANSFER CHEQUE INSURANCE"`
	Description   string          `json:"description" validate:"max=1000"`
	ReceiptURL    *string         `json:"receiptUrl"`
}

// CreateTransactionRequest records a ledger entry not tied to an invoice.
type CreateTransactionRequest struct {
	ClinicID      *uuid.UUID      `json:"clinicId"`
	InvoiceID     *uuid.UUID      `json:"invoiceId"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type" validate:"required,oneof=INCOME EXPENSE REFUND"`
	PaymentMethod string          `json:"paymentMethod" validate:"required,oneof=CASH CREDIT_CARD DEBIT_CARD UPI BANK_TRANSFER CHEQUE INSURANCE"`
	PaymentStatus string          `json:"paymentStatus" validate:"omitempty,oneof=PENDING PAID FAILED REFUNDED"`
	Description   string          `json:"description" validate:"max=1000"`
	ReceiptURL    *string         `json:"receiptUrl"`
	AppointmentID *uuid.UUID      `json:"appointmentId"`
	PatientID     *uuid.UUID      `json:"patientId"`
	DoctorID      *uuid.UUID      `json:"doctorId"`
}

// UpdateTransactionRequest only reaches descriptive fields.
type UpdateTransactionRequest struct {
	Description *string `json:"description" validate:"omitempty,max=1000"`
	ReceiptURL  *string `json:"receiptUrl"`
}

type InvoiceListQuery struct {
	ListQuery
	PatientID *uuid.UUID
	Status    string
}

type TransactionListQuery struct {
	ListQuery
	InvoiceID *uuid.UUID
	Type      string
}

// Response DTOs. Money is rendered with two decimals.

type InvoiceItemResponse struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	UnitPrice   string    `json:"unitPrice"`
	Amount      string    `json:"amount"`
}

type InvoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	ClinicID      uuid.UUID             `json:"clinicId"`
	InvoiceNumber string                `json:"invoiceNumber"`
	PatientID     uuid.UUID             `json:"patientId"`
	PatientName   string                `json:"patientName,omitempty"`
	AppointmentID *uuid.UUID            `json:"appointmentId,omitempty"`
	Items         []InvoiceItemResponse `json:"items"`
	Subtotal      string                `json:"subtotal"`
	Discount      string                `json:"discount"`
	Tax           string                `json:"tax"`
	Total         string                `json:"total"`
	Paid          string                `json:"paid"`
	Remaining     string                `json:"remaining"`
	Status        string                `json:"status"`
	DueDate       *string               `json:"dueDate,omitempty"`
	Notes         *string               `json:"notes,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

type InvoiceListResponse struct {
	Invoices   []InvoiceResponse `json:"invoices"`
	Pagination Pagination        `json:"pagination"`
}

type TransactionResponse struct {
	ID              uuid.UUID  `json:"id"`
	ClinicID        uuid.UUID  `json:"clinicId"`
	TransactionCode string     `json:"transactionCode"`
	Amount          string     `json:"amount"`
	Type            string     `json:"type"`
	PaymentMethod   string     `json:"paymentMethod"`
	PaymentStatus   string     `json:"paymentStatus"`
	Description     string     `json:"description"`
	ReceiptURL      *string    `json:"receiptUrl,omitempty"`
	InvoiceID       *uuid.UUID `json:"invoiceId,omitempty"`
	AppointmentID   *uuid.UUID `json:"appointmentId,omitempty"`
	PatientID       *uuid.UUID `json:"patientId,omitempty"`
	DoctorID        *uuid.UUID `json:"doctorId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Pagination   Pagination            `json:"pagination"`
}

// PaymentResponse is the outcome of recording a payment.
type PaymentResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Invoice     InvoiceResponse     `json:"invoice"`
}
