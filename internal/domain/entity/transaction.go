package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
	TransactionTypeRefund  TransactionType = "REFUND"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard    PaymentMethod = "DEBIT_CARD"
	PaymentMethodUPI          PaymentMethod = "UPI"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCheque       PaymentMethod = "CHEQUE"
	PaymentMethodInsurance    PaymentMethod = "INSURANCE"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// Transaction is an append-only ledger entry. Only Description and
// ReceiptURL may change after insert.
type Transaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"clinic_id"`
	TransactionCode string          `gorm:"type:varchar(32);uniqueIndex;not null" json:"transaction_code"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Type            TransactionType `gorm:"type:varchar(20);not null" json:"type"`
	PaymentMethod   PaymentMethod   `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);not null" json:"payment_status"`
	Description     string          `gorm:"type:text" json:"description"`
	ReceiptURL      *string         `gorm:"type:text" json:"receipt_url,omitempty"`
	InvoiceID       *uuid.UUID      `gorm:"type:uuid;index" json:"invoice_id,omitempty"`
	AppointmentID   *uuid.UUID      `gorm:"type:uuid" json:"appointment_id,omitempty"`
	PatientID       *uuid.UUID      `gorm:"type:uuid" json:"patient_id,omitempty"`
	DoctorID        *uuid.UUID      `gorm:"type:uuid" json:"doctor_id,omitempty"`
	CreatedByID     *uuid.UUID      `gorm:"type:uuid" json:"created_by_id,omitempty"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// CountsAsPaid reports whether the entry contributes to an invoice's paid sum.
func (t *Transaction) CountsAsPaid() bool {
	return t.Type == TransactionTypeIncome && t.PaymentStatus == PaymentStatusPaid
}
