package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"clinic-operations/pkg/apperror"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "DRAFT"
	InvoiceStatusSent          InvoiceStatus = "SENT"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
	InvoiceStatusOverdue       InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled     InvoiceStatus = "CANCELLED"
)

var (
	ErrInvoiceNoItems       = apperror.Validation("invoice must have at least one item")
	ErrInvoiceItemQuantity  = apperror.Validation("item quantity must be at least 1")
	ErrInvoiceItemPrice     = apperror.Validation("item unit price must not be negative")
	ErrInvoiceNegativeMoney = apperror.Validation("discount and tax must not be negative")
	ErrInvoiceNegativeTotal = apperror.Validation("invoice total must not be negative")
	ErrInvoicePrecision     = apperror.Validation("monetary values allow at most two decimal places")
)

type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
}

func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// Invoice totals are always computed server side by ApplyTotals and its
// status is only ever produced by DeriveInvoiceStatus.
type Invoice struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"clinic_id"`
	InvoiceNumber string          `gorm:"type:varchar(32);uniqueIndex;not null" json:"invoice_number"`
	PatientID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"patient_id"`
	AppointmentID *uuid.UUID      `gorm:"type:uuid" json:"appointment_id,omitempty"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Discount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"discount"`
	Tax           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"tax"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Status        InvoiceStatus   `gorm:"type:varchar(20);not null;default:DRAFT" json:"status"`
	DueDate       *time.Time      `gorm:"type:date" json:"due_date,omitempty"`
	Notes         *string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedByID   *uuid.UUID      `gorm:"type:uuid" json:"created_by_id,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Items   []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
	Patient *Patient      `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Invoice) TableName() string {
	return "invoices"
}

// HasCentPrecision reports whether d has at most two decimal places.
func HasCentPrecision(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// ApplyTotals computes each item amount, the subtotal and the total from the
// items, discount and tax, replacing whatever was there.
func (inv *Invoice) ApplyTotals() error {
	if len(inv.Items) == 0 {
		return ErrInvoiceNoItems
	}
	if inv.Discount.IsNegative() || inv.Tax.IsNegative() {
		return ErrInvoiceNegativeMoney
	}
	if !HasCentPrecision(inv.Discount) || !HasCentPrecision(inv.Tax) {
		return ErrInvoicePrecision
	}

	subtotal := decimal.Zero
	for i := range inv.Items {
		item := &inv.Items[i]
		if item.Quantity < 1 {
			return ErrInvoiceItemQuantity
		}
		if item.UnitPrice.IsNegative() {
			return ErrInvoiceItemPrice
		}
		if !HasCentPrecision(item.UnitPrice) {
			return ErrInvoicePrecision
		}
		item.Amount = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		subtotal = subtotal.Add(item.Amount)
	}

	total := subtotal.Sub(inv.Discount).Add(inv.Tax)
	if total.IsNegative() {
		return ErrInvoiceNegativeTotal
	}
	inv.Subtotal = subtotal
	inv.Total = total
	return nil
}

// Remaining is the amount still payable given paid.
func (inv *Invoice) Remaining(paid decimal.Decimal) decimal.Decimal {
	r := inv.Total.Sub(paid)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// AcceptsPayments reports whether a payment may be recorded against the invoice.
func (inv *Invoice) AcceptsPayments() bool {
	switch inv.Status {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusOverdue, InvoiceStatusPartiallyPaid:
		return true
	}
	return false
}

// DeriveInvoiceStatus computes an invoice's status from its stored status,
// total, the sum of PAID income transactions and the due date. It is a pure
// function of its inputs, so deriving twice yields the same status.
func DeriveInvoiceStatus(current InvoiceStatus, total, paid decimal.Decimal, due *time.Time, now time.Time) InvoiceStatus {
	if current == InvoiceStatusCancelled {
		return InvoiceStatusCancelled
	}
	if paid.IsPositive() {
		if paid.GreaterThanOrEqual(total) {
			return InvoiceStatusPaid
		}
		return InvoiceStatusPartiallyPaid
	}
	if current == InvoiceStatusDraft {
		return InvoiceStatusDraft
	}
	// Nothing paid on an issued invoice.
	if due != nil && isPastDue(*due, now) {
		return InvoiceStatusOverdue
	}
	return InvoiceStatusSent
}

func isPastDue(due, now time.Time) bool {
	y, m, d := due.Date()
	endOfDue := time.Date(y, m, d, 0, 0, 0, 0, due.Location()).AddDate(0, 0, 1)
	return !now.Before(endOfDue)
}
