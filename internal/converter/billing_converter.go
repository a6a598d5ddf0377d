package converter

import (
	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/entity"

	"github.com/shopspring/decimal"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// InvoiceToResponse converts an Invoice entity to InvoiceResponse DTO, with
// paid being the sum of its PAID income transactions.
func InvoiceToResponse(inv *entity.Invoice, paid decimal.Decimal) *dto.InvoiceResponse {
	if inv == nil {
		return nil
	}

	items := make([]dto.InvoiceItemResponse, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = dto.InvoiceItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   money(item.UnitPrice),
			Amount:      money(item.Amount),
		}
	}

	response := &dto.InvoiceResponse{
		ID:            inv.ID,
		ClinicID:      inv.ClinicID,
		InvoiceNumber: inv.InvoiceNumber,
		PatientID:     inv.PatientID,
		AppointmentID: inv.AppointmentID,
		Items:         items,
		Subtotal:      money(inv.Subtotal),
		Discount:      money(inv.Discount),
		Tax:           money(inv.Tax),
		Total:         money(inv.Total),
		Paid:          money(paid),
		Remaining:     money(inv.Remaining(paid)),
		Status:        string(inv.Status),
		Notes:         inv.Notes,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
	if inv.DueDate != nil {
		d := inv.DueDate.Format(dateLayout)
		response.DueDate = &d
	}
	if inv.Patient != nil {
		response.PatientName = inv.Patient.FullName
	}
	return response
}

// TransactionToResponse converts a Transaction entity to TransactionResponse DTO
func TransactionToResponse(t *entity.Transaction) *dto.TransactionResponse {
	if t == nil {
		return nil
	}

	return &dto.TransactionResponse{
		ID:              t.ID,
		ClinicID:        t.ClinicID,
		TransactionCode: t.TransactionCode,
		Amount:          money(t.Amount),
		Type:            string(t.Type),
		PaymentMethod:   string(t.PaymentMethod),
		PaymentStatus:   string(t.PaymentStatus),
		Description:     t.Description,
		ReceiptURL:      t.ReceiptURL,
		InvoiceID:       t.InvoiceID,
		AppointmentID:   t.AppointmentID,
		PatientID:       t.PatientID,
		DoctorID:        t.DoctorID,
		CreatedAt:       t.CreatedAt,
	}
}

func TransactionsToResponses(txns []entity.Transaction) []dto.TransactionResponse {
	responses := make([]dto.TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = *TransactionToResponse(&txns[i])
	}
	return responses
}
