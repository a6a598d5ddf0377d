package handler

import (
	"context"
	"net/http"

	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/usecase"
	"clinic-operations/pkg/response"
	"clinic-operations/pkg/validator"

	"github.com/google/uuid"
)

type InvoiceHandler struct {
	invoiceUsecase usecase.InvoiceUsecase
	validator      *validator.CustomValidator
}

func NewInvoiceHandler(invoiceUsecase usecase.InvoiceUsecase, validator *validator.CustomValidator) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceUsecase: invoiceUsecase,
		validator:      validator,
	}
}

func (h *InvoiceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateInvoiceRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	invoice, err := h.invoiceUsecase.CreateInvoice(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "invoice", invoice)
}

func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceUsecase.GetInvoice(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "invoice", invoice)
}

func (h *InvoiceHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	lq, ok := extractListQuery(w, r)
	if !ok {
		return
	}
	patientID, ok := optionalQueryUUID(w, r, "patientId")
	if !ok {
		return
	}

	invoices, err := h.invoiceUsecase.ListInvoices(r.Context(), dto.InvoiceListQuery{
		ListQuery: lq,
		PatientID: patientID,
		Status:    r.URL.Query().Get("status"),
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessWith(w, http.StatusOK, response.Envelope{
		"invoices":   invoices.Invoices,
		"pagination": invoices.Pagination,
	})
}

func (h *InvoiceHandler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invoice")
	if !ok {
		return
	}

	var req dto.UpdateInvoiceRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	invoice, err := h.invoiceUsecase.UpdateInvoice(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "invoice", invoice)
}

func (h *InvoiceHandler) SendInvoice(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.invoiceUsecase.SendInvoice)
}

func (h *InvoiceHandler) CancelInvoice(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.invoiceUsecase.CancelInvoice)
}

func (h *InvoiceHandler) ReconcileInvoice(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.invoiceUsecase.ReconcileInvoice)
}

func (h *InvoiceHandler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invoice")
	if !ok {
		return
	}

	if err := h.invoiceUsecase.DeleteInvoice(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "message", "Invoice deleted successfully")
}

func (h *InvoiceHandler) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID) (*dto.InvoiceResponse, error)) {
	id, ok := pathID(w, r, "invoice")
	if !ok {
		return
	}

	invoice, err := fn(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "invoice", invoice)
}
