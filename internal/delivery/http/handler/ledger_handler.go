package handler

import (
	"net/http"

	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/usecase"
	"clinic-operations/pkg/response"
	"clinic-operations/pkg/validator"
)

type LedgerHandler struct {
	ledgerUsecase usecase.LedgerUsecase
	validator     *validator.CustomValidator
}

func NewLedgerHandler(ledgerUsecase usecase.LedgerUsecase, validator *validator.CustomValidator) *LedgerHandler {
	return &LedgerHandler{
		ledgerUsecase: ledgerUsecase,
		validator:     validator,
	}
}

// RecordPayment serves POST /payment.
func (h *LedgerHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordPaymentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	payment, err := h.ledgerUsecase.RecordPayment(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessWith(w, http.StatusCreated, response.Envelope{
		"transaction": payment.Transaction,
		"invoice":     payment.Invoice,
	})
}

func (h *LedgerHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	txn, err := h.ledgerUsecase.CreateTransaction(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "transaction", txn)
}

func (h *LedgerHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "transaction")
	if !ok {
		return
	}

	txn, err := h.ledgerUsecase.GetTransaction(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "transaction", txn)
}

func (h *LedgerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	lq, ok := extractListQuery(w, r)
	if !ok {
		return
	}
	invoiceID, ok := optionalQueryUUID(w, r, "invoiceId")
	if !ok {
		return
	}

	txns, err := h.ledgerUsecase.ListTransactions(r.Context(), dto.TransactionListQuery{
		ListQuery: lq,
		InvoiceID: invoiceID,
		Type:      r.URL.Query().Get("type"),
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessWith(w, http.StatusOK, response.Envelope{
		"transactions": txns.Transactions,
		"pagination":   txns.Pagination,
	})
}

func (h *LedgerHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "transaction")
	if !ok {
		return
	}

	var req dto.UpdateTransactionRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	txn, err := h.ledgerUsecase.UpdateTransaction(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "transaction", txn)
}
