package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/usecase"
	"clinic-operations/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type stubLedgerUsecase struct {
	usecase.LedgerUsecase
	recordPayment func(ctx context.Context, req *dto.RecordPaymentRequest) (*dto.PaymentResponse, error)
}

func (s *stubLedgerUsecase) RecordPayment(ctx context.Context, req *dto.RecordPaymentRequest) (*dto.PaymentResponse, error) {
	return s.recordPayment(ctx, req)
}

type stubBedUsecase struct {
	usecase.BedUsecase
	reserve func(ctx context.Context, id uuid.UUID) (*dto.BedResponse, error)
}

func (s *stubBedUsecase) ReserveBed(ctx context.Context, id uuid.UUID) (*dto.BedResponse, error) {
	return s.reserve(ctx, id)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var body map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestRecordPaymentCreated(t *testing.T) {
	invoiceID := uuid.New()
	uc := &stubLedgerUsecase{recordPayment: func(ctx context.Context, req *dto.RecordPaymentRequest) (*dto.PaymentResponse, error) {
		if req.InvoiceID != invoiceID || req.Amount.String() != "500" {
			t.Errorf("request = %+v", req)
		}
		return &dto.PaymentResponse{
			Transaction: dto.TransactionResponse{Amount: "500.00", PaymentStatus: "PAID"},
			Invoice:     dto.InvoiceResponse{ID: invoiceID, Status: "PARTIALLY_PAID", Remaining: "490.00"},
		}, nil
	}}
	h := NewLedgerHandler(uc, validator.NewValidator())

	body := `{"invoiceId":"` + invoiceID.String() + `","amount":500,"paymentMethod":"CASH"}`
	rec := httptest.NewRecorder()
	h.RecordPayment(rec, httptest.NewRequest(http.MethodPost, "/api/v1/payment", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	got := decodeBody(t, rec)
	for _, key := range []string{"success", "transaction", "invoice"} {
		if _, ok := got[key]; !ok {
			t.Errorf("response missing %q: %s", key, rec.Body.String())
		}
	}
	var inv dto.InvoiceResponse
	_ = json.Unmarshal(got["invoice"], &inv)
	if inv.Remaining != "490.00" {
		t.Errorf("remaining = %s", inv.Remaining)
	}
}

func TestRecordPaymentErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"malformed json", `{`, nil, http.StatusBadRequest},
		{"bad method", `{"invoiceId":"` + uuid.NewString() + `","amount":5,"paymentMethod":"BITCOIN"}`, nil, http.StatusBadRequest},
		{"over remaining", `{"invoiceId":"` + uuid.NewString() + `","amount":5,"paymentMethod":"CASH"}`, usecase.ErrPaymentExceedsRemaining, http.StatusConflict},
		{"unknown invoice", `{"invoiceId":"` + uuid.NewString() + `","amount":5,"paymentMethod":"CASH"}`, usecase.ErrInvoiceNotFound, http.StatusNotFound},
		{"zero amount", `{"invoiceId":"` + uuid.NewString() + `","amount":0,"paymentMethod":"CASH"}`, usecase.ErrPaymentAmountInvalid, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubLedgerUsecase{recordPayment: func(ctx context.Context, req *dto.RecordPaymentRequest) (*dto.PaymentResponse, error) {
				return nil, tt.err
			}}
			rec := httptest.NewRecorder()
			NewLedgerHandler(uc, validator.NewValidator()).RecordPayment(rec, httptest.NewRequest(http.MethodPost, "/api/v1/payment", strings.NewReader(tt.body)))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tt.status, rec.Body.String())
			}
			if got := decodeBody(t, rec); string(got["success"]) != "false" {
				t.Errorf("success = %s", got["success"])
			}
		})
	}
}

func TestBedTransitionRoute(t *testing.T) {
	bedID := uuid.New()
	uc := &stubBedUsecase{reserve: func(ctx context.Context, id uuid.UUID) (*dto.BedResponse, error) {
		if id != bedID {
			return nil, usecase.ErrBedNotFound
		}
		return &dto.BedResponse{ID: id, Status: "RESERVED"}, nil
	}}
	router := mux.NewRouter()
	router.HandleFunc("/beds/{id}/reserve", NewBedHandler(uc, validator.NewValidator()).ReserveBed).Methods(http.MethodPatch)

	tests := []struct {
		path   string
		status int
	}{
		{"/beds/" + bedID.String() + "/reserve", http.StatusOK},
		{"/beds/" + uuid.NewString() + "/reserve", http.StatusNotFound},
		{"/beds/not-a-uuid/reserve", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, tt.path, nil))
		if rec.Code != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.path, rec.Code, tt.status)
		}
	}
}
