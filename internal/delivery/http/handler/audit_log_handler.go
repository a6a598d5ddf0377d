package handler

import (
	"net/http"

	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/usecase"
	"clinic-operations/pkg/response"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

func (h *AuditLogHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	lq, ok := extractListQuery(w, r)
	if !ok {
		return
	}

	logs, err := h.auditLogUsecase.ListAuditLogs(r.Context(), dto.AuditLogListQuery{
		ListQuery: lq,
		Entity:    r.URL.Query().Get("entity"),
		EntityID:  r.URL.Query().Get("entityId"),
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessWith(w, http.StatusOK, response.Envelope{
		"logs":       logs.Logs,
		"pagination": logs.Pagination,
	})
}
