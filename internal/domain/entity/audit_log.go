package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog is one entry in the clinic audit trail.
type AuditLog struct {
	ID        int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ClinicID  *uuid.UUID        `gorm:"type:uuid;index" json:"clinic_id,omitempty"`
	UserID    *uuid.UUID        `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action    string            `gorm:"type:varchar(100);not null;index" json:"action"`
	Entity    string            `gorm:"type:varchar(50);not null" json:"entity"`
	EntityID  string            `gorm:"type:varchar(64);not null" json:"entity_id"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Audit actions
const (
	AuditActionClinicCreate = "clinic.create"
	AuditActionClinicUpdate = "clinic.update"
	AuditActionClinicDelete = "clinic.delete"

	AuditActionBedAssign      = "bed.assign"
	AuditActionBedDischarge   = "bed.discharge"
	AuditActionBedReserve     = "bed.reserve"
	AuditActionBedRelease     = "bed.release"
	AuditActionBedMaintenance = "bed.maintenance"
	AuditActionBedRestore     = "bed.restore"

	AuditActionAppointmentCreate = "appointment.create"
	AuditActionAppointmentStatus = "appointment.status"

	AuditActionInvoiceCreate = "invoice.create"
	AuditActionInvoiceStatus = "invoice.status"
	AuditActionPaymentRecord = "payment.record"
	AuditActionLedgerEntry   = "transaction.create"
)
