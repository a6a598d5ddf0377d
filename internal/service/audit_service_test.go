package service

import (
	"context"
	"errors"
	"testing"

	"clinic-operations/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func TestAuditServiceLogTransition(t *testing.T) {
	repo := &fakeAuditRepo{}
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	svc := NewAuditService(log, repo)

	actor := &entity.Principal{UserID: uuid.New(), Role: entity.RoleStaff}
	clinic := uuid.New()
	err := svc.LogTransition(context.Background(), nil, actor, clinic, entity.AuditActionBedAssign, "bed", "b-1", "AVAILABLE", "OCCUPIED")
	if err != nil {
		t.Fatalf("LogTransition() error = %v", err)
	}
	if len(repo.logs) != 1 {
		t.Fatalf("len(logs) = %d", len(repo.logs))
	}
	got := repo.logs[0]
	if *got.UserID != actor.UserID || *got.ClinicID != clinic || got.Entity != "bed" {
		t.Errorf("audit row = %+v", got)
	}
	if got.Metadata["from"] != "AVAILABLE" || got.Metadata["to"] != "OCCUPIED" {
		t.Errorf("metadata = %v", got.Metadata)
	}
}

func TestAuditServicePropagatesFailure(t *testing.T) {
	repo := &fakeAuditRepo{err: errBoom}
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	svc := NewAuditService(log, repo)

	err := svc.LogDelete(context.Background(), nil, nil, uuid.Nil, entity.AuditActionClinicDelete, "clinic", "c-1", nil)
	if !errors.Is(err, errBoom) {
		t.Errorf("LogDelete() error = %v, want %v", err, errBoom)
	}
}
