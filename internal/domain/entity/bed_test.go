package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestBedTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    BedStatus
		apply   func(b *Bed) error
		want    BedStatus
		wantErr error
	}{
		{"reserve available", BedStatusAvailable, (*Bed).Reserve, BedStatusReserved, nil},
		{"reserve occupied", BedStatusOccupied, (*Bed).Reserve, BedStatusOccupied, ErrBedNotAvailable},
		{"release reserved", BedStatusReserved, (*Bed).Release, BedStatusAvailable, nil},
		{"release occupied", BedStatusOccupied, (*Bed).Release, BedStatusOccupied, ErrBedNotReserved},
		{"release available", BedStatusAvailable, (*Bed).Release, BedStatusAvailable, ErrBedNotReserved},
		{"maintenance available", BedStatusAvailable, (*Bed).StartMaintenance, BedStatusMaintenance, nil},
		{"maintenance reserved", BedStatusReserved, (*Bed).StartMaintenance, BedStatusReserved, ErrBedNotAvailable},
		{"restore maintenance", BedStatusMaintenance, (*Bed).Restore, BedStatusAvailable, nil},
		{"restore available", BedStatusAvailable, (*Bed).Restore, BedStatusAvailable, ErrBedNotInMaintenance},
		{"discharge available", BedStatusAvailable, (*Bed).Discharge, BedStatusAvailable, ErrBedNotOccupied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Bed{Status: tt.from}
			err := tt.apply(b)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if b.Status != tt.want {
				t.Errorf("status = %s, want %s", b.Status, tt.want)
			}
		})
	}
}

func TestBedAssignAndDischarge(t *testing.T) {
	admission := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	patient := uuid.New()

	b := &Bed{Status: BedStatusReserved}
	if err := b.Assign(patient, admission, nil, nil); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if b.Status != BedStatusOccupied || *b.PatientID != patient || !b.AdmissionDate.Equal(admission) {
		t.Fatalf("after assign: %+v", b)
	}

	if err := b.Assign(uuid.New(), admission, nil, nil); !errors.Is(err, ErrBedNotAssignable) {
		t.Fatalf("reassign err = %v", err)
	}

	if err := b.Discharge(); err != nil {
		t.Fatalf("Discharge: %v", err)
	}
	if b.Status != BedStatusAvailable || b.PatientID != nil || b.AdmissionDate != nil || b.DischargeDate != nil {
		t.Fatalf("after discharge: %+v", b)
	}
}

func TestBedAssignValidation(t *testing.T) {
	admission := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	before := admission.AddDate(0, 0, -1)

	tests := []struct {
		name      string
		patient   uuid.UUID
		admission time.Time
		discharge *time.Time
		want      error
	}{
		{"no patient", uuid.Nil, admission, nil, ErrBedPatientRequired},
		{"no admission", uuid.New(), time.Time{}, nil, ErrBedAdmissionRequired},
		{"discharge before admission", uuid.New(), admission, &before, ErrBedDischargeBefore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Bed{Status: BedStatusAvailable}
			if err := b.Assign(tt.patient, tt.admission, tt.discharge, nil); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if b.Status != BedStatusAvailable || b.PatientID != nil {
				t.Errorf("bed mutated on failed assign: %+v", b)
			}
		})
	}
}

func TestBedCanDelete(t *testing.T) {
	for _, s := range []BedStatus{BedStatusOccupied, BedStatusReserved} {
		if err := (&Bed{Status: s}).CanDelete(); !errors.Is(err, ErrBedInUse) {
			t.Errorf("%s: err = %v", s, err)
		}
	}
	for _, s := range []BedStatus{BedStatusAvailable, BedStatusMaintenance} {
		if err := (&Bed{Status: s}).CanDelete(); err != nil {
			t.Errorf("%s: err = %v", s, err)
		}
	}
}

func TestOccupancyProvisioned(t *testing.T) {
	var o Occupancy
	o.Add(BedStatusAvailable, 3)
	o.Add(BedStatusOccupied, 2)
	o.Add(BedStatusReserved, 1)
	o.Add(BedStatusMaintenance, 1)
	if o.Provisioned() != 7 {
		t.Fatalf("Provisioned() = %d, want 7", o.Provisioned())
	}
}
