package validator

import "testing"

type rescheduleInput struct {
	AppointmentDate string `json:"appointmentDate" validate:"required,date"`
	StartTime       string `json:"startTime" validate:"required,clock"`
	Duration        int    `json:"duration" validate:"required,min=1"`
}

func TestValidateCustomTags(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(&rescheduleInput{AppointmentDate: "2025-06-01", StartTime: "09:30", Duration: 30}); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	err := v.Validate(&rescheduleInput{AppointmentDate: "01/06/2025", StartTime: "9.30"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	got := v.FormatValidationErrors(err)
	want := map[string]string{
		"AppointmentDate": "AppointmentDate must use the YYYY-MM-DD format",
		"StartTime":       "StartTime must use the HH:MM format",
		"Duration":        "Duration is required",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("%s: got %q, want %q", field, got[field], msg)
		}
	}
}

type cancelInput struct {
	CancelReason string `json:"cancelReason" validate:"required,notblank,max=1000"`
}

func TestValidateNotBlank(t *testing.T) {
	v := NewValidator()

	for _, reason := range []string{"   ", "\t"} {
		err := v.Validate(&cancelInput{CancelReason: reason})
		if err == nil {
			t.Fatalf("blank reason %q accepted", reason)
		}
		if got := v.FormatValidationErrors(err)["CancelReason"]; got != "CancelReason is required" {
			t.Errorf("message = %q", got)
		}
	}
	if err := v.Validate(&cancelInput{CancelReason: "patient request"}); err != nil {
		t.Errorf("valid reason rejected: %v", err)
	}
}
