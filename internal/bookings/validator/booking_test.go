package validator

import (
	"strings"
	"testing"

	"reserva/pkg/logger"
	"reserva/pkg/model"
)

func newTestValidator() *BookingValidator {
	return NewBookingValidator(logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT}))
}

func TestValidateCreateValid(t *testing.T) {
	v := newTestValidator()

	err := v.ValidateCreate(&model.CreateBookingRequest{
		ScheduledAt: "2025-03-10T09:00:00",
		ServiceType: "hotel",
	})
	if err != nil {
		t.Errorf("expected valid request, got %v", err)
	}
}

func TestValidateCreateMissingFields(t *testing.T) {
	v := newTestValidator()

	err := v.ValidateCreate(&model.CreateBookingRequest{})
	if err == nil {
		t.Fatal("expected validation error for empty request")
	}

	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(verrs) != 2 {
		t.Errorf("expected 2 errors, got %d: %v", len(verrs), verrs)
	}
	if !strings.Contains(err.Error(), "required") {
		t.Errorf("expected required message, got %q", err.Error())
	}
}

func TestValidateCreateServiceTypeLength(t *testing.T) {
	v := newTestValidator()

	err := v.ValidateCreate(&model.CreateBookingRequest{
		ScheduledAt: "2025-03-10T09:00:00",
		ServiceType: "x",
	})
	if err == nil {
		t.Fatal("expected validation error for one-character service type")
	}

	err = v.ValidateCreate(&model.CreateBookingRequest{
		ScheduledAt: "2025-03-10T09:00:00",
		ServiceType: strings.Repeat("x", 101),
	})
	if err == nil {
		t.Fatal("expected validation error for oversized service type")
	}
}
