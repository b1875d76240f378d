package validator

import (
	"testing"
	"time"

	"bookable/pkg/logger"
	"bookable/pkg/model"
)

func day(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
}

func slot(base time.Time, startMin, endMin int, available bool) model.TimeSlot {
	return model.TimeSlot{
		Start:     base.Add(time.Duration(startMin) * time.Minute),
		End:       base.Add(time.Duration(endMin) * time.Minute),
		Available: available,
	}
}

func validDay(t *testing.T) *model.Availability {
	base := day(t)
	return &model.Availability{
		SellerID: "665f1c0a9d3e2b0001a4d0f1",
		Date:     "2026-03-10",
		Slots: []model.TimeSlot{
			slot(base, 540, 570, true),
			slot(base, 570, 600, false),
			slot(base, 600, 630, true),
		},
	}
}

func TestValidateDay_Valid(t *testing.T) {
	v := NewAvailabilityValidator(logger.New(logger.Config{Level: "error"}))
	if err := v.ValidateDay(validDay(t)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateDay_RejectsEmptySlots(t *testing.T) {
	v := NewAvailabilityValidator(logger.New(logger.Config{Level: "error"}))
	a := validDay(t)
	a.Slots = nil
	if err := v.ValidateDay(a); err == nil {
		t.Error("expected error for empty slot list")
	}
}

func TestValidateDay_RejectsBadDate(t *testing.T) {
	v := NewAvailabilityValidator(logger.New(logger.Config{Level: "error"}))
	a := validDay(t)
	a.Date = "10/03/2026"
	if err := v.ValidateDay(a); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestValidateDay_RejectsEndBeforeStart(t *testing.T) {
	v := NewAvailabilityValidator(logger.New(logger.Config{Level: "error"}))
	a := validDay(t)
	a.Slots[1].End = a.Slots[1].Start.Add(-10 * time.Minute)
	if err := v.ValidateDay(a); err == nil {
		t.Error("expected error for slot ending before it starts")
	}
}

func TestValidateDay_RejectsUnsorted(t *testing.T) {
	v := NewAvailabilityValidator(logger.New(logger.Config{Level: "error"}))
	a := validDay(t)
	a.Slots[0], a.Slots[2] = a.Slots[2], a.Slots[0]
	if err := v.ValidateDay(a); err == nil {
		t.Error("expected error for unsorted slots")
	}
}

func TestValidateDay_RejectsOverlap(t *testing.T) {
	v := NewAvailabilityValidator(logger.New(logger.Config{Level: "error"}))
	base := day(t)
	a := validDay(t)
	a.Slots = []model.TimeSlot{
		slot(base, 540, 580, true),
		slot(base, 570, 600, true),
	}
	if err := v.ValidateDay(a); err == nil {
		t.Error("expected error for overlapping slots")
	}
}

func TestValidateDay_AdjacentSlotsAllowed(t *testing.T) {
	v := NewAvailabilityValidator(logger.New(logger.Config{Level: "error"}))
	base := day(t)
	a := validDay(t)
	a.Slots = []model.TimeSlot{
		slot(base, 540, 570, true),
		slot(base, 570, 600, true),
	}
	if err := v.ValidateDay(a); err != nil {
		t.Errorf("touching boundaries should not count as overlap: %v", err)
	}
}
