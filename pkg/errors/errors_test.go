package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	plain := NotFound("Seller")
	if got := plain.Error(); got != "NOT_FOUND: Seller not found" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := Internal("Failed to create appointment", fmt.Errorf("socket closed"))
	want := "INTERNAL_ERROR: Failed to create appointment (caused by: socket closed)"
	if got := wrapped.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	appErr := Internal("Failed to reach store", cause)

	if !errors.Is(appErr, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if NotFound("Seller").Unwrap() != nil {
		t.Error("Unwrap of a plain error should be nil")
	}
}

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err  *AppError
		code string
		want int
	}{
		{NotFound("Seller"), CodeNotFound, http.StatusNotFound},
		{InvalidInput("start must precede end"), CodeInvalidInput, http.StatusBadRequest},
		{Validation("bad slots", nil), CodeValidation, http.StatusUnprocessableEntity},
		{Unauthorized("identity required"), CodeUnauthorized, http.StatusUnauthorized},
		{Forbidden("not a party"), CodeForbidden, http.StatusForbidden},
		{Conflict("slot being booked"), CodeConflict, http.StatusConflict},
		{SlotConflict("interval overlaps an appointment"), CodeSlotConflict, http.StatusConflict},
		{SlotUnavailable("slot not opened"), CodeSlotUnavailable, http.StatusConflict},
		{Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{Timeout("store timed out"), CodeTimeout, http.StatusGatewayTimeout},
		{Unavailable("Calendar provider"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("code = %q, want %q", tc.err.Code, tc.code)
			}
			if tc.err.StatusCode() != tc.want {
				t.Errorf("status = %d, want %d", tc.err.StatusCode(), tc.want)
			}
		})
	}
}

func TestNotFoundWithID_Details(t *testing.T) {
	err := NotFoundWithID("Appointment", "665f1c0a9d3e2b0001a4d0f1")
	if err.Details["resource"] != "Appointment" {
		t.Errorf("resource detail = %v", err.Details["resource"])
	}
	if err.Details["id"] != "665f1c0a9d3e2b0001a4d0f1" {
		t.Errorf("id detail = %v", err.Details["id"])
	}
}

func TestToJSON_OmitsInternals(t *testing.T) {
	err := Internal("Failed to create appointment", fmt.Errorf("secret dsn")).
		WithDetails(map[string]any{"op": "insert"})

	var decoded map[string]any
	if jsonErr := json.Unmarshal(err.ToJSON(), &decoded); jsonErr != nil {
		t.Fatalf("invalid JSON: %v", jsonErr)
	}
	if decoded["code"] != CodeInternal {
		t.Errorf("code = %v", decoded["code"])
	}
	if _, leaked := decoded["Err"]; leaked {
		t.Error("wrapped cause must not serialize")
	}
}

func TestAsAppError(t *testing.T) {
	orig := SlotConflict("overlap")
	if AsAppError(orig) != orig {
		t.Error("AsAppError should return the original AppError")
	}

	converted := AsAppError(fmt.Errorf("plain failure"))
	if converted.Code != CodeInternal {
		t.Errorf("plain errors convert to %q, want %q", converted.Code, CodeInternal)
	}
	if !IsAppError(converted) {
		t.Error("converted error should be an AppError")
	}
}
