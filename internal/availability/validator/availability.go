package validator

import (
	"errors"
	"fmt"
	"strings"

	"bookable/pkg/logger"
	"bookable/pkg/model"
	"bookable/pkg/slots"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type AvailabilityValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewAvailabilityValidator(log *logger.Logger) *AvailabilityValidator {
	return &AvailabilityValidator{
		validate: validator.New(),
		logger:   log,
	}
}

// ValidateDay checks the structural tags plus the ordering invariants a
// stored day must hold: slots sorted by start, pairwise non-overlapping.
func (v *AvailabilityValidator) ValidateDay(availability *model.Availability) error {
	if err := v.validate.Struct(availability); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translate(validationErrs)
		}
		return err
	}
	return validateSlotOrder(availability.Slots)
}

func validateSlotOrder(list []model.TimeSlot) error {
	var out ValidationErrors
	for i := 1; i < len(list); i++ {
		prev, cur := list[i-1], list[i]
		field := fmt.Sprintf("Slots[%d]", i)
		if cur.Start.Before(prev.Start) {
			out = append(out, ValidationError{
				Field:   field,
				Message: "slots must be sorted by start time",
			})
			continue
		}
		if slots.Overlaps(prev.Start, prev.End, cur.Start, cur.End) {
			out = append(out, ValidationError{
				Field:   field,
				Message: "slots must not overlap",
			})
		}
	}
	if len(out) > 0 {
		return out
	}
	return nil
}

func translate(errs validator.ValidationErrors) ValidationErrors {
	var out ValidationErrors
	for _, err := range errs {
		message := err.Error()
		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must contain at least %s item(s)", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		case "datetime":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid object ID", err.Field())
		}
		out = append(out, ValidationError{Field: err.Field(), Message: message})
	}
	return out
}
