package validator

import (
	"errors"
	"fmt"

	val "github.com/go-playground/validator/v10"
)

// describe renders one failed rule for the desk UI. Unknown tags yield "".
func describe(fe val.FieldError) string {
	field, param := fe.Field(), fe.Param()

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "phone":
		return field + " must be a valid phone number"
	case "empty":
		return field + " must be empty"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "gte", "min":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte", "max":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	default:
		return ""
	}
}

// message returns the first failed rule with a known wording, or the raw
// validator output when none has one.
func message(err error) string {
	var fieldErrors val.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	for _, fe := range fieldErrors {
		if msg := describe(fe); msg != "" {
			return msg
		}
	}

	return fieldErrors.Error()
}
