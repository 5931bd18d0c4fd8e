package services

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func reasonOf(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}

// validateStruct runs the struct tags and reports the first failure as a *ValidationError.
func validateStruct(data any) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		return &ValidationError{
			Field:  strings.ToLower(errs[0].Field()),
			Reason: reasonOf(errs[0]),
		}
	}
	return err
}

func requireText(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if len(value) == 0 {
		return value, &ValidationError{Field: field, Reason: "must not be empty"}
	}
	return value, nil
}

// bcrypt only reads the first 72 bytes, and the struct tags count characters.
const maxPasswordBytes = 72

func checkPassword(password string) error {
	if len(password) > maxPasswordBytes {
		return &ValidationError{Field: "password", Reason: "must be at most 72 bytes"}
	}
	return nil
}
