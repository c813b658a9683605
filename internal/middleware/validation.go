package middleware

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/rosterhub/internal/app/models/dto"
)

// BindingErrorDetail converts a request binding failure into a response
// error detail, flattening validator field errors into readable messages.
func BindingErrorDetail(err error) *dto.ErrorDetail {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		return errorDetail.WithDetails(err.Error())
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, formatValidationError(fe))
	}

	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")
	errorDetail = errorDetail.WithField(fieldErrs[0].Field())
	return errorDetail.WithDetails(strings.Join(messages, "; "))
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
