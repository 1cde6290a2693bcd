package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/cinema-tickets/internal/domain"
)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("ticket_type", validateTicketType)

	return validator
}

func validateTicketType(fl validator.FieldLevel) bool {
	_, err := domain.ParseTicketCategory(fl.Field().String())
	return err == nil
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		if err.Kind().String() == "slice" {
			return fmt.Sprintf("must contain at least %s item(s)", err.Param())
		}
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		if err.Kind().String() == "slice" {
			return fmt.Sprintf("must contain at most %s item(s)", err.Param())
		}
		return fmt.Sprintf("must be at most %s", err.Param())
	case "ticket_type":
		return "must be one of ADULT, CHILD or INFANT"
	default:
		return "is invalid"
	}
}
