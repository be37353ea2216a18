package http

import (
	"github.com/go-playground/validator/v10"

	loanuc "microlend-backend/internal/usecase/loan"
	"microlend-backend/pkg/wei"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Code    string       `json:"code,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// whole number of wei as a base-10 string; zero is left to the usecase
	_ = v.RegisterValidation("wei", func(fl validator.FieldLevel) bool {
		_, err := wei.Parse(fl.Field().String())
		return err == nil
	})
	// loan duration unit
	_ = v.RegisterValidation("durunit", func(fl validator.FieldLevel) bool {
		_, err := loanuc.DurationSeconds(1, loanuc.DurationUnit(fl.Field().String()))
		return err == nil
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "required_without":
			out = append(out, FieldError{Field: field, Message: "is required when " + e.Param() + " is absent"})
		case "required_with":
			out = append(out, FieldError{Field: field, Message: "is required together with " + e.Param()})
		case "wei":
			out = append(out, FieldError{Field: field, Message: "must be a whole number of wei"})
		case "durunit":
			out = append(out, FieldError{Field: field, Message: "must be one of seconds, days, weeks, months, years"})
		case "eth_addr":
			out = append(out, FieldError{Field: field, Message: "must be a 0x-prefixed 20-byte hex address"})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
