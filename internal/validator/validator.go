package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError describes one failed field validation.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is the collected result of validating a request.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}

	messages := make([]string, len(e))
	for i, err := range e {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}

// Validator wraps struct validation and business rule validation.
type Validator struct {
	businessValidator *BusinessValidator
}

func New() *Validator {
	return &Validator{
		businessValidator: NewBusinessValidator(),
	}
}

// Validate runs struct tag validation only.
func (v *Validator) Validate(s interface{}) error {
	if errs := v.businessValidator.Validate(s); len(errs) > 0 {
		return errs
	}
	return nil
}

// GetBusinessValidator exposes the business rule validator.
func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.businessValidator
}

// ToValidationErrors converts go-playground errors into our type.
func ToValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var result ValidationErrors

	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrors {
			result = append(result, ValidationError{
				Field:   toSnakeCase(fe.Field()),
				Message: getErrorMessage(fe),
				Value:   fe.Value(),
				Rule:    fe.Tag(),
			})
		}
		return result
	}

	return ValidationErrors{{
		Field:   "request",
		Message: err.Error(),
		Rule:    "invalid",
	}}
}

// getErrorMessage maps a validation tag to a human-readable message.
func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "course_title":
		return "must be between 3 and 200 characters"
	case "course_description":
		return "must be at most 5000 characters"
	case "course_status":
		return "must be one of: draft, published, archived"
	case "slug":
		return "must contain only lowercase letters, digits and dashes"
	case "user_role":
		return "must be one of: admin, student, assessor"
	case "nvq_level":
		return "must be between 1 and 8"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
