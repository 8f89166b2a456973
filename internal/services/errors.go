package services

import (
	"errors"
	"fmt"

	"github.com/OK4UK/academy-service/internal/validator"
)

// Sentinel errors per entity
var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrChapterNotFound    = errors.New("chapter not found")
	ErrCategoryNotFound   = errors.New("nvq category not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")

	ErrSlugTaken          = errors.New("slug already in use")
	ErrEmailTaken         = errors.New("email already registered")
	ErrAlreadyEnrolled    = errors.New("student already enrolled in course")
	ErrDuplicatePayment   = errors.New("payment reference already recorded")
	ErrCourseNotDeletable = errors.New("course has active enrollments")
)

// Validation errors come straight from the validator package.
type ValidationError = validator.ValidationError
type ValidationErrors = validator.ValidationErrors

// BusinessRuleError represents a domain rule violation.
type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule %s violated: %s", e.Rule, e.Message)
}

// PermissionError represents an authorization failure.
type PermissionError struct {
	UserID   string `json:"user_id"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Reason   string `json:"reason"`
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s %s (%s)", e.Action, e.Resource, e.Reason)
}

func NewPermissionError(userID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

// NotImplementedError tags operations the API surfaces but does not
// support yet, so callers get an explicit result instead of a silent stub.
type NotImplementedError struct {
	Operation string `json:"operation"`
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("operation not implemented: %s", e.Operation)
}

func NewNotImplementedError(operation string) *NotImplementedError {
	return &NotImplementedError{Operation: operation}
}
