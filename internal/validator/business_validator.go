package validator

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/OK4UK/academy-service/internal/models"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
	slugDashRuns     = regexp.MustCompile(`-+`)
	slugPattern      = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// DeriveSlug turns a title into its URL slug: lowercase, strip everything
// but letters, digits, whitespace and dashes, collapse whitespace and dash
// runs into single dashes, trim leading and trailing dashes. Applying it to
// its own output changes nothing.
func DeriveSlug(title string) string {
	slug := strings.ToLower(title)
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = slugWhitespace.ReplaceAllString(slug, "-")
	slug = slugDashRuns.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateCourseCreate validates course creation business rules
func (bv *BusinessValidator) ValidateCourseCreate(req *CourseCreateRequest) ValidationErrors {
	var errors ValidationErrors

	// Basic struct validation
	errors = append(errors, bv.Validate(req)...)

	// A blank slug is derived later; a provided one must be derivable as-is
	if req.Slug != "" && DeriveSlug(req.Slug) != req.Slug {
		errors = append(errors, ValidationError{
			Field:   "slug",
			Message: "must already be in slug form",
			Value:   req.Slug,
			Rule:    "slug",
		})
	}

	// Title must survive slug derivation
	if req.Slug == "" && DeriveSlug(req.Title) == "" {
		errors = append(errors, ValidationError{
			Field:   "title",
			Message: "must contain at least one letter or digit",
			Value:   req.Title,
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateCourseUpdate validates course update business rules
func (bv *BusinessValidator) ValidateCourseUpdate(req *CourseUpdateRequest, existing *models.Course) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if req.Slug != nil && DeriveSlug(*req.Slug) != *req.Slug {
		errors = append(errors, ValidationError{
			Field:   "slug",
			Message: "must already be in slug form",
			Value:   *req.Slug,
			Rule:    "slug",
		})
	}

	// Archived courses only move back through an explicit status change
	if existing.Status == models.CourseArchived && req.Status == nil {
		if req.Title != nil || req.Description != nil || req.Price != nil {
			errors = append(errors, ValidationError{
				Field:   "status",
				Message: "archived courses cannot be edited",
				Value:   existing.Status,
				Rule:    "business_logic",
			})
		}
	}

	return errors
}

// ValidateStatusTransition validates course status transitions
func (bv *BusinessValidator) ValidateStatusTransition(currentStatus, newStatus models.CourseStatus) ValidationErrors {
	var errors ValidationErrors

	allowedTransitions := map[models.CourseStatus][]models.CourseStatus{
		models.CourseDraft:     {models.CoursePublished, models.CourseArchived},
		models.CoursePublished: {models.CourseDraft, models.CourseArchived},
		models.CourseArchived:  {models.CourseDraft},
	}

	if currentStatus == newStatus {
		return nil
	}

	allowed := false
	for _, allowedStatus := range allowedTransitions[currentStatus] {
		if newStatus == allowedStatus {
			allowed = true
			break
		}
	}

	if !allowed {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: "invalid status transition",
			Value:   newStatus,
			Rule:    "status_transition",
		})
	}

	return errors
}

// ValidateChapterCreate validates chapter creation business rules
func (bv *BusinessValidator) ValidateChapterCreate(req *ChapterCreateRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateProfileCreate validates account creation business rules
func (bv *BusinessValidator) ValidateProfileCreate(req *ProfileCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if strings.TrimSpace(req.FullName) == "" {
		errors = append(errors, ValidationError{
			Field:   "full_name",
			Message: "cannot be blank",
			Value:   req.FullName,
			Rule:    "business_logic",
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Course title validation (3-200 characters)
	bv.validate.RegisterValidation("course_title", func(fl validator.FieldLevel) bool {
		title := strings.TrimSpace(fl.Field().String())
		return len(title) >= 3 && len(title) <= 200
	})

	// Description validation (max 5000 characters)
	bv.validate.RegisterValidation("course_description", func(fl validator.FieldLevel) bool {
		desc := fl.Field().String()
		return len(desc) <= 5000
	})

	// Course status validation
	bv.validate.RegisterValidation("course_status", func(fl validator.FieldLevel) bool {
		status := models.CourseStatus(fl.Field().String())
		switch status {
		case models.CourseDraft, models.CoursePublished, models.CourseArchived:
			return true
		}
		return false
	})

	// Slug shape validation
	bv.validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})

	// Role validation
	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.IsDashboardRole(fl.Field().String())
	})

	// NVQ level validation (1-8)
	bv.validate.RegisterValidation("nvq_level", func(fl validator.FieldLevel) bool {
		level := fl.Field().Int()
		return level >= 1 && level <= 8
	})
}
