package validator

import (
	"github.com/OK4UK/academy-service/internal/models"
)

// CourseCreateRequest represents the request structure for creating courses
type CourseCreateRequest struct {
	Title            string              `json:"title" validate:"required,course_title"`
	Slug             string              `json:"slug" validate:"omitempty,slug"`
	Description      *string             `json:"description" validate:"omitempty,course_description"`
	Price            float64             `json:"price" validate:"min=0"`
	Status           models.CourseStatus `json:"status" validate:"omitempty,course_status"`
	NvqCategoryID    *uint               `json:"nvq_category_id"`
	Level            *int                `json:"level" validate:"omitempty,nvq_level"`
	DurationMinutes  *int                `json:"duration_minutes" validate:"omitempty,min=1"`
	FeaturedImageURL *string             `json:"featured_image_url" validate:"omitempty,url,max=500"`
}

// CourseUpdateRequest represents the request structure for updating courses
type CourseUpdateRequest struct {
	Title            *string              `json:"title" validate:"omitempty,course_title"`
	Slug             *string              `json:"slug" validate:"omitempty,slug"`
	Description      *string              `json:"description" validate:"omitempty,course_description"`
	Price            *float64             `json:"price" validate:"omitempty,min=0"`
	Status           *models.CourseStatus `json:"status" validate:"omitempty,course_status"`
	NvqCategoryID    *uint                `json:"nvq_category_id"`
	Level            *int                 `json:"level" validate:"omitempty,nvq_level"`
	DurationMinutes  *int                 `json:"duration_minutes" validate:"omitempty,min=1"`
	FeaturedImageURL *string              `json:"featured_image_url" validate:"omitempty,url,max=500"`
}

// ChapterCreateRequest represents adding a chapter to a course. The slug
// is derived from the title when omitted.
type ChapterCreateRequest struct {
	Title      string  `json:"title" validate:"required,min=1,max=200"`
	Slug       string  `json:"slug" validate:"omitempty,slug"`
	Content    *string `json:"content" validate:"omitempty,max=50000"`
	OrderIndex *int    `json:"order_index" validate:"omitempty,min=1"`
	VideoURL   *string `json:"video_url" validate:"omitempty,url,max=500"`
}

// ChapterUpdateRequest represents the request structure for updating chapters
type ChapterUpdateRequest struct {
	Title      *string `json:"title" validate:"omitempty,min=1,max=200"`
	Slug       *string `json:"slug" validate:"omitempty,slug"`
	Content    *string `json:"content" validate:"omitempty,max=50000"`
	OrderIndex *int    `json:"order_index" validate:"omitempty,min=1"`
	VideoURL   *string `json:"video_url" validate:"omitempty,url,max=500"`
}

// NvqCategoryCreateRequest represents the request structure for creating NVQ categories
type NvqCategoryCreateRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Slug        string  `json:"slug" validate:"omitempty,slug"`
	Level       int     `json:"level" validate:"required,nvq_level"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// NvqCategoryUpdateRequest represents the request structure for updating NVQ categories
type NvqCategoryUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Slug        *string `json:"slug" validate:"omitempty,slug"`
	Level       *int    `json:"level" validate:"omitempty,nvq_level"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// ProfileCreateRequest represents an admin creating a user account
type ProfileCreateRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8,max=72"`
	FullName string          `json:"full_name" validate:"required,min=1,max=100"`
	Role     models.UserRole `json:"role" validate:"required,user_role"`
}

// ProfileUpdateRequest represents the request structure for updating profiles
type ProfileUpdateRequest struct {
	FullName *string          `json:"full_name" validate:"omitempty,min=1,max=100"`
	Role     *models.UserRole `json:"role" validate:"omitempty,user_role"`
}

// AccountUpdateRequest is the owner editing their own profile from the
// account settings section. Role changes stay admin-only.
type AccountUpdateRequest struct {
	FullName  *string `json:"full_name" validate:"omitempty,min=1,max=100"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url,max=500"`
}

// RegisterRequest represents the public sign-up request
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"required,min=1,max=100"`
}

// LoginRequest carries the authorization code from the identity provider.
type LoginRequest struct {
	Code  string `json:"code" validate:"required"`
	State string `json:"state" validate:"required"`
}

// EnrollRequest represents a student starting checkout for a course
type EnrollRequest struct {
	CourseID uint `json:"course_id" validate:"required"`
}

// PaymentWebhookRequest is the notification sent by the payment provider.
type PaymentWebhookRequest struct {
	EnrollmentID uint                   `json:"enrollment_id" validate:"required"`
	Amount       float64                `json:"amount" validate:"required,min=0"`
	Currency     string                 `json:"currency" validate:"required,len=3"`
	Provider     string                 `json:"provider" validate:"required,max=50"`
	Reference    string                 `json:"reference" validate:"required,max=255"`
	Payload      map[string]interface{} `json:"payload"`
}

// BulkDeleteRequest carries the ids for a batch delete
type BulkDeleteRequest struct {
	IDs []uint `json:"ids" validate:"required,min=1,dive,required"`
}

// BulkDeleteProfilesRequest carries identity provider ids for a batch delete
type BulkDeleteProfilesRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

// BulkActionRequest names a bulk operation over selected courses
type BulkActionRequest struct {
	Action string `json:"action" validate:"required"`
	IDs    []uint `json:"ids" validate:"required,min=1,dive,required"`
}
