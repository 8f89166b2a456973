package models

import (
	"time"

	"gorm.io/gorm"
)

type CourseStatus string

const (
	CourseDraft     CourseStatus = "draft"
	CoursePublished CourseStatus = "published"
	CourseArchived  CourseStatus = "archived"
)

type Course struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Title       string       `json:"title" gorm:"not null;size:200"`
	Slug        string       `json:"slug" gorm:"uniqueIndex;not null;size:220"`
	Description *string      `json:"description" gorm:"type:text"`
	Price       float64      `json:"price" gorm:"not null;default:0"`
	Status      CourseStatus `json:"status" gorm:"not null;size:20;default:draft;index"`

	// Optional NVQ classification. Level mirrors the category's NVQ level
	// so the course table can filter on it without a join.
	NvqCategoryID *uint        `json:"nvq_category_id" gorm:"index"`
	NvqCategory   *NvqCategory `json:"nvq_category,omitempty" gorm:"foreignKey:NvqCategoryID"`
	Level         *int         `json:"level" gorm:"index"`

	// Marketing attributes
	DurationMinutes  *int    `json:"duration_minutes"`
	FeaturedImageURL *string `json:"featured_image_url" gorm:"size:500"`

	CreatedBy string    `json:"created_by" gorm:"not null;index;size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Chapters []Chapter `json:"chapters,omitempty" gorm:"foreignKey:CourseID"`

	// Statistics
	ChapterCount    int `json:"chapter_count" gorm:"-"`
	EnrollmentCount int `json:"enrollment_count" gorm:"-"`
}

func (Course) TableName() string {
	return "courses"
}
