package models

import (
	"time"
)

// NvqCategory groups courses by National Vocational Qualification level.
type NvqCategory struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null;size:100"`
	Slug        string  `json:"slug" gorm:"uniqueIndex;not null;size:120"`
	Level       int     `json:"level" gorm:"not null"`
	Description *string `json:"description" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Statistics
	CourseCount int `json:"course_count" gorm:"-"`
}

func (NvqCategory) TableName() string {
	return "nvq_categories"
}
