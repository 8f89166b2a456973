package models

import (
	"time"

	"gorm.io/gorm"
)

// Chapter is a single unit of course content. OrderIndex is 1-based and
// drives the display order inside a course; duplicates are tolerated.
type Chapter struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	CourseID   uint    `json:"course_id" gorm:"not null;index"`
	Title      string  `json:"title" gorm:"not null;size:200"`
	Slug       string  `json:"slug" gorm:"not null;size:220;index"`
	Content    *string `json:"content" gorm:"type:text"`
	OrderIndex int     `json:"order_index" gorm:"not null;default:1;index"`
	VideoURL   *string `json:"video_url" gorm:"size:500"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Course Course `json:"-" gorm:"foreignKey:CourseID"`
}

func (Chapter) TableName() string {
	return "chapters"
}
