package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EnrollmentStatus string

const (
	EnrollmentPending   EnrollmentStatus = "pending"
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

type Enrollment struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	CourseID  uint             `json:"course_id" gorm:"not null;index"`
	StudentID string           `json:"student_id" gorm:"not null;index;size:255"`
	Status    EnrollmentStatus `json:"status" gorm:"not null;size:20;default:pending;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Course  Course  `json:"course" gorm:"foreignKey:CourseID"`
	Student Profile `json:"student" gorm:"foreignKey:StudentID"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// Payment records a settled checkout for an enrollment. The raw provider
// notification is kept verbatim for reconciliation.
type Payment struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	EnrollmentID uint    `json:"enrollment_id" gorm:"not null;index"`
	Amount       float64 `json:"amount" gorm:"not null"`
	Currency     string  `json:"currency" gorm:"not null;size:3;default:GBP"`
	Provider     string  `json:"provider" gorm:"not null;size:50"`
	Reference    string  `json:"reference" gorm:"uniqueIndex;not null;size:255"`

	ProviderPayload datatypes.JSON `json:"provider_payload,omitempty" gorm:"type:jsonb"`

	PaidAt    time.Time `json:"paid_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Enrollment Enrollment `json:"-" gorm:"foreignKey:EnrollmentID"`
}

func (Payment) TableName() string {
	return "payments"
}
