package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string
type Role = UserRole // Alias for compatibility

const (
	RoleAdmin    UserRole = "admin"
	RoleStudent  UserRole = "student"
	RoleAssessor UserRole = "assessor"
)

// DashboardRoles are the roles that own a dashboard area.
var DashboardRoles = []UserRole{RoleAdmin, RoleStudent, RoleAssessor}

func IsDashboardRole(role string) bool {
	for _, r := range DashboardRoles {
		if string(r) == role {
			return true
		}
	}
	return false
}

// Profile mirrors the identity provider account inside our own store.
// The ID is the identity provider's user ID.
type Profile struct {
	ID       string   `json:"id" gorm:"primaryKey;size:255"`
	FullName string   `json:"full_name" gorm:"not null;size:100"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role     UserRole `json:"role" gorm:"not null;size:20;default:student"`

	// Profile info
	AvatarURL *string `json:"avatar_url" gorm:"size:500"`

	// Status
	EmailVerified bool `json:"email_verified" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Profile) TableName() string {
	return "profiles"
}
