package models

import "time"

const (
	RoleUser          = "USER"
	RoleAdmin         = "ADMIN"
	RoleAdministrator = "ADMINISTRATOR"
)

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleAdministrator:
		return true
	}
	return false
}

type Employee struct {
	ID           string    `json:"id" gorm:"primaryKey;type:text"`
	EmployeeID   string    `json:"employee_id" gorm:"uniqueIndex;not null"` // company-assigned, immutable
	Name         string    `json:"name" gorm:"not null;index"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         string    `json:"role" gorm:"not null;default:USER"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
