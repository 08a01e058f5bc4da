package models

import "time"

// Assignment binds one form to one employee. The composite unique index makes
// assignment creation an idempotent upsert: re-assigning never duplicates the
// row or resets a submitted flag.
type Assignment struct {
	ID         string    `json:"id" gorm:"primaryKey;type:text"`
	FormID     string    `json:"form_id" gorm:"not null;uniqueIndex:idx_assignments_form_employee"`
	EmployeeID string    `json:"employee_id" gorm:"not null;uniqueIndex:idx_assignments_form_employee"`
	Submitted  bool      `json:"submitted" gorm:"not null;default:false"`
	AssignedAt time.Time `json:"assigned_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
