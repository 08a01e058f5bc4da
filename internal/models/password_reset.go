package models

import "time"

// PasswordReset holds one single-use reset token. Only the SHA-256 digest of
// the secret is stored; the plaintext goes out by email and is never persisted.
// Expired rows are removed by a background janitor regardless of used state.
type PasswordReset struct {
	ID         string     `json:"id" gorm:"primaryKey;type:text"`
	EmployeeID string     `json:"employee_id" gorm:"not null;index"` // company-assigned id
	TokenHash  string     `json:"-" gorm:"not null;uniqueIndex"`
	ExpiresAt  time.Time  `json:"expires_at" gorm:"not null;index"`
	Used       bool       `json:"used" gorm:"not null;default:false"`
	UsedAt     *time.Time `json:"used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
