package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	QuestionMCQ   = "mcq"
	QuestionShort = "short"
	QuestionLong  = "long"
)

// ValidQuestionType reports whether t is a known question type.
func ValidQuestionType(t string) bool {
	switch t {
	case QuestionMCQ, QuestionShort, QuestionLong:
		return true
	}
	return false
}

type Question struct {
	ID         string   `json:"id"`
	Text       string   `json:"text"`
	Type       string   `json:"type"`
	Options    []string `json:"options,omitempty"` // mcq only
	IsRequired bool     `json:"is_required"`
}

// QuestionList is stored as a single jsonb column so question order survives
// round trips without a join table.
type QuestionList []Question

func (q QuestionList) Value() (driver.Value, error) {
	return json.Marshal(q)
}

func (q *QuestionList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*q = nil
		return nil
	case []byte:
		return json.Unmarshal(v, q)
	case string:
		return json.Unmarshal([]byte(v), q)
	default:
		return fmt.Errorf("unsupported question list source %T", src)
	}
}

type Form struct {
	ID          string       `json:"id" gorm:"primaryKey;type:text"`
	Title       string       `json:"title" gorm:"not null"`
	Description string       `json:"description,omitempty"`
	Questions   QuestionList `json:"questions" gorm:"type:jsonb"`
	CreatedBy   string       `json:"created_by" gorm:"index;not null"` // authoring employee id, scoping key only
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
