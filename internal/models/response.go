package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Answer struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

type AnswerList []Answer

func (a AnswerList) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *AnswerList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = nil
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported answer list source %T", src)
	}
}

type Response struct {
	ID          string     `json:"id" gorm:"primaryKey;type:text"`
	FormID      string     `json:"form_id" gorm:"not null;index:idx_responses_form_employee"`
	EmployeeID  string     `json:"employee_id" gorm:"not null;index:idx_responses_form_employee"`
	Answers     AnswerList `json:"answers" gorm:"type:jsonb"`
	SubmittedAt time.Time  `json:"submitted_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
