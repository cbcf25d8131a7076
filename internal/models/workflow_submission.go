package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WorkflowSubmission stores a free-text workflow and its evaluation. The use case is a
// denormalised copy of the text the user picked or typed.
type WorkflowSubmission struct {
	ID           string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID       string         `gorm:"type:varchar(36);index;not null" json:"user_id"`
	UseCase      string         `gorm:"column:usecase;type:text;not null" json:"usecase"`
	WorkflowText string         `gorm:"type:text;not null" json:"workflow_text"`
	Evaluation   datatypes.JSON `gorm:"type:json" json:"evaluation"`
	Score        *float64       `json:"score"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	User         User           `gorm:"foreignKey:UserID;references:ID" json:"-"`
}

// BeforeCreate assigns an identifier when the caller did not supply one.
func (s *WorkflowSubmission) BeforeCreate(tx *gorm.DB) error {
	s.ID = newID(s.ID)
	return nil
}

// IsEvaluated reports whether the row holds an evaluation. Rows written before scoring
// completed carry NULL or a JSON null.
func (s WorkflowSubmission) IsEvaluated() bool {
	trimmed := strings.TrimSpace(string(s.Evaluation))
	return trimmed != "" && trimmed != "null"
}
