package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// JSONSubmission stores an uploaded workflow graph and its evaluation. WorkflowJSON uses a
// plain json column rather than jsonb so the document keeps its original key order.
type JSONSubmission struct {
	ID           string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID       string         `gorm:"type:varchar(36);index;not null" json:"user_id"`
	UseCase      string         `gorm:"column:usecase;type:text;not null" json:"usecase"`
	WorkflowJSON datatypes.JSON `gorm:"column:workflow_json;type:json;not null" json:"workflow_json"`
	Evaluation   datatypes.JSON `gorm:"type:json" json:"evaluation"`
	Score        *float64       `json:"score"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	User         User           `gorm:"foreignKey:UserID;references:ID" json:"-"`
}

// TableName keeps the table name used by the hosted store.
func (JSONSubmission) TableName() string {
	return "json_submissions"
}

// BeforeCreate assigns an identifier when the caller did not supply one.
func (s *JSONSubmission) BeforeCreate(tx *gorm.DB) error {
	s.ID = newID(s.ID)
	return nil
}

// IsEvaluated reports whether the row holds an evaluation. Rows written before scoring
// completed carry NULL or a JSON null.
func (s JSONSubmission) IsEvaluated() bool {
	trimmed := strings.TrimSpace(string(s.Evaluation))
	return trimmed != "" && trimmed != "null"
}
