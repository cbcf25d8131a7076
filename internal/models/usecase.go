package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UseCaseSet is one successful generation for a department/task pair. Rows are immutable.
type UseCaseSet struct {
	ID                string                      `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID            string                      `gorm:"type:varchar(36);index;not null" json:"user_id"`
	Department        string                      `gorm:"size:255;not null" json:"department"`
	Task              string                      `gorm:"size:255;not null" json:"task"`
	GeneratedUseCases datatypes.JSONSlice[string] `gorm:"column:generated_usecases" json:"generated_usecases"`
	CreatedAt         time.Time                   `gorm:"index" json:"created_at"`
}

// TableName keeps the table name used by the hosted store.
func (UseCaseSet) TableName() string {
	return "usecases"
}

// BeforeCreate assigns an identifier when the caller did not supply one.
func (u *UseCaseSet) BeforeCreate(tx *gorm.DB) error {
	u.ID = newID(u.ID)
	return nil
}
