package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// UserRoleUser is the default role assigned at sign-up.
	UserRoleUser = "user"
	// UserRoleAdmin grants access to the cross-user aggregation view.
	UserRoleAdmin = "admin"
)

// User mirrors an account from the hosted auth service. The ID is the account identity.
type User struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name      string    `gorm:"size:255" json:"name"`
	Role      string    `gorm:"size:16;not null;default:user" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user may read other users' submissions.
func (u User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// ValidUserRole reports whether role is one of the supported roles.
func ValidUserRole(role string) bool {
	return role == UserRoleUser || role == UserRoleAdmin
}

func newID(current string) string {
	if current != "" {
		return current
	}
	return uuid.NewString()
}

// BeforeCreate assigns an identifier when the caller did not supply one.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.ID = newID(u.ID)
	if u.Role == "" {
		u.Role = UserRoleUser
	}
	return nil
}
