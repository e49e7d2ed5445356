package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleClient UserRole = "CLIENT"
	RoleSitter UserRole = "SITTER"
)

// Valid reports whether r is one of the known roles
func (r UserRole) Valid() bool {
	return r == RoleClient || r == RoleSitter
}

type User struct {
	ID           string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email,omitempty" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         UserRole  `json:"role,omitempty" gorm:"type:varchar(16);not null"`
	Image        *string   `json:"image,omitempty"`
	Dogs         []Dog     `json:"dogs,omitempty" gorm:"foreignKey:OwnerID"`
	Sitter       *Sitter   `json:"sitter,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt    time.Time `json:"created_at,omitzero"`
	UpdatedAt    time.Time `json:"updated_at,omitzero"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
