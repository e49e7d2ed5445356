package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sitter is the public profile of a SITTER user. A fresh profile created at
// signup may hold empty defaults until the sitter completes it.
type Sitter struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);uniqueIndex;not null"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Bio       string    `json:"bio"`
	Address   string    `json:"address"`
	City      string    `json:"city" gorm:"index"`
	State     string    `json:"state" gorm:"index"`
	ZipCode   string    `json:"zip_code"`
	Rate      float64   `json:"rate" gorm:"not null;default:0"`
	Capacity  int       `json:"capacity" gorm:"not null;default:1"`
	Bookings  []Booking `json:"bookings,omitempty" gorm:"foreignKey:SitterID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Sitter) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
