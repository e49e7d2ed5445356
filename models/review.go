package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is attached to exactly one completed booking and never edited
type Review struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	BookingID string    `json:"booking_id" gorm:"type:varchar(36);uniqueIndex;not null"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
