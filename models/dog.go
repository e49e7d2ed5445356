package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Dog struct {
	ID         string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name       string    `json:"name" gorm:"not null"`
	Breed      string    `json:"breed" gorm:"not null"`
	Age        int       `json:"age" gorm:"not null"`
	Weight     float64   `json:"weight" gorm:"not null"`
	Vaccinated bool      `json:"vaccinated" gorm:"not null"`
	Neutered   bool      `json:"neutered" gorm:"not null"`
	Friendly   bool      `json:"friendly" gorm:"not null"`
	Notes      *string   `json:"notes,omitempty"`
	OwnerID    string    `json:"owner_id" gorm:"type:varchar(36);not null;index"`
	Owner      *User     `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (d *Dog) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
