package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BookingStatus represents all possible states of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCompleted BookingStatus = "COMPLETED"
	StatusCancelled BookingStatus = "CANCELLED"
)

// AllStatuses lists every booking status in lifecycle order
var AllStatuses = []BookingStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

// Valid reports whether s is one of the known statuses
func (s BookingStatus) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Booking struct {
	ID            string                 `json:"id" gorm:"type:varchar(36);primaryKey"`
	ClientID      string                 `json:"client_id" gorm:"type:varchar(36);not null;index"`
	Client        *User                  `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	SitterID      string                 `json:"sitter_id" gorm:"type:varchar(36);not null;index"`
	Sitter        *Sitter                `json:"sitter,omitempty" gorm:"foreignKey:SitterID"`
	Dogs          []Dog                  `json:"dogs,omitempty" gorm:"many2many:booking_dogs;"`
	StartDate     time.Time              `json:"start_date" gorm:"not null"`
	EndDate       time.Time              `json:"end_date" gorm:"not null"`
	Status        BookingStatus          `json:"status" gorm:"type:varchar(16);not null;default:'PENDING';index"`
	TotalPrice    decimal.Decimal        `json:"total_price" gorm:"type:decimal(10,2);not null"`
	Notes         *string                `json:"notes,omitempty"`
	Review        *Review                `json:"review,omitempty" gorm:"foreignKey:BookingID"`
	StatusHistory []BookingStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:BookingID"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// BookingStatusHistory tracks every status change of a booking
type BookingStatusHistory struct {
	ID         uint          `json:"id" gorm:"primaryKey"`
	BookingID  string        `json:"booking_id" gorm:"type:varchar(36);not null;index"`
	FromStatus BookingStatus `json:"from_status"`
	ToStatus   BookingStatus `json:"to_status" gorm:"not null"`
	ChangedBy  string        `json:"changed_by"` // user ID who triggered the transition
	Note       string        `json:"note"`
	CreatedAt  time.Time     `json:"created_at"`
}
