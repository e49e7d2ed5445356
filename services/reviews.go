package services

import (
	"context"
	"strings"

	"dog-sitter-api/apperror"
	"dog-sitter-api/models"

	"gorm.io/gorm"
)

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

type CreateReviewInput struct {
	BookingID string `json:"booking_id" validate:"required"`
	Rating    int    `json:"rating" validate:"gte=1,lte=5"`
	Comment   string `json:"comment" validate:"required"`
}

// Create records the client's single review of a completed booking
func (s *ReviewService) Create(ctx context.Context, p Principal, in CreateReviewInput) (*models.Review, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	in.BookingID = strings.TrimSpace(in.BookingID)
	in.Comment = strings.TrimSpace(in.Comment)
	if err := validateInput(in, "missing or invalid fields"); err != nil {
		return nil, err
	}

	var review models.Review
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.First(&booking, "id = ?", in.BookingID).Error; err != nil {
			return storeErr(err, "booking not found")
		}
		if booking.ClientID != p.UserID {
			return apperror.PermissionDenied("you can only review your own bookings")
		}
		if booking.Status != models.StatusCompleted {
			return apperror.InvalidTransition("can only review completed bookings")
		}

		var existing int64
		if err := tx.Model(&models.Review{}).Where("booking_id = ?", booking.ID).Count(&existing).Error; err != nil {
			return apperror.Internal(err)
		}
		if existing > 0 {
			return apperror.Conflict("review already exists")
		}

		review = models.Review{BookingID: booking.ID, Rating: in.Rating, Comment: in.Comment}
		if err := tx.Create(&review).Error; err != nil {
			// lost a race with a concurrent review; the unique index decides
			if isDuplicate(err) {
				return apperror.Conflict("review already exists")
			}
			return apperror.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}
