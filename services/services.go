package services

import (
	"context"
	"errors"
	"time"

	"dog-sitter-api/apperror"
	"dog-sitter-api/logger"
	"dog-sitter-api/models"

	"gorm.io/gorm"
)

// Principal is the authenticated caller every operation acts on behalf of
type Principal struct {
	UserID string
	Role   models.UserRole
}

// Authenticated reports whether the principal carries a user id
func (p Principal) Authenticated() bool {
	return p.UserID != ""
}

func requireAuth(p Principal) error {
	if !p.Authenticated() {
		return apperror.Unauthorized("authentication required")
	}
	return nil
}

// Services bundles every domain service over one database handle
type Services struct {
	db       *gorm.DB
	Auth     *AuthService
	Dogs     *DogService
	Sitters  *SitterService
	Bookings *BookingService
	Reviews  *ReviewService
}

func New(db *gorm.DB, log *logger.Logger) *Services {
	if log == nil {
		log = logger.Nop()
	}
	return &Services{
		db:       db,
		Auth:     NewAuthService(db),
		Dogs:     NewDogService(db),
		Sitters:  NewSitterService(db),
		Bookings: NewBookingService(db, log),
		Reviews:  NewReviewService(db),
	}
}

// Ping checks the database connection
func (s *Services) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// storeErr maps a GORM error to the app taxonomy. notFoundMsg is used when
// the record is missing.
func storeErr(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(notFoundMsg)
	}
	return apperror.Internal(err)
}

// publicUser limits a preloaded user to what other parties may see
func publicUser(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "image")
}

func utcNow() time.Time {
	return time.Now().UTC()
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
