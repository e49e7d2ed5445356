package services

import (
	"context"
	"errors"
	"strings"

	"dog-sitter-api/apperror"
	"dog-sitter-api/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService owns user accounts: signup, login, profile and deletion
type AuthService struct {
	db         *gorm.DB
	bcryptCost int
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db, bcryptCost: bcrypt.DefaultCost}
}

type SignupInput struct {
	Name     string          `json:"name" validate:"required,min=2"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8"`
	Role     models.UserRole `json:"role" validate:"required,oneof=CLIENT SITTER"`

	// Sitter-only, all optional
	Bio      string   `json:"bio"`
	Address  string   `json:"address"`
	City     string   `json:"city"`
	State    string   `json:"state"`
	ZipCode  string   `json:"zip_code"`
	Rate     *float64 `json:"rate" validate:"omitempty,gt=0"`
	Capacity *int     `json:"capacity" validate:"omitempty,gt=0"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateAccountInput struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates the user and, for sitters, an initial profile in the same
// transaction.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in, "invalid request data"); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&n).Error; err != nil {
			return apperror.Internal(err)
		}
		if n > 0 {
			return apperror.Conflict("user with this email already exists")
		}
		if err := tx.Create(&user).Error; err != nil {
			if isDuplicate(err) {
				return apperror.Conflict("user with this email already exists")
			}
			return apperror.Internal(err)
		}
		if user.Role != models.RoleSitter {
			return nil
		}
		sitter, err := createSitterOnSignup(tx, &user, SitterDefaults{
			Bio:      in.Bio,
			Address:  in.Address,
			City:     in.City,
			State:    in.State,
			ZipCode:  in.ZipCode,
			Rate:     in.Rate,
			Capacity: in.Capacity,
		})
		if err != nil {
			return err
		}
		user.Sitter = sitter
		return nil
	})
	if err != nil {
		return nil, apperror.From(err)
	}
	return &user, nil
}

// Login checks credentials. Unknown email and wrong password look the same.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in, "invalid request data"); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", in.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("invalid email or password")
		}
		return nil, apperror.Internal(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}
	return &user, nil
}

// Me returns the caller's own account
func (s *AuthService) Me(ctx context.Context, p Principal) (*models.User, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Sitter").First(&user, "id = ?", p.UserID).Error; err != nil {
		return nil, storeErr(err, "user not found")
	}
	return &user, nil
}

// UpdateAccount changes name and email. The email must stay unique.
func (s *AuthService) UpdateAccount(ctx context.Context, p Principal, in UpdateAccountInput) (*models.User, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in, "invalid request data"); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", p.UserID).Error; err != nil {
			return storeErr(err, "user not found")
		}
		var taken int64
		err := tx.Model(&models.User{}).
			Where("email = ? AND id <> ?", in.Email, p.UserID).
			Count(&taken).Error
		if err != nil {
			return apperror.Internal(err)
		}
		if taken > 0 {
			return apperror.Conflict("email already taken")
		}
		user.Name = in.Name
		user.Email = in.Email
		if err := tx.Save(&user).Error; err != nil {
			if isDuplicate(err) {
				return apperror.Conflict("email already taken")
			}
			return apperror.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, apperror.From(err)
	}
	return &user, nil
}

// DeleteAccount removes the caller and everything hanging off the account:
// reviews and bookings on either side, the sitter profile, and owned dogs.
func (s *AuthService) DeleteAccount(ctx context.Context, p Principal) error {
	if err := requireAuth(p); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sitterIDs []string
		if err := tx.Model(&models.Sitter{}).Where("user_id = ?", p.UserID).Pluck("id", &sitterIDs).Error; err != nil {
			return err
		}

		bookings := tx.Model(&models.Booking{}).Where("client_id = ?", p.UserID)
		if len(sitterIDs) > 0 {
			bookings = bookings.Or("sitter_id IN ?", sitterIDs)
		}
		var bookingIDs []string
		if err := bookings.Pluck("id", &bookingIDs).Error; err != nil {
			return err
		}

		if len(bookingIDs) > 0 {
			if err := tx.Where("booking_id IN ?", bookingIDs).Delete(&models.Review{}).Error; err != nil {
				return err
			}
			if err := tx.Exec("DELETE FROM booking_dogs WHERE booking_id IN ?", bookingIDs).Error; err != nil {
				return err
			}
			if err := tx.Where("booking_id IN ?", bookingIDs).Delete(&models.BookingStatusHistory{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", bookingIDs).Delete(&models.Booking{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", p.UserID).Delete(&models.Sitter{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", p.UserID).Delete(&models.Dog{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", p.UserID).Delete(&models.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound("user not found")
		}
		return nil
	})
	if err != nil {
		return apperror.From(err)
	}
	return nil
}
