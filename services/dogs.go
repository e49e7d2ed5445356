package services

import (
	"context"
	"strings"

	"dog-sitter-api/apperror"
	"dog-sitter-api/models"

	"gorm.io/gorm"
)

type DogService struct {
	db *gorm.DB
}

func NewDogService(db *gorm.DB) *DogService {
	return &DogService{db: db}
}

// DogInput is the full dog payload for create and update
type DogInput struct {
	Name       string  `json:"name" validate:"required"`
	Breed      string  `json:"breed" validate:"required"`
	Age        int     `json:"age" validate:"gte=0"`
	Weight     float64 `json:"weight" validate:"gt=0"`
	Vaccinated bool    `json:"vaccinated"`
	Neutered   bool    `json:"neutered"`
	Friendly   *bool   `json:"friendly"` // true when omitted
	Notes      *string `json:"notes"`
}

func (in *DogInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Breed = strings.TrimSpace(in.Breed)
	in.Notes = trimPtr(in.Notes)
}

func (in DogInput) apply(d *models.Dog) {
	d.Name = in.Name
	d.Breed = in.Breed
	d.Age = in.Age
	d.Weight = in.Weight
	d.Vaccinated = in.Vaccinated
	d.Neutered = in.Neutered
	d.Friendly = in.Friendly == nil || *in.Friendly
	d.Notes = in.Notes
}

// Create registers a dog for the calling client
func (s *DogService) Create(ctx context.Context, p Principal, in DogInput) (*models.Dog, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	if p.Role != models.RoleClient {
		return nil, apperror.PermissionDenied("only clients can register dogs")
	}
	in.normalize()
	if err := validateInput(in, "invalid dog data"); err != nil {
		return nil, err
	}

	dog := models.Dog{OwnerID: p.UserID}
	in.apply(&dog)
	if err := s.db.WithContext(ctx).Create(&dog).Error; err != nil {
		return nil, apperror.Internal(err)
	}
	return &dog, nil
}

// owned loads a dog and checks the caller owns it
func (s *DogService) owned(ctx context.Context, p Principal, dogID string) (*models.Dog, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	var dog models.Dog
	if err := s.db.WithContext(ctx).First(&dog, "id = ?", dogID).Error; err != nil {
		return nil, storeErr(err, "dog not found")
	}
	if dog.OwnerID != p.UserID {
		return nil, apperror.PermissionDenied("this dog does not belong to you")
	}
	return &dog, nil
}

func (s *DogService) Get(ctx context.Context, p Principal, dogID string) (*models.Dog, error) {
	return s.owned(ctx, p, dogID)
}

// Update replaces every field of the dog with the new payload
func (s *DogService) Update(ctx context.Context, p Principal, dogID string, in DogInput) (*models.Dog, error) {
	dog, err := s.owned(ctx, p, dogID)
	if err != nil {
		return nil, err
	}
	in.normalize()
	if err := validateInput(in, "invalid dog data"); err != nil {
		return nil, err
	}

	in.apply(dog)
	if err := s.db.WithContext(ctx).Save(dog).Error; err != nil {
		return nil, apperror.Internal(err)
	}
	return dog, nil
}

// Delete removes a dog. Dogs referenced by any booking are kept so booking
// history can still show them.
func (s *DogService) Delete(ctx context.Context, p Principal, dogID string) error {
	dog, err := s.owned(ctx, p, dogID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Table("booking_dogs").Where("dog_id = ?", dog.ID).Count(&refs).Error; err != nil {
			return apperror.Internal(err)
		}
		if refs > 0 {
			return apperror.Conflict("dog is referenced by existing bookings")
		}
		if err := tx.Delete(dog).Error; err != nil {
			return apperror.Internal(err)
		}
		return nil
	})
	return err
}

// ListByOwner returns the caller's dogs, newest first
func (s *DogService) ListByOwner(ctx context.Context, p Principal) ([]models.Dog, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	dogs := []models.Dog{}
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", p.UserID).
		Order("created_at desc").
		Find(&dogs).Error
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return dogs, nil
}
