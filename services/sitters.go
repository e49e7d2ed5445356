package services

import (
	"context"
	"strings"

	"dog-sitter-api/apperror"
	"dog-sitter-api/models"

	"gorm.io/gorm"
)

const recentBookingsLimit = 5

type SitterService struct {
	db *gorm.DB
}

func NewSitterService(db *gorm.DB) *SitterService {
	return &SitterService{db: db}
}

// SitterDefaults are the optional profile fields accepted at signup
type SitterDefaults struct {
	Bio      string
	Address  string
	City     string
	State    string
	ZipCode  string
	Rate     *float64
	Capacity *int
}

// SitterProfileInput is the full replacement payload for a profile edit
type SitterProfileInput struct {
	Bio      string  `json:"bio" validate:"min=20,max=500"`
	Rate     float64 `json:"rate" validate:"gte=5,lte=200"`
	Address  string  `json:"address" validate:"required"`
	City     string  `json:"city" validate:"required"`
	State    string  `json:"state" validate:"len=2"`
	ZipCode  string  `json:"zip_code" validate:"required"`
	Capacity int     `json:"capacity" validate:"gte=1,lte=10"`
}

func (in *SitterProfileInput) normalize() {
	in.Bio = strings.TrimSpace(in.Bio)
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.TrimSpace(in.State)
	in.ZipCode = strings.TrimSpace(in.ZipCode)
}

// SitterFilter narrows the directory listing. Zero values are ignored.
type SitterFilter struct {
	City    string
	State   string
	MaxRate *float64
}

// SitterListing is one directory entry
type SitterListing struct {
	models.Sitter
	CompletedBookings int64 `json:"completed_bookings"`
}

// SitterDetail is the public profile page of one sitter
type SitterDetail struct {
	Sitter            models.Sitter    `json:"sitter"`
	CompletedBookings int64            `json:"completed_bookings"`
	RecentBookings    []models.Booking `json:"recent_bookings"`
}

// CreateOnSignup creates the profile of a freshly registered SITTER user
func (s *SitterService) CreateOnSignup(ctx context.Context, user *models.User, d SitterDefaults) (*models.Sitter, error) {
	return createSitterOnSignup(s.db.WithContext(ctx), user, d)
}

func createSitterOnSignup(tx *gorm.DB, user *models.User, d SitterDefaults) (*models.Sitter, error) {
	if user.Role != models.RoleSitter {
		return nil, apperror.Validation("only sitter accounts have a sitter profile", nil)
	}
	sitter := models.Sitter{
		UserID:   user.ID,
		Bio:      strings.TrimSpace(d.Bio),
		Address:  strings.TrimSpace(d.Address),
		City:     strings.TrimSpace(d.City),
		State:    strings.TrimSpace(d.State),
		ZipCode:  strings.TrimSpace(d.ZipCode),
		Rate:     0,
		Capacity: 1,
	}
	if d.Rate != nil {
		sitter.Rate = *d.Rate
	}
	if d.Capacity != nil {
		sitter.Capacity = *d.Capacity
	}
	if err := tx.Create(&sitter).Error; err != nil {
		if isDuplicate(err) {
			return nil, apperror.Conflict("sitter profile already exists")
		}
		return nil, apperror.Internal(err)
	}
	return &sitter, nil
}

// GetMine returns the caller's own profile
func (s *SitterService) GetMine(ctx context.Context, p Principal) (*models.Sitter, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	return s.byUserID(ctx, p.UserID)
}

func (s *SitterService) byUserID(ctx context.Context, userID string) (*models.Sitter, error) {
	var sitter models.Sitter
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&sitter).Error
	if err != nil {
		return nil, storeErr(err, "sitter profile not found")
	}
	return &sitter, nil
}

// UpdateProfile replaces every editable field of the caller's profile
func (s *SitterService) UpdateProfile(ctx context.Context, p Principal, in SitterProfileInput) (*models.Sitter, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	sitter, err := s.byUserID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	in.normalize()
	if err := validateInput(in, "invalid sitter profile"); err != nil {
		return nil, err
	}

	sitter.Bio = in.Bio
	sitter.Rate = in.Rate
	sitter.Address = in.Address
	sitter.City = in.City
	sitter.State = in.State
	sitter.ZipCode = in.ZipCode
	sitter.Capacity = in.Capacity
	if err := s.db.WithContext(ctx).Save(sitter).Error; err != nil {
		return nil, apperror.Internal(err)
	}
	return sitter, nil
}

// List returns every sitter matching the filter, newest profile first
func (s *SitterService) List(ctx context.Context, f SitterFilter) ([]SitterListing, error) {
	if f.MaxRate != nil && *f.MaxRate < 0 {
		return nil, apperror.Validation("invalid filter", map[string]string{"maxRate": "must be 0 or greater"})
	}

	query := s.db.WithContext(ctx).Preload("User", publicUser)
	if city := strings.TrimSpace(f.City); city != "" {
		query = query.Where("city = ?", city)
	}
	if state := strings.TrimSpace(f.State); state != "" {
		query = query.Where("state = ?", state)
	}
	if f.MaxRate != nil {
		query = query.Where("rate <= ?", *f.MaxRate)
	}

	var sitters []models.Sitter
	if err := query.Order("created_at desc").Find(&sitters).Error; err != nil {
		return nil, apperror.Internal(err)
	}

	ids := make([]string, len(sitters))
	for i, st := range sitters {
		ids[i] = st.ID
	}
	counts, err := s.completedCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]SitterListing, len(sitters))
	for i, st := range sitters {
		out[i] = SitterListing{Sitter: st, CompletedBookings: counts[st.ID]}
	}
	return out, nil
}

func (s *SitterService) completedCounts(ctx context.Context, sitterIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(sitterIDs))
	if len(sitterIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		SitterID string
		N        int64
	}
	err := s.db.WithContext(ctx).Model(&models.Booking{}).
		Select("sitter_id, count(*) as n").
		Where("status = ? AND sitter_id IN ?", models.StatusCompleted, sitterIDs).
		Group("sitter_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperror.Internal(err)
	}
	for _, r := range rows {
		counts[r.SitterID] = r.N
	}
	return counts, nil
}

// GetByID returns the public profile with the latest completed bookings
func (s *SitterService) GetByID(ctx context.Context, id string) (*SitterDetail, error) {
	var sitter models.Sitter
	err := s.db.WithContext(ctx).Preload("User", publicUser).First(&sitter, "id = ?", id).Error
	if err != nil {
		return nil, storeErr(err, "sitter not found")
	}

	counts, err := s.completedCounts(ctx, []string{sitter.ID})
	if err != nil {
		return nil, err
	}

	var recent []models.Booking
	err = s.db.WithContext(ctx).
		Preload("Client", publicUser).
		Preload("Review").
		Where("sitter_id = ? AND status = ?", sitter.ID, models.StatusCompleted).
		Order("end_date desc").
		Limit(recentBookingsLimit).
		Find(&recent).Error
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &SitterDetail{
		Sitter:            sitter,
		CompletedBookings: counts[sitter.ID],
		RecentBookings:    recent,
	}, nil
}
