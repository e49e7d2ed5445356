package services

import (
	"context"
	"errors"
	"time"

	"dog-sitter-api/apperror"
	"dog-sitter-api/logger"
	"dog-sitter-api/models"
	"dog-sitter-api/statemachine"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errStatusChanged = apperror.Conflict("booking status changed concurrently")

type BookingService struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

func NewBookingService(db *gorm.DB, log *logger.Logger) *BookingService {
	if log == nil {
		log = logger.Nop()
	}
	return &BookingService{db: db, log: log, now: utcNow}
}

type CreateBookingInput struct {
	SitterID  string    `json:"sitter_id" validate:"required"`
	DogIDs    []string  `json:"dog_ids" validate:"required,min=1"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
	Notes     *string   `json:"notes"`
}

// BookingList is a role-scoped listing with a per-status count
type BookingList struct {
	Count    int                          `json:"count"`
	Summary  map[models.BookingStatus]int `json:"summary"`
	Bookings []models.Booking             `json:"bookings"`
}

// CalculatePrice charges rate for every hour of the stay, fractions included.
// Stays that end before they start cost nothing.
func CalculatePrice(start, end time.Time, rate float64) decimal.Decimal {
	hours := decimal.NewFromInt(int64(end.Sub(start))).Div(decimal.NewFromInt(int64(time.Hour)))
	if hours.IsNegative() {
		hours = decimal.Zero
	}
	return hours.Mul(decimal.NewFromFloat(rate)).Round(2)
}

// Create books a sitter for some of the caller's dogs
func (s *BookingService) Create(ctx context.Context, p Principal, in CreateBookingInput) (*models.Booking, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	in.Notes = trimPtr(in.Notes)
	if err := validateInput(in, "invalid booking data"); err != nil {
		return nil, err
	}

	var booking models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sitter models.Sitter
		if err := tx.First(&sitter, "id = ?", in.SitterID).Error; err != nil {
			return storeErr(err, "sitter not found")
		}

		dogs, err := ownedDogs(tx, p.UserID, in.DogIDs)
		if err != nil {
			return err
		}

		booking = models.Booking{
			ClientID:   p.UserID,
			SitterID:   sitter.ID,
			Dogs:       dogs,
			StartDate:  in.StartDate.UTC(),
			EndDate:    in.EndDate.UTC(),
			Status:     models.StatusPending,
			TotalPrice: CalculatePrice(in.StartDate, in.EndDate, sitter.Rate),
			Notes:      in.Notes,
		}
		if err := tx.Omit("Dogs.*").Create(&booking).Error; err != nil {
			return apperror.Internal(err)
		}

		history := models.BookingStatusHistory{
			BookingID: booking.ID,
			ToStatus:  models.StatusPending,
			ChangedBy: p.UserID,
			Note:      "booking requested",
		}
		if err := tx.Create(&history).Error; err != nil {
			return apperror.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("booking_id", booking.ID).
		Str("client_id", p.UserID).
		Str("sitter_id", booking.SitterID).
		Str("total_price", booking.TotalPrice.StringFixed(2)).
		Msg("booking created")

	return s.load(ctx, booking.ID)
}

// ownedDogs resolves every id to a dog of the owner. One bad or repeated id
// rejects the whole selection.
func ownedDogs(tx *gorm.DB, ownerID string, ids []string) ([]models.Dog, error) {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			return nil, apperror.Validation("invalid dog selection", nil)
		}
		seen[id] = true
	}

	var dogs []models.Dog
	if err := tx.Where("id IN ? AND owner_id = ?", ids, ownerID).Find(&dogs).Error; err != nil {
		return nil, apperror.Internal(err)
	}
	if len(dogs) != len(ids) {
		return nil, apperror.Validation("invalid dog selection", nil)
	}
	return dogs, nil
}

// Confirm accepts a pending request on behalf of the sitter
func (s *BookingService) Confirm(ctx context.Context, p Principal, bookingID string) (*models.Booking, error) {
	booking, err := s.forSitter(ctx, p, bookingID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, p, booking, models.StatusConfirmed, statemachine.ActorSitter, nil)
}

// Complete closes a confirmed stay. The end date becomes the moment of
// completion; the price stays as quoted.
func (s *BookingService) Complete(ctx context.Context, p Principal, bookingID string) (*models.Booking, error) {
	booking, err := s.forSitter(ctx, p, bookingID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, p, booking, models.StatusCompleted, statemachine.ActorSitter,
		map[string]any{"end_date": s.now()})
}

// Cancel withdraws a pending or confirmed booking on behalf of its client
func (s *BookingService) Cancel(ctx context.Context, p Principal, bookingID string) (*models.Booking, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	booking, err := s.find(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.ClientID != p.UserID {
		return nil, apperror.PermissionDenied("this booking does not belong to you")
	}
	return s.transition(ctx, p, booking, models.StatusCancelled, statemachine.ActorClient, nil)
}

func (s *BookingService) forSitter(ctx context.Context, p Principal, bookingID string) (*models.Booking, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	var sitter models.Sitter
	if err := s.db.WithContext(ctx).Where("user_id = ?", p.UserID).First(&sitter).Error; err != nil {
		return nil, storeErr(err, "sitter profile not found")
	}
	booking, err := s.find(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.SitterID != sitter.ID {
		return nil, apperror.PermissionDenied("this booking is not assigned to you")
	}
	return booking, nil
}

func (s *BookingService) find(ctx context.Context, bookingID string) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.WithContext(ctx).First(&booking, "id = ?", bookingID).Error; err != nil {
		return nil, storeErr(err, "booking not found")
	}
	return &booking, nil
}

// transition moves the booking to `to` only if nobody changed its status
// since it was read. The status row and the history row commit together.
func (s *BookingService) transition(ctx context.Context, p Principal, booking *models.Booking,
	to models.BookingStatus, actor string, extra map[string]any) (*models.Booking, error) {

	from := booking.Status
	if err := statemachine.CanTransition(from, to, actor); err != nil {
		var te *statemachine.TransitionError
		if errors.As(err, &te) {
			return nil, apperror.InvalidTransition(te.GuardMessage())
		}
		return nil, apperror.Internal(err)
	}

	updates := map[string]any{"status": to}
	for k, v := range extra {
		updates[k] = v
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", booking.ID, from).
			Updates(updates)
		if res.Error != nil {
			return apperror.Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			return errStatusChanged
		}

		history := models.BookingStatusHistory{
			BookingID:  booking.ID,
			FromStatus: from,
			ToStatus:   to,
			ChangedBy:  p.UserID,
			Note:       actor + " moved booking to " + string(to),
		}
		if err := tx.Create(&history).Error; err != nil {
			return apperror.Internal(err)
		}
		return nil
	})
	if err != nil {
		if apperror.Is(err, apperror.KindConflict) {
			s.log.Warn().Str("booking_id", booking.ID).Str("expected", string(from)).
				Str("target", string(to)).Msg("booking transition lost race")
		}
		return nil, err
	}

	s.log.Info().
		Str("booking_id", booking.ID).
		Str("from", string(from)).
		Str("to", string(to)).
		Str("actor", actor).
		Str("changed_by", p.UserID).
		Msg("booking status changed")

	return s.load(ctx, booking.ID)
}

// Get returns the booking with everything attached. Only its client and its
// sitter may look at it.
func (s *BookingService) Get(ctx context.Context, p Principal, bookingID string) (*models.Booking, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	booking, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.ClientID == p.UserID {
		return booking, nil
	}
	if booking.Sitter != nil && booking.Sitter.UserID == p.UserID {
		return booking, nil
	}
	return nil, apperror.PermissionDenied("you are not a party to this booking")
}

func (s *BookingService) load(ctx context.Context, bookingID string) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).
		Preload("Dogs").
		Preload("Client", publicUser).
		Preload("Sitter").
		Preload("Sitter.User", publicUser).
		Preload("Review").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc, id asc")
		}).
		First(&booking, "id = ?", bookingID).Error
	if err != nil {
		return nil, storeErr(err, "booking not found")
	}
	return &booking, nil
}

// List returns the caller's bookings: the ones they made as a client, or
// the ones addressed to their sitter profile.
func (s *BookingService) List(ctx context.Context, p Principal, status models.BookingStatus) (*BookingList, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	if status != "" && !status.Valid() {
		return nil, apperror.Validation("invalid status filter", map[string]string{"status": "must be one of PENDING CONFIRMED COMPLETED CANCELLED"})
	}

	query := s.db.WithContext(ctx).
		Preload("Dogs").
		Preload("Client", publicUser).
		Preload("Sitter").
		Preload("Sitter.User", publicUser).
		Preload("Review")

	switch p.Role {
	case models.RoleSitter:
		var sitter models.Sitter
		if err := s.db.WithContext(ctx).Where("user_id = ?", p.UserID).First(&sitter).Error; err != nil {
			return nil, storeErr(err, "sitter profile not found")
		}
		query = query.Where("sitter_id = ?", sitter.ID)
	default:
		query = query.Where("client_id = ?", p.UserID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	bookings := []models.Booking{}
	if err := query.Order("start_date desc").Find(&bookings).Error; err != nil {
		return nil, apperror.Internal(err)
	}

	summary := make(map[models.BookingStatus]int)
	for _, b := range bookings {
		summary[b.Status]++
	}
	return &BookingList{Count: len(bookings), Summary: summary, Bookings: bookings}, nil
}
