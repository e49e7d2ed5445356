package services

import (
	"context"
	"testing"
	"time"

	"dog-sitter-api/apperror"
	"dog-sitter-api/config"
	"dog-sitter-api/logger"
	"dog-sitter-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// -------------------------
// Fixtures
// -------------------------

type fixture struct {
	t   *testing.T
	ctx context.Context
	db  *gorm.DB
	svc *Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := config.InitDB(config.DBConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	svc := New(db, logger.Nop())
	svc.Auth.bcryptCost = bcrypt.MinCost
	return &fixture{t: t, ctx: context.Background(), db: db, svc: svc}
}

func (f *fixture) client(name, email string) Principal {
	f.t.Helper()
	u, err := f.svc.Auth.Signup(f.ctx, SignupInput{
		Name: name, Email: email, Password: "password123", Role: models.RoleClient,
	})
	require.NoError(f.t, err)
	return Principal{UserID: u.ID, Role: u.Role}
}

// sitter signs up a sitter and returns the principal plus the profile id
func (f *fixture) sitter(name, email string, rate float64) (Principal, string) {
	f.t.Helper()
	u, err := f.svc.Auth.Signup(f.ctx, SignupInput{
		Name: name, Email: email, Password: "password123", Role: models.RoleSitter,
		City: "Austin", State: "TX", Rate: &rate,
	})
	require.NoError(f.t, err)
	require.NotNil(f.t, u.Sitter)
	return Principal{UserID: u.ID, Role: u.Role}, u.Sitter.ID
}

func (f *fixture) dog(owner Principal, name string) *models.Dog {
	f.t.Helper()
	d, err := f.svc.Dogs.Create(f.ctx, owner, DogInput{
		Name: name, Breed: "Beagle", Age: 3, Weight: 12.5,
	})
	require.NoError(f.t, err)
	return d
}

var (
	day1 = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	day2 = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
)

func (f *fixture) booking(client Principal, sitterID string, dogs ...*models.Dog) *models.Booking {
	f.t.Helper()
	ids := make([]string, len(dogs))
	for i, d := range dogs {
		ids[i] = d.ID
	}
	b, err := f.svc.Bookings.Create(f.ctx, client, CreateBookingInput{
		SitterID: sitterID, DogIDs: ids, StartDate: day1, EndDate: day2,
	})
	require.NoError(f.t, err)
	return b
}

func assertKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apperror.Is(err, kind), "want %s, got %v", kind, err)
}

// -------------------------
// Accounts
// -------------------------

func TestAuth_SignupAndLogin(t *testing.T) {
	f := newFixture(t)

	u, err := f.svc.Auth.Signup(f.ctx, SignupInput{
		Name: "Ana", Email: "  Ana@Example.com ", Password: "password123", Role: models.RoleClient,
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.NotEqual(t, "password123", u.PasswordHash)
	assert.Nil(t, u.Sitter)

	got, err := f.svc.Auth.Login(f.ctx, LoginInput{Email: "ANA@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = f.svc.Auth.Login(f.ctx, LoginInput{Email: "ana@example.com", Password: "wrong-password"})
	assertKind(t, err, apperror.KindUnauthorized)

	_, err = f.svc.Auth.Login(f.ctx, LoginInput{Email: "nobody@example.com", Password: "password123"})
	assertKind(t, err, apperror.KindUnauthorized)
}

func TestAuth_Signup_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.client("Ana", "ana@example.com")

	_, err := f.svc.Auth.Signup(f.ctx, SignupInput{
		Name: "Other", Email: "ANA@example.com", Password: "password123", Role: models.RoleClient,
	})
	assertKind(t, err, apperror.KindConflict)
}

func TestAuth_Signup_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Auth.Signup(f.ctx, SignupInput{
		Name: "A", Email: "not-an-email", Password: "short", Role: "ADMIN",
	})
	assertKind(t, err, apperror.KindValidation)

	appErr := apperror.From(err)
	assert.Contains(t, appErr.Fields, "name")
	assert.Contains(t, appErr.Fields, "email")
	assert.Contains(t, appErr.Fields, "password")
	assert.Contains(t, appErr.Fields, "role")
}

func TestAuth_Signup_SitterGetsProfileWithDefaults(t *testing.T) {
	f := newFixture(t)

	u, err := f.svc.Auth.Signup(f.ctx, SignupInput{
		Name: "Sam", Email: "sam@example.com", Password: "password123", Role: models.RoleSitter,
	})
	require.NoError(t, err)
	require.NotNil(t, u.Sitter)
	assert.Equal(t, 0.0, u.Sitter.Rate)
	assert.Equal(t, 1, u.Sitter.Capacity)
	assert.Equal(t, "", u.Sitter.Bio)

	me, err := f.svc.Auth.Me(f.ctx, Principal{UserID: u.ID, Role: u.Role})
	require.NoError(t, err)
	require.NotNil(t, me.Sitter)
	assert.Equal(t, u.Sitter.ID, me.Sitter.ID)
}

func TestAuth_UpdateAccount(t *testing.T) {
	f := newFixture(t)
	ana := f.client("Ana", "ana@example.com")
	f.client("Bob", "bob@example.com")

	u, err := f.svc.Auth.UpdateAccount(f.ctx, ana, UpdateAccountInput{Name: "Ana Maria", Email: "anamaria@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", u.Name)
	assert.Equal(t, "anamaria@example.com", u.Email)

	_, err = f.svc.Auth.UpdateAccount(f.ctx, ana, UpdateAccountInput{Name: "Ana", Email: "bob@example.com"})
	assertKind(t, err, apperror.KindConflict)

	_, err = f.svc.Auth.Me(f.ctx, Principal{})
	assertKind(t, err, apperror.KindUnauthorized)
}

func TestAuth_DeleteAccount_RemovesEverything(t *testing.T) {
	f := newFixture(t)
	client := f.client("Ana", "ana@example.com")
	sitter, sitterID := f.sitter("Sam", "sam@example.com", 10)
	rex := f.dog(client, "Rex")

	b := f.booking(client, sitterID, rex)
	_, err := f.svc.Bookings.Confirm(f.ctx, sitter, b.ID)
	require.NoError(t, err)
	_, err = f.svc.Bookings.Complete(f.ctx, sitter, b.ID)
	require.NoError(t, err)
	_, err = f.svc.Reviews.Create(f.ctx, client, CreateReviewInput{BookingID: b.ID, Rating: 5, Comment: "great"})
	require.NoError(t, err)

	// deleting the sitter takes the bookings addressed to their profile
	require.NoError(t, f.svc.Auth.DeleteAccount(f.ctx, sitter))

	count := func(model any) int64 {
		var n int64
		require.NoError(t, f.db.Model(model).Count(&n).Error)
		return n
	}
	assert.Equal(t, int64(0), count(&models.Sitter{}))
	assert.Equal(t, int64(0), count(&models.Booking{}))
	assert.Equal(t, int64(0), count(&models.Review{}))
	assert.Equal(t, int64(0), count(&models.BookingStatusHistory{}))
	assert.Equal(t, int64(1), count(&models.Dog{}))

	var links int64
	require.NoError(t, f.db.Table("booking_dogs").Count(&links).Error)
	assert.Equal(t, int64(0), links)

	// the dog is free again, so the client can delete it and then leave
	require.NoError(t, f.svc.Dogs.Delete(f.ctx, client, rex.ID))
	require.NoError(t, f.svc.Auth.DeleteAccount(f.ctx, client))
	assert.Equal(t, int64(0), count(&models.User{}))

	err = f.svc.Auth.DeleteAccount(f.ctx, client)
	assertKind(t, err, apperror.KindNotFound)
}
