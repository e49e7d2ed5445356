package services

import (
	"testing"

	"dog-sitter-api/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDogs_CreateUpdateGet(t *testing.T) {
	f := newFixture(t)
	owner := f.client("Ana", "ana@example.com")

	notes := "  allergic to chicken "
	created, err := f.svc.Dogs.Create(f.ctx, owner, DogInput{
		Name: " Rex ", Breed: "Beagle", Age: 3, Weight: 12.5, Vaccinated: true, Notes: &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, "Rex", created.Name)
	assert.True(t, created.Friendly)
	require.NotNil(t, created.Notes)
	assert.Equal(t, "allergic to chicken", *created.Notes)
	assert.Equal(t, owner.UserID, created.OwnerID)

	unfriendly := false
	updated, err := f.svc.Dogs.Update(f.ctx, owner, created.ID, DogInput{
		Name: "Rex II", Breed: "Labrador", Age: 4, Weight: 30, Neutered: true, Friendly: &unfriendly,
	})
	require.NoError(t, err)

	got, err := f.svc.Dogs.Get(f.ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.ID, got.ID)
	assert.Equal(t, "Rex II", got.Name)
	assert.Equal(t, "Labrador", got.Breed)
	assert.Equal(t, 4, got.Age)
	assert.Equal(t, 30.0, got.Weight)
	assert.False(t, got.Vaccinated)
	assert.True(t, got.Neutered)
	assert.False(t, got.Friendly)
	assert.Nil(t, got.Notes)
}

func TestDogs_Create_RequiresClientRole(t *testing.T) {
	f := newFixture(t)
	sitter, _ := f.sitter("Sam", "sam@example.com", 10)

	_, err := f.svc.Dogs.Create(f.ctx, sitter, DogInput{Name: "Rex", Breed: "Beagle", Weight: 10})
	assertKind(t, err, apperror.KindPermissionDenied)

	_, err = f.svc.Dogs.Create(f.ctx, Principal{}, DogInput{Name: "Rex", Breed: "Beagle", Weight: 10})
	assertKind(t, err, apperror.KindUnauthorized)
}

func TestDogs_Create_Validation(t *testing.T) {
	f := newFixture(t)
	owner := f.client("Ana", "ana@example.com")

	_, err := f.svc.Dogs.Create(f.ctx, owner, DogInput{Name: "  ", Breed: "", Age: -1, Weight: 0})
	assertKind(t, err, apperror.KindValidation)
	fields := apperror.From(err).Fields
	for _, k := range []string{"name", "breed", "age", "weight"} {
		assert.Contains(t, fields, k)
	}
}

func TestDogs_OwnershipChecks(t *testing.T) {
	f := newFixture(t)
	ana := f.client("Ana", "ana@example.com")
	bob := f.client("Bob", "bob@example.com")
	rex := f.dog(ana, "Rex")

	_, err := f.svc.Dogs.Get(f.ctx, bob, rex.ID)
	assertKind(t, err, apperror.KindPermissionDenied)

	_, err = f.svc.Dogs.Update(f.ctx, bob, rex.ID, DogInput{Name: "Mine", Breed: "Mutt", Weight: 3})
	assertKind(t, err, apperror.KindPermissionDenied)

	err = f.svc.Dogs.Delete(f.ctx, bob, rex.ID)
	assertKind(t, err, apperror.KindPermissionDenied)

	_, err = f.svc.Dogs.Get(f.ctx, ana, "missing")
	assertKind(t, err, apperror.KindNotFound)
}

func TestDogs_ListByOwner(t *testing.T) {
	f := newFixture(t)
	ana := f.client("Ana", "ana@example.com")
	bob := f.client("Bob", "bob@example.com")
	f.dog(ana, "Rex")
	f.dog(ana, "Fido")
	f.dog(bob, "Spot")

	dogs, err := f.svc.Dogs.ListByOwner(f.ctx, ana)
	require.NoError(t, err)
	require.Len(t, dogs, 2)
	for _, d := range dogs {
		assert.Equal(t, ana.UserID, d.OwnerID)
	}

	none, err := f.svc.Dogs.ListByOwner(f.ctx, f.client("Cy", "cy@example.com"))
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestDogs_Delete(t *testing.T) {
	f := newFixture(t)
	ana := f.client("Ana", "ana@example.com")
	_, sitterID := f.sitter("Sam", "sam@example.com", 10)
	rex := f.dog(ana, "Rex")
	fido := f.dog(ana, "Fido")
	f.booking(ana, sitterID, rex)

	err := f.svc.Dogs.Delete(f.ctx, ana, rex.ID)
	assertKind(t, err, apperror.KindConflict)

	require.NoError(t, f.svc.Dogs.Delete(f.ctx, ana, fido.ID))
	_, err = f.svc.Dogs.Get(f.ctx, ana, fido.ID)
	assertKind(t, err, apperror.KindNotFound)
}
