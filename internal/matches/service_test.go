package matches

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pawmatch/pawmatch-backend/internal/pets"
	"github.com/pawmatch/pawmatch-backend/pkg/db/models"
	pkgerrors "github.com/pawmatch/pawmatch-backend/pkg/errors"
)

func setupMatchesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schemas := []string{
		`CREATE TABLE IF NOT EXISTS pets (
  id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL,
  name TEXT NOT NULL,
  species TEXT NOT NULL,
  breed TEXT,
  birth_date DATETIME,
  gender TEXT,
  avatar_url TEXT,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS matches (
  id TEXT PRIMARY KEY,
  pet1_id TEXT NOT NULL,
  pet2_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (pet1_id, pet2_id)
);`,
	}
	for _, schema := range schemas {
		require.NoError(t, db.Exec(schema).Error)
	}
	require.NoError(t, db.Exec("DELETE FROM pets").Error)
	require.NoError(t, db.Exec("DELETE FROM matches").Error)

	return db
}

func newMatchesService(t *testing.T, db *gorm.DB) (Service, *Repository, *pets.Repository) {
	t.Helper()
	matchRepo := NewRepository(db)
	petRepo := pets.NewRepository(db)
	svc, err := NewService(ServiceParams{MatchRepo: matchRepo, PetRepo: petRepo})
	require.NoError(t, err)
	return svc, matchRepo, petRepo
}

func seedMatchPet(t *testing.T, repo *pets.Repository, ownerID uuid.UUID, name string) *models.Pet {
	t.Helper()
	pet, err := repo.Create(context.Background(), &models.Pet{
		OwnerID: ownerID,
		Name:    name,
		Species: "dog",
	})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	return pet
}

func TestListResolvesBothSides(t *testing.T) {
	db := setupMatchesTestDB(t)
	svc, matchRepo, petRepo := newMatchesService(t, db)
	ctx := context.Background()
	userA := uuid.New()
	userB := uuid.New()

	mochi := seedMatchPet(t, petRepo, userA, "Mochi")
	biscuit := seedMatchPet(t, petRepo, userB, "Biscuit")

	_, err := matchRepo.Create(ctx, biscuit.ID, mochi.ID)
	require.NoError(t, err)

	result, err := svc.List(ctx, userA)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.Equal(t, []uuid.UUID{mochi.ID}, result.PetIDs)
	require.Equal(t, "Mochi", result.Items[0].Mine.Name)
	require.Equal(t, "Biscuit", result.Items[0].Other.Name)

	// the same match seen from the other side flips mine/other
	mirrored, err := svc.List(ctx, userB)
	require.NoError(t, err)
	require.Len(t, mirrored.Items, 1)
	require.Equal(t, "Biscuit", mirrored.Items[0].Mine.Name)
	require.Equal(t, "Mochi", mirrored.Items[0].Other.Name)
}

func TestListWithoutPetsReturnsEmpty(t *testing.T) {
	db := setupMatchesTestDB(t)
	svc, _, _ := newMatchesService(t, db)

	result, err := svc.List(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Empty(t, result.Items)
	require.Empty(t, result.PetIDs)
}

func TestListDropsMatchesWithMissingPets(t *testing.T) {
	db := setupMatchesTestDB(t)
	svc, matchRepo, petRepo := newMatchesService(t, db)
	ctx := context.Background()
	userA := uuid.New()

	mochi := seedMatchPet(t, petRepo, userA, "Mochi")
	_, err := matchRepo.Create(ctx, mochi.ID, uuid.New())
	require.NoError(t, err)

	result, err := svc.List(ctx, userA)
	require.NoError(t, err)
	require.Empty(t, result.Items)
}

func TestForUserChecksMembership(t *testing.T) {
	db := setupMatchesTestDB(t)
	svc, matchRepo, petRepo := newMatchesService(t, db)
	ctx := context.Background()
	userA := uuid.New()
	userB := uuid.New()

	mochi := seedMatchPet(t, petRepo, userA, "Mochi")
	biscuit := seedMatchPet(t, petRepo, userB, "Biscuit")
	match, err := matchRepo.Create(ctx, mochi.ID, biscuit.ID)
	require.NoError(t, err)

	dto, err := svc.ForUser(ctx, userA, match.ID)
	require.NoError(t, err)
	require.Equal(t, "Mochi", dto.Mine.Name)
	require.Equal(t, "Biscuit", dto.Other.Name)

	_, err = svc.ForUser(ctx, uuid.New(), match.ID)
	requireMatchCode(t, err, pkgerrors.CodeForbidden)

	_, err = svc.ForUser(ctx, userA, uuid.New())
	requireMatchCode(t, err, pkgerrors.CodeNotFound)
}

func requireMatchCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	require.Equal(t, code, typed.Code())
}
