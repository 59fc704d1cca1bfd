package sitters

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/pawmatch/pawmatch-backend/pkg/errors"
)

func setupSittersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	sittersSchema := `
CREATE TABLE IF NOT EXISTS sitters (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  service_area TEXT NOT NULL,
  introduction TEXT NOT NULL,
  price_per_hour NUMERIC NOT NULL,
  qualifications TEXT,
  experience TEXT,
  availability TEXT,
  emergency_contact TEXT,
  has_insurance INTEGER NOT NULL DEFAULT 0,
  has_first_aid INTEGER NOT NULL DEFAULT 0,
  is_approved INTEGER NOT NULL DEFAULT 0,
  is_certified INTEGER NOT NULL DEFAULT 0,
  certification_score INTEGER,
  created_at DATETIME,
  updated_at DATETIME
);`
	reviewsSchema := `
CREATE TABLE IF NOT EXISTS reviews (
  id TEXT PRIMARY KEY,
  booking_id TEXT NOT NULL UNIQUE,
  sitter_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  rating INTEGER NOT NULL,
  comment TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(sittersSchema).Error)
	require.NoError(t, db.Exec(reviewsSchema).Error)
	require.NoError(t, db.Exec("DELETE FROM sitters").Error)
	require.NoError(t, db.Exec("DELETE FROM reviews").Error)

	return db
}

func newSittersService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{SitterRepo: NewRepository(db), PassScore: 80})
	require.NoError(t, err)
	return svc
}

func TestApplyCreatesPendingProfile(t *testing.T) {
	db := setupSittersTestDB(t)
	svc := newSittersService(t, db)
	ctx := context.Background()
	userID := uuid.New()

	dto, err := svc.Apply(ctx, userID, ApplyRequest{
		ServiceArea:  "Brooklyn",
		Introduction: "Experienced dog walker",
		PricePerHour: decimal.NewFromInt(25),
		HasFirstAid:  true,
	})
	require.NoError(t, err)
	require.Equal(t, userID, dto.UserID)
	require.False(t, dto.IsApproved, "applications start unapproved")
	require.False(t, dto.IsCertified)

	_, err = svc.Apply(ctx, userID, ApplyRequest{
		ServiceArea:  "Queens",
		Introduction: "Second application",
		PricePerHour: decimal.NewFromInt(30),
	})
	requireCode(t, err, pkgerrors.CodeConflict)
}

func TestApproveAndCertify(t *testing.T) {
	db := setupSittersTestDB(t)
	svc := newSittersService(t, db)
	ctx := context.Background()

	dto, err := svc.Apply(ctx, uuid.New(), ApplyRequest{
		ServiceArea:  "Brooklyn",
		Introduction: "Sitter",
		PricePerHour: decimal.NewFromInt(20),
	})
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, dto.ID)
	require.NoError(t, err)
	require.True(t, approved.IsApproved)

	certified, err := svc.Certify(ctx, dto.ID, CertifyRequest{Score: 85})
	require.NoError(t, err)
	require.True(t, certified.IsCertified)
	require.Equal(t, 85, *certified.CertificationScore)

	failed, err := svc.Certify(ctx, dto.ID, CertifyRequest{Score: 60})
	require.NoError(t, err)
	require.False(t, failed.IsCertified, "score below threshold clears certification")

	_, err = svc.Certify(ctx, dto.ID, CertifyRequest{Score: 120})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Approve(ctx, uuid.New())
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestSearchFiltersAndPagination(t *testing.T) {
	db := setupSittersTestDB(t)
	svc := newSittersService(t, db)
	ctx := context.Background()

	cheap, err := svc.Apply(ctx, uuid.New(), ApplyRequest{
		ServiceArea:  "Brooklyn",
		Introduction: "Budget sitter",
		PricePerHour: decimal.NewFromInt(15),
	})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	pricey, err := svc.Apply(ctx, uuid.New(), ApplyRequest{
		ServiceArea:  "Brooklyn Heights",
		Introduction: "Premium sitter",
		PricePerHour: decimal.NewFromInt(60),
	})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	pending, err := svc.Apply(ctx, uuid.New(), ApplyRequest{
		ServiceArea:  "Brooklyn",
		Introduction: "Unapproved sitter",
		PricePerHour: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	for _, id := range []uuid.UUID{cheap.ID, pricey.ID} {
		_, err := svc.Approve(ctx, id)
		require.NoError(t, err)
	}

	seedReview(t, db, cheap.ID, 5)
	seedReview(t, db, cheap.ID, 4)

	page, err := svc.Search(ctx, SearchFilters{ServiceArea: "Brooklyn"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2, "pending application must stay hidden")
	for _, item := range page.Items {
		require.NotEqual(t, pending.ID, item.ID)
	}

	maxPrice := decimal.NewFromInt(20)
	page, err = svc.Search(ctx, SearchFilters{MaxPrice: &maxPrice})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, cheap.ID, page.Items[0].ID)
	require.InDelta(t, 4.5, page.Items[0].AverageRating, 0.01)
	require.Equal(t, 2, page.Items[0].ReviewCount)

	minRating := 4.0
	page, err = svc.Search(ctx, SearchFilters{MinRating: &minRating})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, cheap.ID, page.Items[0].ID)

	page, err = svc.Search(ctx, SearchFilters{Limit: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, pricey.ID, page.Items[0].ID, "newest first")
	require.NotEmpty(t, page.NextCursor)

	page, err = svc.Search(ctx, SearchFilters{Limit: 1, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, cheap.ID, page.Items[0].ID)
}

func seedReview(t *testing.T, db *gorm.DB, sitterID uuid.UUID, rating int) {
	t.Helper()
	require.NoError(t, db.Exec(
		"INSERT INTO reviews (id, booking_id, sitter_id, user_id, rating, comment, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		uuid.NewString(), uuid.NewString(), sitterID, uuid.NewString(), rating, "great", time.Now().UTC(),
	).Error)
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	require.Equal(t, code, typed.Code())
}
