package sitters

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pawmatch/pawmatch-backend/pkg/db/models"
	"github.com/pawmatch/pawmatch-backend/pkg/pagination"
)

// Repository encapsulates sitter persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a sitters repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a sitter profile and returns the persisted model.
func (r *Repository) Create(ctx context.Context, sitter *models.Sitter) (*models.Sitter, error) {
	if err := r.db.WithContext(ctx).Create(sitter).Error; err != nil {
		return nil, err
	}
	return sitter, nil
}

// FindByID loads a sitter by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Sitter, error) {
	var sitter models.Sitter
	if err := r.db.WithContext(ctx).First(&sitter, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sitter, nil
}

// FindByUserID loads the sitter profile attached to a user.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Sitter, error) {
	var sitter models.Sitter
	if err := r.db.WithContext(ctx).First(&sitter, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &sitter, nil
}

// SetApproved flips the approval flag on a sitter profile.
func (r *Repository) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Sitter{}).
		Where("id = ?", id).
		UpdateColumn("is_approved", approved).Error
}

// SetCertification records the exam score and the resulting certified flag.
func (r *Repository) SetCertification(ctx context.Context, id uuid.UUID, score int, certified bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Sitter{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"certification_score": score,
			"is_certified":        certified,
		}).Error
}

type sitterSearchRecord struct {
	ID                 uuid.UUID       `gorm:"column:id"`
	UserID             uuid.UUID       `gorm:"column:user_id"`
	ServiceArea        string          `gorm:"column:service_area"`
	Introduction       string          `gorm:"column:introduction"`
	PricePerHour       decimal.Decimal `gorm:"column:price_per_hour"`
	Qualifications     *string         `gorm:"column:qualifications"`
	Experience         *string         `gorm:"column:experience"`
	Availability       *string         `gorm:"column:availability"`
	EmergencyContact   *string         `gorm:"column:emergency_contact"`
	HasInsurance       bool            `gorm:"column:has_insurance"`
	HasFirstAid        bool            `gorm:"column:has_first_aid"`
	IsApproved         bool            `gorm:"column:is_approved"`
	IsCertified        bool            `gorm:"column:is_certified"`
	CertificationScore *int            `gorm:"column:certification_score"`
	CreatedAt          time.Time       `gorm:"column:created_at"`
	UpdatedAt          time.Time       `gorm:"column:updated_at"`
	AverageRating      float64         `gorm:"column:average_rating"`
	ReviewCount        int             `gorm:"column:review_count"`
}

func (rec sitterSearchRecord) toResult() SitterSearchResult {
	return SitterSearchResult{
		SitterDTO: SitterDTO{
			ID:                 rec.ID,
			UserID:             rec.UserID,
			ServiceArea:        rec.ServiceArea,
			Introduction:       rec.Introduction,
			PricePerHour:       rec.PricePerHour,
			Qualifications:     rec.Qualifications,
			Experience:         rec.Experience,
			Availability:       rec.Availability,
			EmergencyContact:   rec.EmergencyContact,
			HasInsurance:       rec.HasInsurance,
			HasFirstAid:        rec.HasFirstAid,
			IsApproved:         rec.IsApproved,
			IsCertified:        rec.IsCertified,
			CertificationScore: rec.CertificationScore,
			CreatedAt:          rec.CreatedAt,
			UpdatedAt:          rec.UpdatedAt,
		},
		AverageRating: rec.AverageRating,
		ReviewCount:   rec.ReviewCount,
	}
}

// Search lists approved sitters matching the filters, newest first.
func (r *Repository) Search(ctx context.Context, filters SearchFilters) (SearchPage, error) {
	normalizedLimit := pagination.NormalizeLimit(filters.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(filters.Limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(filters.Cursor))
	if err != nil {
		return SearchPage{}, err
	}

	query := r.db.WithContext(ctx).
		Table("sitters s").
		Select(strings.Join([]string{
			"s.id", "s.user_id", "s.service_area", "s.introduction", "s.price_per_hour",
			"s.qualifications", "s.experience", "s.availability", "s.emergency_contact",
			"s.has_insurance", "s.has_first_aid", "s.is_approved", "s.is_certified",
			"s.certification_score", "s.created_at", "s.updated_at",
			"COALESCE(AVG(r.rating), 0) AS average_rating",
			"COUNT(r.id) AS review_count",
		}, ", ")).
		Joins("LEFT JOIN reviews r ON r.sitter_id = s.id").
		Where("s.is_approved = ?", true).
		Group("s.id")

	if area := strings.TrimSpace(filters.ServiceArea); area != "" {
		query = query.Where("s.service_area LIKE ?", "%"+area+"%")
	}
	if filters.MaxPrice != nil {
		query = query.Where("s.price_per_hour <= ?", *filters.MaxPrice)
	}
	if filters.MinRating != nil {
		query = query.Having("COALESCE(AVG(r.rating), 0) >= ?", *filters.MinRating)
	}
	if decodedCursor != nil {
		query = query.Where("(s.created_at < ?) OR (s.created_at = ? AND s.id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	query = query.Order("s.created_at DESC").Order("s.id DESC").Limit(limitWithBuffer)

	var records []sitterSearchRecord
	if err := query.Scan(&records).Error; err != nil {
		return SearchPage{}, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > normalizedLimit {
		resultRows = records[:normalizedLimit]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	items := make([]SitterSearchResult, 0, len(resultRows))
	for _, rec := range resultRows {
		items = append(items, rec.toResult())
	}

	return SearchPage{Items: items, NextCursor: nextCursor}, nil
}
