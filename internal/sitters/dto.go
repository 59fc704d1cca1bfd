package sitters

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawmatch/pawmatch-backend/pkg/db/models"
)

// SitterDTO is the transport shape for a sitter profile.
type SitterDTO struct {
	ID                 uuid.UUID       `json:"id"`
	UserID             uuid.UUID       `json:"user_id"`
	ServiceArea        string          `json:"service_area"`
	Introduction       string          `json:"introduction"`
	PricePerHour       decimal.Decimal `json:"price_per_hour"`
	Qualifications     *string         `json:"qualifications,omitempty"`
	Experience         *string         `json:"experience,omitempty"`
	Availability       *string         `json:"availability,omitempty"`
	EmergencyContact   *string         `json:"emergency_contact,omitempty"`
	HasInsurance       bool            `json:"has_insurance"`
	HasFirstAid        bool            `json:"has_first_aid"`
	IsApproved         bool            `json:"is_approved"`
	IsCertified        bool            `json:"is_certified"`
	CertificationScore *int            `json:"certification_score,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// SitterSearchResult decorates a sitter profile with review aggregates.
type SitterSearchResult struct {
	SitterDTO
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

// ApplyRequest is the payload for a sitter application.
type ApplyRequest struct {
	ServiceArea      string          `json:"service_area" validate:"required"`
	Introduction     string          `json:"introduction" validate:"required"`
	PricePerHour     decimal.Decimal `json:"price_per_hour" validate:"required"`
	Qualifications   *string         `json:"qualifications,omitempty"`
	Experience       *string         `json:"experience,omitempty"`
	Availability     *string         `json:"availability,omitempty"`
	EmergencyContact *string         `json:"emergency_contact,omitempty"`
	HasInsurance     bool            `json:"has_insurance"`
	HasFirstAid      bool            `json:"has_first_aid"`
}

// SearchFilters narrows the sitter directory listing.
type SearchFilters struct {
	ServiceArea string
	MaxPrice    *decimal.Decimal
	MinRating   *float64
	Limit       int
	Cursor      string
}

// SearchPage is a cursor-paginated sitter directory slice.
type SearchPage struct {
	Items      []SitterSearchResult `json:"items"`
	NextCursor string               `json:"next_cursor,omitempty"`
}

// CertifyRequest records a certification exam score for a sitter.
type CertifyRequest struct {
	Score int `json:"score" validate:"min=0,max=100"`
}

func FromModel(s *models.Sitter) *SitterDTO {
	if s == nil {
		return nil
	}
	return &SitterDTO{
		ID:                 s.ID,
		UserID:             s.UserID,
		ServiceArea:        s.ServiceArea,
		Introduction:       s.Introduction,
		PricePerHour:       s.PricePerHour,
		Qualifications:     s.Qualifications,
		Experience:         s.Experience,
		Availability:       s.Availability,
		EmergencyContact:   s.EmergencyContact,
		HasInsurance:       s.HasInsurance,
		HasFirstAid:        s.HasFirstAid,
		IsApproved:         s.IsApproved,
		IsCertified:        s.IsCertified,
		CertificationScore: s.CertificationScore,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}
