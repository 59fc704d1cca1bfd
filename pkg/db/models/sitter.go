package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sitter holds a user's sitter application and certification state.
type Sitter struct {
	ID                 uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID             uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex:sitters_user_id_key"`
	ServiceArea        string          `gorm:"column:service_area;type:text;not null"`
	Introduction       string          `gorm:"type:text;not null"`
	PricePerHour       decimal.Decimal `gorm:"column:price_per_hour;type:numeric(10,2);not null"`
	Qualifications     *string         `gorm:"type:text"`
	Experience         *string         `gorm:"type:text"`
	Availability       *string         `gorm:"type:text"`
	EmergencyContact   *string         `gorm:"column:emergency_contact;type:text"`
	HasInsurance       bool            `gorm:"column:has_insurance;not null;default:false"`
	HasFirstAid        bool            `gorm:"column:has_first_aid;not null;default:false"`
	IsApproved         bool            `gorm:"column:is_approved;not null;default:false"`
	IsCertified        bool            `gorm:"column:is_certified;not null;default:false"`
	CertificationScore *int            `gorm:"column:certification_score"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
