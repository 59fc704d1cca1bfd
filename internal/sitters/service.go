package sitters

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmatch/pawmatch-backend/pkg/db/models"
	pkgerrors "github.com/pawmatch/pawmatch-backend/pkg/errors"
)

// Service exposes business rules for the sitter directory.
type Service interface {
	Apply(ctx context.Context, userID uuid.UUID, req ApplyRequest) (*SitterDTO, error)
	Get(ctx context.Context, sitterID uuid.UUID) (*SitterDTO, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*SitterDTO, error)
	Search(ctx context.Context, filters SearchFilters) (SearchPage, error)
	Approve(ctx context.Context, sitterID uuid.UUID) (*SitterDTO, error)
	Certify(ctx context.Context, sitterID uuid.UUID, req CertifyRequest) (*SitterDTO, error)
}

// ServiceParams groups dependencies for the sitters service.
type ServiceParams struct {
	SitterRepo *Repository
	PassScore  int
}

type service struct {
	sitters   *Repository
	passScore int
}

// NewService builds a sitters service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.SitterRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sitter repo is required")
	}
	passScore := params.PassScore
	if passScore <= 0 || passScore > 100 {
		passScore = 80
	}
	return &service{sitters: params.SitterRepo, passScore: passScore}, nil
}

func (s *service) Apply(ctx context.Context, userID uuid.UUID, req ApplyRequest) (*SitterDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	if strings.TrimSpace(req.ServiceArea) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service area is required")
	}
	if strings.TrimSpace(req.Introduction) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "introduction is required")
	}
	if req.PricePerHour.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price per hour cannot be negative")
	}

	if _, err := s.sitters.FindByUserID(ctx, userID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "sitter profile already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing profile")
	}

	sitter, err := s.sitters.Create(ctx, &models.Sitter{
		UserID:           userID,
		ServiceArea:      strings.TrimSpace(req.ServiceArea),
		Introduction:     strings.TrimSpace(req.Introduction),
		PricePerHour:     req.PricePerHour,
		Qualifications:   req.Qualifications,
		Experience:       req.Experience,
		Availability:     req.Availability,
		EmergencyContact: req.EmergencyContact,
		HasInsurance:     req.HasInsurance,
		HasFirstAid:      req.HasFirstAid,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create sitter profile")
	}
	return FromModel(sitter), nil
}

func (s *service) Get(ctx context.Context, sitterID uuid.UUID) (*SitterDTO, error) {
	sitter, err := s.loadSitter(ctx, sitterID)
	if err != nil {
		return nil, err
	}
	return FromModel(sitter), nil
}

func (s *service) GetByUser(ctx context.Context, userID uuid.UUID) (*SitterDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	sitter, err := s.sitters.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sitter profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sitter profile")
	}
	return FromModel(sitter), nil
}

func (s *service) Search(ctx context.Context, filters SearchFilters) (SearchPage, error) {
	if filters.MinRating != nil && (*filters.MinRating < 0 || *filters.MinRating > 5) {
		return SearchPage{}, pkgerrors.New(pkgerrors.CodeValidation, "min rating must be between 0 and 5")
	}
	page, err := s.sitters.Search(ctx, filters)
	if err != nil {
		return SearchPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search sitters")
	}
	return page, nil
}

// Approve marks a pending application as visible in the directory.
func (s *service) Approve(ctx context.Context, sitterID uuid.UUID) (*SitterDTO, error) {
	sitter, err := s.loadSitter(ctx, sitterID)
	if err != nil {
		return nil, err
	}
	if sitter.IsApproved {
		return FromModel(sitter), nil
	}
	if err := s.sitters.SetApproved(ctx, sitter.ID, true); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve sitter")
	}
	sitter.IsApproved = true
	return FromModel(sitter), nil
}

// Certify records an exam score; the certified flag follows the pass threshold.
func (s *service) Certify(ctx context.Context, sitterID uuid.UUID, req CertifyRequest) (*SitterDTO, error) {
	if req.Score < 0 || req.Score > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "score must be between 0 and 100")
	}
	sitter, err := s.loadSitter(ctx, sitterID)
	if err != nil {
		return nil, err
	}
	certified := req.Score >= s.passScore
	if err := s.sitters.SetCertification(ctx, sitter.ID, req.Score, certified); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record certification")
	}
	score := req.Score
	sitter.CertificationScore = &score
	sitter.IsCertified = certified
	return FromModel(sitter), nil
}

func (s *service) loadSitter(ctx context.Context, sitterID uuid.UUID) (*models.Sitter, error) {
	if sitterID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sitter id is required")
	}
	sitter, err := s.sitters.FindByID(ctx, sitterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sitter not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sitter")
	}
	return sitter, nil
}
