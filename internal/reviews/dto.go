package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawmatch/pawmatch-backend/pkg/db/models"
)

// ReviewDTO is the API-facing shape of a review.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	BookingID uuid.UUID `json:"booking_id"`
	SitterID  uuid.UUID `json:"sitter_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateReviewRequest is the payload for reviewing a completed booking.
type CreateReviewRequest struct {
	BookingID uuid.UUID `json:"booking_id" validate:"required"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment"`
}

// ListParams paginates a sitter's reviews.
type ListParams struct {
	Limit  int    `json:"limit,omitempty"`
	Cursor string `json:"cursor,omitempty"`
}

// ListResult is one page of reviews.
type ListResult struct {
	Items  []ReviewDTO `json:"items"`
	Cursor string      `json:"cursor"`
}

// FromModel maps a review row into its DTO.
func FromModel(review *models.Review) *ReviewDTO {
	if review == nil {
		return nil
	}
	return &ReviewDTO{
		ID:        review.ID,
		BookingID: review.BookingID,
		SitterID:  review.SitterID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
}

// FromModels maps review rows into DTOs preserving order.
func FromModels(rows []models.Review) []ReviewDTO {
	out := make([]ReviewDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
