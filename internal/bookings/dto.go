package bookings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawmatch/pawmatch-backend/pkg/db/models"
	"github.com/pawmatch/pawmatch-backend/pkg/enums"
)

// BookingDTO is the API-facing shape of a booking.
type BookingDTO struct {
	ID         uuid.UUID           `json:"id"`
	OwnerID    uuid.UUID           `json:"owner_id"`
	SitterID   uuid.UUID           `json:"sitter_id"`
	PetID      uuid.UUID           `json:"pet_id"`
	StartTime  time.Time           `json:"start_time"`
	EndTime    time.Time           `json:"end_time"`
	TotalHours decimal.Decimal     `json:"total_hours"`
	TotalPrice decimal.Decimal     `json:"total_price"`
	Status     enums.BookingStatus `json:"status"`
	Notes      *string             `json:"notes,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// CreateBookingRequest is the payload for requesting a booking.
type CreateBookingRequest struct {
	SitterID  uuid.UUID `json:"sitter_id" validate:"required"`
	PetID     uuid.UUID `json:"pet_id" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
	Notes     *string   `json:"notes,omitempty"`
}

// UpdateStatusRequest advances the booking state machine.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ServiceUpdateDTO is a sitter progress note on an active booking.
type ServiceUpdateDTO struct {
	ID        uuid.UUID `json:"id"`
	BookingID uuid.UUID `json:"booking_id"`
	SitterID  uuid.UUID `json:"sitter_id"`
	Message   string    `json:"message"`
	ImageURL  *string   `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AddServiceUpdateRequest is the payload for posting a progress note.
type AddServiceUpdateRequest struct {
	Message  string  `json:"message" validate:"required"`
	ImageURL *string `json:"image_url,omitempty"`
}

// ListParams filters and paginates a booking listing.
type ListParams struct {
	Status string `json:"status,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Cursor string `json:"cursor,omitempty"`
}

// ListResult is one page of bookings.
type ListResult struct {
	Items  []BookingDTO `json:"items"`
	Cursor string       `json:"cursor"`
}

// FromModel maps a booking row into its DTO.
func FromModel(booking *models.Booking) *BookingDTO {
	if booking == nil {
		return nil
	}
	return &BookingDTO{
		ID:         booking.ID,
		OwnerID:    booking.OwnerID,
		SitterID:   booking.SitterID,
		PetID:      booking.PetID,
		StartTime:  booking.StartTime,
		EndTime:    booking.EndTime,
		TotalHours: booking.TotalHours,
		TotalPrice: booking.TotalPrice,
		Status:     booking.Status,
		Notes:      booking.Notes,
		CreatedAt:  booking.CreatedAt,
		UpdatedAt:  booking.UpdatedAt,
	}
}

// FromModels maps booking rows into DTOs preserving order.
func FromModels(rows []models.Booking) []BookingDTO {
	out := make([]BookingDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func serviceUpdateFromModel(update *models.ServiceUpdate) *ServiceUpdateDTO {
	if update == nil {
		return nil
	}
	return &ServiceUpdateDTO{
		ID:        update.ID,
		BookingID: update.BookingID,
		SitterID:  update.SitterID,
		Message:   update.Message,
		ImageURL:  update.ImageURL,
		CreatedAt: update.CreatedAt,
	}
}
