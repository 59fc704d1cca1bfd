package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawmatch/pawmatch-backend/pkg/db/models"
)

// MessageDTO is the API-facing shape of a chat message.
type MessageDTO struct {
	ID        uuid.UUID `json:"id"`
	MatchID   uuid.UUID `json:"match_id"`
	SenderID  uuid.UUID `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SendMessageRequest is the payload for posting a message to a match.
type SendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// Event is the wire envelope delivered over the live channel.
type Event struct {
	Type    string     `json:"type"`
	Message MessageDTO `json:"message"`
}

// EventTypeMessage marks a committed message insert.
const EventTypeMessage = "message"

// FromModel maps a message row into its DTO.
func FromModel(message *models.Message) *MessageDTO {
	if message == nil {
		return nil
	}
	return &MessageDTO{
		ID:        message.ID,
		MatchID:   message.MatchID,
		SenderID:  message.SenderID,
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
	}
}

// FromModels maps message rows into DTOs preserving order.
func FromModels(rows []models.Message) []MessageDTO {
	out := make([]MessageDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
