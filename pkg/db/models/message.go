package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a single chat line inside a match conversation.
type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	MatchID   uuid.UUID `gorm:"column:match_id;type:uuid;not null;index:messages_match_id_idx"`
	SenderID  uuid.UUID `gorm:"column:sender_id;type:uuid;not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
