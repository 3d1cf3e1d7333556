package messages

import (
	"time"

	"github.com/google/uuid"

	"github.com/velora-app/velora-backend/pkg/db/models"
)

// MessageDTO is the transport shape for a private message.
type MessageDTO struct {
	ID         uuid.UUID  `json:"id"`
	FromUserID uuid.UUID  `json:"from_user_id"`
	FromName   string     `json:"from_name"`
	ToUserID   uuid.UUID  `json:"to_user_id"`
	Subject    string     `json:"subject"`
	Body       string     `json:"body"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func FromModel(msg *models.Message) *MessageDTO {
	if msg == nil {
		return nil
	}
	return &MessageDTO{
		ID:         msg.ID,
		FromUserID: msg.FromUserID,
		FromName:   msg.FromName,
		ToUserID:   msg.ToUserID,
		Subject:    msg.Subject,
		Body:       msg.Body,
		ParentID:   msg.ParentID,
		ReadAt:     msg.ReadAt,
		CreatedAt:  msg.CreatedAt,
	}
}

// SendRequest is the payload for a new conversation.
type SendRequest struct {
	ToUserID uuid.UUID `json:"to_user_id" validate:"required"`
	Subject  string    `json:"subject" validate:"required,min=1,max=200"`
	Body     string    `json:"body" validate:"required,min=1,max=10000"`
}

// ReplyRequest continues an existing thread.
type ReplyRequest struct {
	Body string `json:"body" validate:"required,min=1,max=10000"`
}
