package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a private message between two users. ParentID links replies
// into a thread.
type Message struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	FromUserID uuid.UUID  `gorm:"column:from_user_id;type:uuid;not null"`
	FromName   string     `gorm:"column:from_name;not null"`
	ToUserID   uuid.UUID  `gorm:"column:to_user_id;type:uuid;not null;index"`
	Subject    string     `gorm:"column:subject;not null"`
	Body       string     `gorm:"column:body;not null"`
	ParentID   *uuid.UUID `gorm:"column:parent_id;type:uuid"`
	ReadAt     *time.Time `gorm:"column:read_at"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}
