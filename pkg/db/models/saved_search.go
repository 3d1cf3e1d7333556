package models

import (
	"time"

	"github.com/google/uuid"
)

// SavedSearch is a persisted profile search a member can re-run later.
type SavedSearch struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Name         string    `gorm:"column:name;not null"`
	QueryString  string    `gorm:"column:query_string;not null"`
	ResultsCount int       `gorm:"column:results_count;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
