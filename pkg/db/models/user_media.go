package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/velora-app/velora-backend/pkg/enums"
)

// UserMedia records an asset uploaded to the external media host. PublicID
// is the host-side identifier used when proxying deletes.
type UserMedia struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserID     uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	Kind       enums.MediaKind `gorm:"column:kind;type:text;not null"`
	URL        string          `gorm:"column:url;not null"`
	PublicID   string          `gorm:"column:public_id;not null;uniqueIndex"`
	Width      int             `gorm:"column:width;not null;default:0"`
	Height     int             `gorm:"column:height;not null;default:0"`
	Format     string          `gorm:"column:format;not null;default:''"`
	UploadedAt time.Time       `gorm:"column:uploaded_at;autoCreateTime"`
}
