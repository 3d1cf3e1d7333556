package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velora-app/velora-backend/pkg/enums"
)

// Transaction is a ledger entry on a user's balance. Rows are written by
// back-office tooling; the API only reads them.
type Transaction struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	UserID      uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	Type        enums.TransactionType `gorm:"column:type;type:text;not null"`
	Amount      decimal.Decimal       `gorm:"column:amount;type:numeric(12,2);not null"`
	Currency    string                `gorm:"column:currency;not null;default:EUR"`
	Description string                `gorm:"column:description;not null"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
}

// Invoice mirrors a billing document issued to a user.
type Invoice struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Number    string              `gorm:"column:number;not null;uniqueIndex"`
	Amount    decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Currency  string              `gorm:"column:currency;not null;default:EUR"`
	Status    enums.InvoiceStatus `gorm:"column:status;type:text;not null"`
	IssuedAt  time.Time           `gorm:"column:issued_at;not null"`
	DueAt     *time.Time          `gorm:"column:due_at"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
}
