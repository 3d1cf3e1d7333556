package messages

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velora-app/velora-backend/pkg/db/models"
	"github.com/velora-app/velora-backend/pkg/pagination"
)

// Repository exposes persistence helpers for messages.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, msg *models.Message) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Message, error)
	Inbox(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Message, *pagination.Cursor, error)
	Thread(ctx context.Context, rootID uuid.UUID) ([]models.Message, error)
	MarkRead(ctx context.Context, id, recipientID uuid.UUID, now time.Time) (bool, error)
	Delete(ctx context.Context, id, participantID uuid.UUID) (bool, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a messages repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, msg *models.Message) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	var msg models.Message
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *repositoryImpl) Inbox(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Message, *pagination.Cursor, error) {
	buffered := pagination.LimitWithBuffer(limit)
	normalized := pagination.NormalizeLimit(limit)
	query := r.db.WithContext(ctx).Model(&models.Message{}).Where("to_user_id = ?", userID)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Message
	if err := query.Order("created_at DESC, id DESC").Limit(buffered).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	if len(rows) > normalized {
		next := rows[normalized]
		rows = rows[:normalized]
		return rows, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return rows, nil, nil
}

// Thread returns a root message and all replies linked to it, oldest first.
func (r *repositoryImpl) Thread(ctx context.Context, rootID uuid.UUID) ([]models.Message, error) {
	var rows []models.Message
	err := r.db.WithContext(ctx).
		Where("id = ? OR parent_id = ?", rootID, rootID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

// MarkRead flips read_at for the recipient only. Repeated calls and
// calls by non-recipients match no row.
func (r *repositoryImpl) MarkRead(ctx context.Context, id, recipientID uuid.UUID, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("id = ? AND to_user_id = ? AND read_at IS NULL", id, recipientID).
		UpdateColumn("read_at", now)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) Delete(ctx context.Context, id, participantID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND (to_user_id = ? OR from_user_id = ?)", id, participantID, participantID).
		Delete(&models.Message{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("to_user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}
