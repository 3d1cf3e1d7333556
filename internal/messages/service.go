package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velora-app/velora-backend/internal/notifications"
	"github.com/velora-app/velora-backend/internal/users"
	"github.com/velora-app/velora-backend/pkg/db"
	"github.com/velora-app/velora-backend/pkg/db/models"
	"github.com/velora-app/velora-backend/pkg/enums"
	pkgerrors "github.com/velora-app/velora-backend/pkg/errors"
	"github.com/velora-app/velora-backend/pkg/pagination"
)

// Service defines user-to-user messaging operations.
type Service interface {
	Send(ctx context.Context, fromID uuid.UUID, fromName string, req SendRequest) (*MessageDTO, error)
	Reply(ctx context.Context, fromID uuid.UUID, fromName string, parentID uuid.UUID, req ReplyRequest) (*MessageDTO, error)
	Inbox(ctx context.Context, userID uuid.UUID, limit int, cursor string) (*InboxResult, error)
	Thread(ctx context.Context, userID, messageID uuid.UUID) ([]MessageDTO, error)
	MarkRead(ctx context.Context, userID, messageID uuid.UUID) error
	Delete(ctx context.Context, userID, messageID uuid.UUID) error
}

// InboxResult is one page of received messages plus the next cursor.
type InboxResult struct {
	Items  []MessageDTO `json:"items"`
	Cursor string       `json:"cursor"`
	Unread int64        `json:"unread"`
}

type service struct {
	db *db.Client
}

// ServiceParams bundles the dependencies for the messages service.
type ServiceParams struct {
	DB *db.Client
}

// NewService wires the messages service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &service{db: params.DB}, nil
}

func (s *service) Send(ctx context.Context, fromID uuid.UUID, fromName string, req SendRequest) (*MessageDTO, error) {
	if req.ToUserID == fromID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "you cannot message yourself")
	}
	msg := &models.Message{
		ID:         uuid.New(),
		FromUserID: fromID,
		FromName:   fromName,
		ToUserID:   req.ToUserID,
		Subject:    req.Subject,
		Body:       req.Body,
	}
	if err := s.deliver(ctx, msg); err != nil {
		return nil, err
	}
	return FromModel(msg), nil
}

func (s *service) Reply(ctx context.Context, fromID uuid.UUID, fromName string, parentID uuid.UUID, req ReplyRequest) (*MessageDTO, error) {
	parent, err := NewRepository(s.db.DB()).FindByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "message not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load message")
	}
	if parent.FromUserID != fromID && parent.ToUserID != fromID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "message not found")
	}

	recipient := parent.FromUserID
	if recipient == fromID {
		recipient = parent.ToUserID
	}

	// Replies always hang off the thread root.
	rootID := parent.ID
	if parent.ParentID != nil {
		rootID = *parent.ParentID
	}

	subject := parent.Subject
	if !strings.HasPrefix(subject, "Re: ") {
		subject = "Re: " + subject
	}

	msg := &models.Message{
		ID:         uuid.New(),
		FromUserID: fromID,
		FromName:   fromName,
		ToUserID:   recipient,
		Subject:    subject,
		Body:       req.Body,
		ParentID:   &rootID,
	}
	if err := s.deliver(ctx, msg); err != nil {
		return nil, err
	}
	return FromModel(msg), nil
}

// deliver writes the message and the recipient's in-app notification in
// one transaction.
func (s *service) deliver(ctx context.Context, msg *models.Message) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		recipient, err := users.NewRepository(tx).FindByID(ctx, msg.ToUserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "recipient not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recipient")
		}
		if !recipient.IsActive {
			return pkgerrors.New(pkgerrors.CodeNotFound, "recipient not found")
		}

		if err := NewRepository(tx).Create(ctx, msg); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create message")
		}

		notification := &models.Notification{
			UserID:    msg.ToUserID,
			Type:      enums.NotificationTypeMessage,
			Title:     "New message",
			Message:   fmt.Sprintf("%s sent you a message: %s", msg.FromName, msg.Subject),
			RelatedID: &msg.ID,
		}
		if err := notifications.NewRepository(tx).Create(ctx, notification); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "notify recipient")
		}
		return nil
	})
}

func (s *service) Inbox(ctx context.Context, userID uuid.UUID, limit int, cursor string) (*InboxResult, error) {
	repo := NewRepository(s.db.DB())

	var parsed *pagination.Cursor
	if cursor != "" {
		c, err := pagination.ParseCursor(cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		parsed = c
	}

	rows, next, err := repo.Inbox(ctx, userID, limit, parsed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inbox")
	}
	unread, err := repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread")
	}

	items := make([]MessageDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	result := &InboxResult{Items: items, Unread: unread}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func (s *service) Thread(ctx context.Context, userID, messageID uuid.UUID) ([]MessageDTO, error) {
	repo := NewRepository(s.db.DB())
	root, err := repo.FindByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "message not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load message")
	}
	if root.FromUserID != userID && root.ToUserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "message not found")
	}

	rootID := root.ID
	if root.ParentID != nil {
		rootID = *root.ParentID
	}
	rows, err := repo.Thread(ctx, rootID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load thread")
	}

	items := make([]MessageDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return items, nil
}

func (s *service) MarkRead(ctx context.Context, userID, messageID uuid.UUID) error {
	repo := NewRepository(s.db.DB())
	updated, err := repo.MarkRead(ctx, messageID, userID, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark message read")
	}
	if updated {
		return nil
	}

	// Distinguish "already read by me" from "not my message".
	msg, err := repo.FindByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "message not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load message")
	}
	if msg.ToUserID != userID {
		return pkgerrors.New(pkgerrors.CodeNotFound, "message not found")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, userID, messageID uuid.UUID) error {
	deleted, err := NewRepository(s.db.DB()).Delete(ctx, messageID, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete message")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "message not found")
	}
	return nil
}
