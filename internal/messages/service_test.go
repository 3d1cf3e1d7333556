package messages

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/velora-app/velora-backend/pkg/db"
	"github.com/velora-app/velora-backend/pkg/db/models"
	"github.com/velora-app/velora-backend/pkg/enums"
	pkgerrors "github.com/velora-app/velora-backend/pkg/errors"
)

func testService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	tables := []any{&models.User{}, &models.Message{}, &models.Notification{}}
	if err := conn.AutoMigrate(tables...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(ServiceParams{DB: db.NewWithDB(conn)})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, conn
}

func seedUser(t *testing.T, conn *gorm.DB, active bool) *models.User {
	t.Helper()
	user := &models.User{
		ID:            uuid.New(),
		Email:         uuid.NewString() + "@example.com",
		PasswordHash:  "hash",
		UserType:      enums.UserTypeMember,
		IsActive:      active,
		EmailVerified: true,
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestSendCreatesNotification(t *testing.T) {
	svc, conn := testService(t)
	ctx := context.Background()
	sender := seedUser(t, conn, true)
	recipient := seedUser(t, conn, true)

	msg, err := svc.Send(ctx, sender.ID, "Sam", SendRequest{
		ToUserID: recipient.ID,
		Subject:  "Hello",
		Body:     "Hi there",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.ReadAt != nil {
		t.Fatal("new message must start unread")
	}

	var notification models.Notification
	if err := conn.First(&notification, "user_id = ?", recipient.ID).Error; err != nil {
		t.Fatalf("expected recipient notification: %v", err)
	}
	if notification.Type != enums.NotificationTypeMessage || *notification.RelatedID != msg.ID {
		t.Fatalf("unexpected notification %+v", notification)
	}
}

func TestSendRejectsBadRecipients(t *testing.T) {
	svc, conn := testService(t)
	ctx := context.Background()
	sender := seedUser(t, conn, true)
	inactive := seedUser(t, conn, false)

	_, err := svc.Send(ctx, sender.ID, "Sam", SendRequest{ToUserID: sender.ID, Subject: "s", Body: "b"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for self-send, got %v", err)
	}

	_, err = svc.Send(ctx, sender.ID, "Sam", SendRequest{ToUserID: uuid.New(), Subject: "s", Body: "b"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown recipient, got %v", err)
	}

	_, err = svc.Send(ctx, sender.ID, "Sam", SendRequest{ToUserID: inactive.ID, Subject: "s", Body: "b"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for inactive recipient, got %v", err)
	}
}

func TestReplyThreadsToRoot(t *testing.T) {
	svc, conn := testService(t)
	ctx := context.Background()
	alice := seedUser(t, conn, true)
	bob := seedUser(t, conn, true)

	root, err := svc.Send(ctx, alice.ID, "Alice", SendRequest{ToUserID: bob.ID, Subject: "Plans", Body: "Friday?"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	reply, err := svc.Reply(ctx, bob.ID, "Bob", root.ID, ReplyRequest{Body: "Works for me"})
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if reply.ToUserID != alice.ID || reply.ParentID == nil || *reply.ParentID != root.ID {
		t.Fatalf("unexpected reply %+v", reply)
	}
	if reply.Subject != "Re: Plans" {
		t.Fatalf("unexpected subject %s", reply.Subject)
	}

	// Replying to a reply still hangs off the root.
	second, err := svc.Reply(ctx, alice.ID, "Alice", reply.ID, ReplyRequest{Body: "Great"})
	if err != nil {
		t.Fatalf("second reply: %v", err)
	}
	if *second.ParentID != root.ID || second.Subject != "Re: Plans" {
		t.Fatalf("unexpected second reply %+v", second)
	}

	thread, err := svc.Thread(ctx, bob.ID, reply.ID)
	if err != nil {
		t.Fatalf("thread: %v", err)
	}
	if len(thread) != 3 {
		t.Fatalf("expected 3 thread messages, got %d", len(thread))
	}

	_, err = svc.Reply(ctx, uuid.New(), "Eve", root.ID, ReplyRequest{Body: "Hi"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for outsider reply, got %v", err)
	}
}

func TestInboxPaginatesNewestFirst(t *testing.T) {
	svc, conn := testService(t)
	ctx := context.Background()
	sender := seedUser(t, conn, true)
	recipient := seedUser(t, conn, true)

	for i := 0; i < 5; i++ {
		if _, err := svc.Send(ctx, sender.ID, "Sam", SendRequest{
			ToUserID: recipient.ID, Subject: "s", Body: "b",
		}); err != nil {
			t.Fatalf("send: %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	first, err := svc.Inbox(ctx, recipient.ID, 3, "")
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if len(first.Items) != 3 || first.Cursor == "" || first.Unread != 5 {
		t.Fatalf("unexpected first page: items=%d unread=%d", len(first.Items), first.Unread)
	}
	if first.Items[0].CreatedAt.Before(first.Items[1].CreatedAt) {
		t.Fatal("expected newest first ordering")
	}

	second, err := svc.Inbox(ctx, recipient.ID, 3, first.Cursor)
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second.Items) != 2 || second.Cursor != "" {
		t.Fatalf("unexpected second page: items=%d", len(second.Items))
	}
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	svc, conn := testService(t)
	ctx := context.Background()
	sender := seedUser(t, conn, true)
	recipient := seedUser(t, conn, true)

	msg, err := svc.Send(ctx, sender.ID, "Sam", SendRequest{ToUserID: recipient.ID, Subject: "s", Body: "b"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	err = svc.MarkRead(ctx, sender.ID, msg.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for sender mark-read, got %v", err)
	}

	if err := svc.MarkRead(ctx, recipient.ID, msg.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	// Already-read is a quiet no-op for the recipient.
	if err := svc.MarkRead(ctx, recipient.ID, msg.ID); err != nil {
		t.Fatalf("repeat mark read: %v", err)
	}
}

func TestDeleteScopedToParticipants(t *testing.T) {
	svc, conn := testService(t)
	ctx := context.Background()
	sender := seedUser(t, conn, true)
	recipient := seedUser(t, conn, true)

	msg, err := svc.Send(ctx, sender.ID, "Sam", SendRequest{ToUserID: recipient.ID, Subject: "s", Body: "b"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	err = svc.Delete(ctx, uuid.New(), msg.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for outsider delete, got %v", err)
	}
	if err := svc.Delete(ctx, recipient.ID, msg.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}
