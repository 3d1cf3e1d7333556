package email

import (
	"context"
	"strings"
	"testing"

	"github.com/resend/resend-go/v2"

	"github.com/velora-app/velora-backend/pkg/config"
)

type capturingSender struct {
	requests []*resend.SendEmailRequest
	err      error
}

func (c *capturingSender) SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.requests = append(c.requests, params)
	return &resend.SendEmailResponse{Id: "email-id"}, nil
}

func testMailer(s sender) *Mailer {
	return &Mailer{
		sender:  s,
		from:    "Velora <no-reply@velora.app>",
		appName: "Velora",
		baseURL: "https://velora.app",
	}
}

func TestSendVerificationEmail(t *testing.T) {
	capture := &capturingSender{}
	m := testMailer(capture)

	if err := m.SendVerificationEmail(context.Background(), "user@example.com", "Ava", "tok-123"); err != nil {
		t.Fatalf("send: %v", err)
	}

	if len(capture.requests) != 1 {
		t.Fatalf("expected one request, got %d", len(capture.requests))
	}
	req := capture.requests[0]
	if req.To[0] != "user@example.com" {
		t.Fatalf("unexpected recipient %v", req.To)
	}
	if !strings.Contains(req.Text, "https://velora.app/auth/verify-email?token=tok-123") {
		t.Fatalf("body missing verify link: %s", req.Text)
	}
	if !strings.Contains(req.Text, "Ava") {
		t.Fatal("body missing display name")
	}
}

func TestSendPasswordResetEmailCarriesRawToken(t *testing.T) {
	capture := &capturingSender{}
	m := testMailer(capture)

	if err := m.SendPasswordResetEmail(context.Background(), "user@example.com", "Ava", "raw-token"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(capture.requests[0].Text, "reset-password?token=raw-token") {
		t.Fatalf("body missing reset link: %s", capture.requests[0].Text)
	}
}

func TestDevModeSkipsDelivery(t *testing.T) {
	m := NewMailer(config.EmailConfig{AppName: "Velora", AppBaseURL: "https://velora.app"}, nil)

	if err := m.SendWelcomeEmail(context.Background(), "user@example.com", "Ava"); err != nil {
		t.Fatalf("dev mode send: %v", err)
	}
}
