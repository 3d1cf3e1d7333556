package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/velora-app/velora-backend/pkg/config"
	"github.com/velora-app/velora-backend/pkg/logger"
)

// sender is the slice of the resend client the mailer needs.
type sender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Mailer delivers transactional account emails through Resend. Without
// an API key it runs in dev mode and only logs what it would have sent.
type Mailer struct {
	sender  sender
	from    string
	appName string
	baseURL string
	logg    *logger.Logger
}

// NewMailer builds a mailer from the email config. A missing API key
// yields a dev-mode mailer rather than an error so local setups work
// out of the box.
func NewMailer(cfg config.EmailConfig, logg *logger.Logger) *Mailer {
	m := &Mailer{
		from:    cfg.FromAddress,
		appName: cfg.AppName,
		baseURL: strings.TrimRight(cfg.AppBaseURL, "/"),
		logg:    logg,
	}
	if cfg.ResendAPIKey != "" {
		m.sender = resend.NewClient(cfg.ResendAPIKey).Emails
	}
	return m
}

func (m *Mailer) SendVerificationEmail(ctx context.Context, to, displayName, token string) error {
	verifyURL := fmt.Sprintf("%s/auth/verify-email?token=%s", m.baseURL, token)
	subject, body := verificationTemplate(displayName, verifyURL, m.appName)
	return m.send(ctx, "verification", to, subject, body)
}

func (m *Mailer) SendWelcomeEmail(ctx context.Context, to, displayName string) error {
	subject, body := welcomeTemplate(displayName, m.baseURL, m.appName)
	return m.send(ctx, "welcome", to, subject, body)
}

func (m *Mailer) SendPasswordResetEmail(ctx context.Context, to, displayName, token string) error {
	resetURL := fmt.Sprintf("%s/auth/reset-password?token=%s", m.baseURL, token)
	subject, body := passwordResetTemplate(displayName, resetURL, m.appName)
	return m.send(ctx, "password_reset", to, subject, body)
}

func (m *Mailer) send(ctx context.Context, kind, to, subject, body string) error {
	if m.sender == nil {
		if m.logg != nil {
			ctx = m.logg.WithFields(ctx, map[string]any{
				"email_kind": kind,
				"to":         to,
				"subject":    subject,
			})
			m.logg.Info(ctx, "email sent (dev mode)")
		}
		return nil
	}

	_, err := m.sender.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return fmt.Errorf("sending %s email: %w", kind, err)
	}
	if m.logg != nil {
		ctx = m.logg.WithFields(ctx, map[string]any{"email_kind": kind, "to": to})
		m.logg.Info(ctx, "email sent")
	}
	return nil
}
