package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/go-arcade/guestline/pkg/retry"
)

// SendMailFunc matches smtp.SendMail
type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailSender delivers guest mails over SMTP
type EmailSender struct {
	cfg      SMTPConfig
	auth     smtp.Auth
	sendMail SendMailFunc
}

// NewEmailSender creates a new SMTP sender
func NewEmailSender(cfg SMTPConfig) (*EmailSender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("smtp port is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("from email is required")
	}
	s := &EmailSender{cfg: cfg, sendMail: smtp.SendMail}
	if cfg.Username != "" {
		s.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return s, nil
}

func (s *EmailSender) SendVerificationEmail(ctx context.Context, mail VerificationMail) error {
	subject, body, err := RenderVerification(mail)
	if err != nil {
		return retry.Permanent(err)
	}
	return s.send(ctx, mail.Email, subject, body)
}

func (s *EmailSender) SendInvitationEmail(ctx context.Context, mail InvitationMail) error {
	subject, body, err := RenderInvitation(mail)
	if err != nil {
		return retry.Permanent(err)
	}
	return s.send(ctx, mail.Email, subject, body)
}

func (s *EmailSender) send(ctx context.Context, to, subject, body string) error {
	if strings.ContainsAny(to, "\r\n") {
		return retry.Permanent(fmt.Errorf("invalid recipient %q", to))
	}

	msg := "From: " + s.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"Date: " + time.Now().Format(time.RFC1123Z) + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" + strings.ReplaceAll(body, "\n", "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	// smtp.SendMail has no context support; run it aside so the caller can give up
	done := make(chan error, 1)
	go func() {
		done <- s.sendMail(addr, s.auth, s.cfg.From, []string{to}, []byte(msg))
	}()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
