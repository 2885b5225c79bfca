package notify

import (
	"context"

	"github.com/go-arcade/guestline/pkg/log"
)

// LogSender writes mails to the service log instead of delivering them.
// Used for local development.
type LogSender struct{}

func (LogSender) SendVerificationEmail(_ context.Context, mail VerificationMail) error {
	log.Infow("verification mail", "to", mail.Email, "code", mail.Code, "expiresAt", mail.ExpiresAt)
	return nil
}

func (LogSender) SendInvitationEmail(_ context.Context, mail InvitationMail) error {
	log.Infow("invitation mail", "to", mail.Email, "tenantId", mail.TenantId, "token", mail.Token, "expiresAt", mail.ExpiresAt)
	return nil
}
