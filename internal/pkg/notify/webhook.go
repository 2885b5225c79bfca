package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-arcade/guestline/pkg/log"
	"github.com/go-arcade/guestline/pkg/retry"
	"github.com/go-resty/resty/v2"
)

// WebhookSender hands guest mails to an HTTP mail gateway
type WebhookSender struct {
	cfg    WebhookConfig
	client *resty.Client
}

type webhookPayload struct {
	Kind    string `json:"kind"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Code    string `json:"code,omitempty"`
	Token   string `json:"token,omitempty"`
}

// NewWebhookSender creates a new webhook sender
func NewWebhookSender(cfg WebhookConfig) (*WebhookSender, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("webhook url is required")
	}
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}
	return &WebhookSender{cfg: cfg, client: client}, nil
}

func (s *WebhookSender) SendVerificationEmail(ctx context.Context, mail VerificationMail) error {
	subject, body, err := RenderVerification(mail)
	if err != nil {
		return retry.Permanent(err)
	}
	return s.post(ctx, webhookPayload{Kind: "verification", To: mail.Email, Subject: subject, Body: body, Code: mail.Code})
}

func (s *WebhookSender) SendInvitationEmail(ctx context.Context, mail InvitationMail) error {
	subject, body, err := RenderInvitation(mail)
	if err != nil {
		return retry.Permanent(err)
	}
	return s.post(ctx, webhookPayload{Kind: "invitation", To: mail.Email, Subject: subject, Body: body, Token: mail.Token})
}

func (s *WebhookSender) post(ctx context.Context, payload webhookPayload) error {
	resp, err := s.client.R().SetContext(ctx).SetBody(payload).Post(s.cfg.URL)
	if err != nil {
		log.Errorw("webhook send request failed", "kind", payload.Kind, "error", err)
		return fmt.Errorf("failed to send request: %w", err)
	}

	status := resp.StatusCode()
	if status >= 200 && status < 300 {
		return nil
	}
	log.Errorw("webhook request failed", "kind", payload.Kind, "statusCode", status, "response", resp.String())
	err = fmt.Errorf("webhook request failed with status %d", status)
	// the gateway rejected the mail itself, sending it again will not help
	if status >= 400 && status < 500 && status != http.StatusTooManyRequests {
		return retry.Permanent(err)
	}
	return err
}
