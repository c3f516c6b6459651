package notify

import (
	"alcyxob/gym-membership/internal/config"
	"context"
	"fmt"
	"strings"
	"time"
)

// SendRequest contains the data needed to send an email via an external provider.
type SendRequest struct {
	To      []string // Recipient email addresses
	From    string   // Sender address, e.g. "Gym <noreply@example.com>"; empty uses the sender default
	Subject string
	HTML    string
	Text    string // Plain-text alternative
	ReplyTo string

	Category       string // Provider tag used to group messages, e.g. "plan_completed"
	IdempotencyKey string // Same key means the provider delivers at most once
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string    // Provider's message ID for tracking
	SentAt    time.Time // When the send was accepted
}

// Sender is the interface for sending emails via an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}

// NewSender picks the provider named in cfg.Provider.
func NewSender(cfg config.NotifyConfig) (Sender, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "log":
		return NewLogSender(), nil
	case "resend":
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("notify: resend provider requires resend_api_key")
		}
		return NewResendSender(cfg.ResendAPIKey, cfg.From), nil
	case "sendgrid":
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("notify: sendgrid provider requires sendgrid_api_key")
		}
		return NewSendGridSender(cfg.SendGridAPIKey, cfg.From)
	default:
		return nil, fmt.Errorf("notify: unknown provider %q", cfg.Provider)
	}
}
