package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// ResendSender delivers mail through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// Send posts one message. A request with an IdempotencyKey is sent with the
// Idempotency-Key header, so a retried plan completion is delivered once.
func (s *ResendSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	params := s.emailRequest(req)
	sent, err := s.client.Emails.SendWithOptions(ctx, params, &resend.SendEmailOptions{IdempotencyKey: req.IdempotencyKey})
	if err != nil {
		slog.ErrorContext(ctx, "resend_send_failed", "error", err, "to", req.To, "category", req.Category)
		return SendResult{}, fmt.Errorf("resend send failed: %w", err)
	}

	slog.InfoContext(ctx, "resend_sent", "message_id", sent.Id, "to", req.To, "category", req.Category)
	return SendResult{MessageID: sent.Id, SentAt: time.Now()}, nil
}

func (s *ResendSender) emailRequest(req SendRequest) *resend.SendEmailRequest {
	params := &resend.SendEmailRequest{
		From:    req.From,
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
		Text:    req.Text,
		ReplyTo: req.ReplyTo,
	}
	if params.From == "" {
		params.From = s.from
	}
	if req.Category != "" {
		params.Tags = []resend.Tag{{Name: "category", Value: req.Category}}
	}
	return params
}
